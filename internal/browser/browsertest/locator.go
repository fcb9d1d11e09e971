package browsertest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

type element struct {
	tag      string
	attrs    map[string]string
	text     string
	hidden   bool
	children []*element
	onClick  func()
	onFill   func(string)
	onSelect func(string)
}

// textContent includes the text of all descendants, like the DOM property.
func (e *element) textContent() string {
	var b strings.Builder
	b.WriteString(e.text)
	for _, c := range e.children {
		b.WriteString(c.textContent())
	}
	return b.String()
}

func (e *element) descendants() []*element {
	var out []*element
	for _, c := range e.children {
		out = append(out, c)
		out = append(out, c.descendants()...)
	}
	return out
}

// simpleSelector matches tag, #id, [attr="v"] and [attr^="v"] forms, and a
// tag followed by one attribute test.
var simpleSelector = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)?(?:#([\w-]+)|\[([\w-]+)(\^?=)"((?:[^"\\]|\\.)*)"\])?$`)

type matcher struct {
	tag      string
	id       string
	attr     string
	op       string
	value    string
	selector string
}

func parseSelector(selector string) ([]matcher, error) {
	var out []matcher
	for _, part := range splitDescendants(selector) {
		m := simpleSelector.FindStringSubmatch(part)
		if m == nil || part == "" {
			return nil, fmt.Errorf("unsupported selector %q", selector)
		}
		out = append(out, matcher{
			tag:      m[1],
			id:       m[2],
			attr:     m[3],
			op:       m[4],
			value:    strings.ReplaceAll(m[5], `\"`, `"`),
			selector: part,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	return out, nil
}

// splitDescendants splits on whitespace outside of brackets and quotes.
func splitDescendants(selector string) []string {
	var parts []string
	var cur strings.Builder
	depth, quoted := 0, false
	for _, r := range selector {
		switch {
		case r == '"':
			quoted = !quoted
		case r == '[' && !quoted:
			depth++
		case r == ']' && !quoted:
			depth--
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0 && !quoted:
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func (m matcher) matches(e *element) bool {
	if m.tag != "" && !strings.EqualFold(m.tag, e.tag) {
		return false
	}
	if m.id != "" && e.attrs["id"] != m.id {
		return false
	}
	if m.attr != "" {
		v, ok := e.attrs[m.attr]
		if !ok {
			return false
		}
		if m.op == "^=" {
			return strings.HasPrefix(v, m.value)
		}
		return v == m.value
	}
	return true
}

// locator is a chain of queries re-run against a fresh render on every call.
type locator struct {
	page     *Page
	parent   *locator
	selector string
	nth      int
}

var _ browser.Locator = (*locator)(nil)

func (l *locator) describe() string {
	s := l.selector
	if l.parent != nil {
		s = l.parent.describe() + " " + s
	}
	if l.nth >= 0 {
		s = fmt.Sprintf("%s >> nth=%d", s, l.nth)
	}
	return s
}

func (l *locator) resolve() ([]*element, error) {
	var scope []*element
	if l.parent == nil {
		for _, e := range l.page.render() {
			scope = append(scope, e)
			scope = append(scope, e.descendants()...)
		}
	} else {
		parents, err := l.parent.resolve()
		if err != nil {
			return nil, err
		}
		if l.selector == "" {
			scope = parents
		} else {
			for _, p := range parents {
				scope = append(scope, p.descendants()...)
			}
		}
	}

	if l.selector != "" {
		matchers, err := parseSelector(l.selector)
		if err != nil {
			return nil, err
		}
		for i, m := range matchers {
			var next []*element
			for _, e := range scope {
				if m.matches(e) {
					next = append(next, e)
				}
			}
			if i < len(matchers)-1 {
				scope = nil
				for _, e := range next {
					scope = append(scope, e.descendants()...)
				}
				continue
			}
			scope = next
		}
	}

	if l.nth >= 0 {
		if l.nth >= len(scope) {
			return nil, nil
		}
		return []*element{scope[l.nth]}, nil
	}
	return scope, nil
}

// single enforces the strict single-match rule for actions.
func (l *locator) single(action string) (*element, error) {
	els, err := l.resolve()
	if err != nil {
		return nil, browser.ResolutionError(action, l.describe(), err)
	}
	switch len(els) {
	case 0:
		return nil, browser.ResolutionError(action, l.describe(), nil)
	case 1:
		return els[0], nil
	default:
		return nil, browser.ResolutionError(action, l.describe(),
			fmt.Errorf("strict mode violation: resolved to %d elements", len(els)))
	}
}

func (l *locator) actionable(action string) (*element, error) {
	e, err := l.single(action)
	if err != nil {
		return nil, err
	}
	if e.hidden {
		return nil, browser.ResolutionError(action, l.describe(), fmt.Errorf("element is not visible"))
	}
	return e, nil
}

func (l *locator) Click() error {
	e, err := l.actionable("click")
	if err != nil {
		return err
	}
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (l *locator) Fill(value string) error {
	e, err := l.actionable("fill")
	if err != nil {
		return err
	}
	if e.onFill == nil {
		return browser.ResolutionError("fill", l.describe(), fmt.Errorf("element is not an <input>"))
	}
	e.onFill(value)
	return nil
}

func (l *locator) SelectOption(value string) error {
	e, err := l.actionable("select")
	if err != nil {
		return err
	}
	if e.onSelect == nil {
		return browser.ResolutionError("select", l.describe(), fmt.Errorf("element is not a <select>"))
	}
	for _, opt := range e.children {
		if opt.tag == "option" && opt.attrs["value"] == value {
			e.onSelect(value)
			return nil
		}
	}
	return browser.ResolutionError("select", l.describe(), fmt.Errorf("no option %q", value))
}

func (l *locator) TextContent() (string, error) {
	e, err := l.single("read text of")
	if err != nil {
		return "", err
	}
	return e.textContent(), nil
}

func (l *locator) AllTextContents() ([]string, error) {
	els, err := l.resolve()
	if err != nil {
		return nil, browser.ResolutionError("read texts of", l.describe(), err)
	}
	out := make([]string, 0, len(els))
	for _, e := range els {
		out = append(out, e.textContent())
	}
	return out, nil
}

func (l *locator) GetAttribute(name string) (string, error) {
	e, err := l.single("read " + name + " of")
	if err != nil {
		return "", err
	}
	return e.attrs[name], nil
}

func (l *locator) Count() (int, error) {
	els, err := l.resolve()
	if err != nil {
		return 0, browser.ResolutionError("count", l.describe(), err)
	}
	return len(els), nil
}

func (l *locator) IsVisible() (bool, error) {
	els, err := l.resolve()
	if err != nil {
		return false, browser.ResolutionError("check visibility of", l.describe(), err)
	}
	switch len(els) {
	case 0:
		return false, nil
	case 1:
		return !els[0].hidden, nil
	default:
		return false, browser.ResolutionError("check visibility of", l.describe(),
			fmt.Errorf("strict mode violation: resolved to %d elements", len(els)))
	}
}

func (l *locator) IsHidden() (bool, error) {
	visible, err := l.IsVisible()
	return !visible, err
}

func (l *locator) WaitForVisible() error {
	_, err := l.actionable("wait for")
	return err
}

func (l *locator) First() browser.Locator {
	return l.Nth(0)
}

func (l *locator) Nth(index int) browser.Locator {
	if l.nth < 0 {
		return &locator{page: l.page, parent: l.parent, selector: l.selector, nth: index}
	}
	return &locator{page: l.page, parent: l, nth: index}
}

func (l *locator) Locator(selector string) browser.Locator {
	return &locator{page: l.page, parent: l, selector: selector, nth: -1}
}
