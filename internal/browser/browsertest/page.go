package browsertest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/models"
)

// Storefront routes
const (
	PathLogin            = "/"
	PathInventory        = "/inventory.html"
	PathCart             = "/cart.html"
	PathCheckoutStepOne  = "/checkout-step-one.html"
	PathCheckoutStepTwo  = "/checkout-step-two.html"
	PathCheckoutComplete = "/checkout-complete.html"
)

var protectedPaths = map[string]bool{
	PathInventory:        true,
	PathCart:             true,
	PathCheckoutStepOne:  true,
	PathCheckoutStepTwo:  true,
	PathCheckoutComplete: true,
}

// setItemScript matches the localStorage writes the fake understands in init
// scripts. Both arguments must be JSON string literals.
var setItemScript = regexp.MustCompile(`localStorage\.setItem\(\s*("(?:[^"\\]|\\.)*")\s*,\s*("(?:[^"\\]|\\.)*")\s*\)`)

var whitespace = regexp.MustCompile(`\s+`)

// Page is the state of one fake tab.
type Page struct {
	front       *Storefront
	url         string
	path        string
	user        string
	storage     map[string]string
	form        map[string]string
	errorMsg    string
	sortOption  models.SortOption
	initScripts []string
}

var _ browser.Page = (*Page)(nil)

// Goto performs a full document load: init scripts run and login is
// enforced on protected routes.
func (p *Page) Goto(path string) error {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		path = strings.TrimPrefix(path, p.front.BaseURL)
	}
	if path == "" {
		path = PathLogin
	}

	for _, script := range p.initScripts {
		if err := p.runInitScript(script); err != nil {
			return err
		}
	}

	p.sortOption = models.SortNameAsc
	if protectedPaths[path] && p.user == "" {
		p.navigate(PathLogin)
		p.errorMsg = fmt.Sprintf("Epic sadface: You can only access '%s' when you are logged in.", path)
		return nil
	}
	p.navigate(path)
	return nil
}

// URL returns the absolute URL of the current document.
func (p *Page) URL() string { return p.url }

// Locator returns a lazily resolved query against the current document.
func (p *Page) Locator(selector string) browser.Locator {
	return &locator{page: p, selector: selector, nth: -1}
}

// WaitForURL succeeds when the current URL matches a glob such as
// "**/cart.html". The fake navigates synchronously, so it never waits.
func (p *Page) WaitForURL(pattern string) error {
	if globToRegexp(pattern).MatchString(p.url) {
		return nil
	}
	return fmt.Errorf("url %s does not match %s", p.url, pattern)
}

// AddInitScript records a script run on every Goto.
func (p *Page) AddInitScript(script string) error {
	if !setItemScript.MatchString(script) {
		return fmt.Errorf("unsupported init script: %s", script)
	}
	p.initScripts = append(p.initScripts, script)
	return nil
}

// LocalStorage returns a stored value, for assertions in tests.
func (p *Page) LocalStorage(key string) (string, bool) {
	v, ok := p.storage[key]
	return v, ok
}

func (p *Page) runInitScript(script string) error {
	for _, m := range setItemScript.FindAllStringSubmatch(script, -1) {
		var key, value string
		if err := json.Unmarshal([]byte(m[1]), &key); err != nil {
			return fmt.Errorf("bad init script key %s: %w", m[1], err)
		}
		if err := json.Unmarshal([]byte(m[2]), &value); err != nil {
			return fmt.Errorf("bad init script value %s: %w", m[2], err)
		}
		p.storage[key] = value
	}
	return nil
}

// navigate is a client-side route change.
func (p *Page) navigate(path string) {
	p.path = path
	p.url = p.front.BaseURL + path
	p.errorMsg = ""
	p.form = make(map[string]string)
}

func (p *Page) cart() []int {
	raw, ok := p.storage[models.CartContentKey]
	if !ok {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func (p *Page) setCart(ids []int) {
	if len(ids) == 0 {
		delete(p.storage, models.CartContentKey)
		return
	}
	data, _ := json.Marshal(ids)
	p.storage[models.CartContentKey] = string(data)
}

func (p *Page) inCart(id int) bool {
	for _, c := range p.cart() {
		if c == id {
			return true
		}
	}
	return false
}

func (p *Page) addToCart(id int) {
	if p.inCart(id) {
		return
	}
	p.setCart(append(p.cart(), id))
}

func (p *Page) removeFromCart(id int) {
	var kept []int
	for _, c := range p.cart() {
		if c != id {
			kept = append(kept, c)
		}
	}
	p.setCart(kept)
}

func (p *Page) cartProducts() []models.Product {
	var out []models.Product
	for _, id := range p.cart() {
		if prod, err := models.ProductByID(id); err == nil {
			out = append(out, prod)
		}
	}
	return out
}

// dataTestID is how the store derives button ids from product names.
func dataTestID(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(name, "-"))
}

// render builds the current document in order.
func (p *Page) render() []*element {
	switch p.path {
	case PathLogin:
		return p.renderLogin()
	case PathInventory:
		return append(p.renderHeader(), p.renderInventory()...)
	case PathCart:
		return append(p.renderHeader(), p.renderCart()...)
	case PathCheckoutStepOne:
		return append(p.renderHeader(), p.renderStepOne()...)
	case PathCheckoutStepTwo:
		return append(p.renderHeader(), p.renderStepTwo()...)
	case PathCheckoutComplete:
		return append(p.renderHeader(), p.renderComplete()...)
	}
	return nil
}

func (p *Page) renderError() []*element {
	if p.errorMsg == "" {
		return nil
	}
	return []*element{{tag: "h3", attrs: attrs("data-test", "error"), text: p.errorMsg}}
}

func (p *Page) input(testID, id string) *element {
	return &element{
		tag:   "input",
		attrs: attrs("data-test", testID, "id", id, "value", p.form[testID]),
		onFill: func(value string) {
			p.form[testID] = value
		},
	}
}

func (p *Page) renderLogin() []*element {
	els := []*element{
		p.input("username", "user-name"),
		p.input("password", "password"),
	}
	els = append(els, p.renderError()...)
	els = append(els, &element{
		tag:   "input",
		attrs: attrs("data-test", "login-button", "id", "login-button", "value", "Login"),
		onClick: func() {
			username, password := p.form["username"], p.form["password"]
			if msg := p.front.authenticate(username, password); msg != "" {
				p.errorMsg = msg
				return
			}
			p.user = username
			p.navigate(PathInventory)
		},
	})
	return els
}

func (p *Page) renderHeader() []*element {
	els := []*element{{
		tag:     "a",
		attrs:   attrs("data-test", "shopping-cart-link"),
		onClick: func() { p.navigate(PathCart) },
	}}
	if n := len(p.cart()); n > 0 {
		els = append(els, &element{
			tag:   "span",
			attrs: attrs("data-test", "shopping-cart-badge"),
			text:  strconv.Itoa(n),
		})
	}
	return els
}

func (p *Page) renderInventory() []*element {
	sel := &element{tag: "select", attrs: attrs("data-test", "product-sort-container")}
	for _, opt := range models.SortOptions() {
		sel.children = append(sel.children, &element{
			tag:   "option",
			attrs: attrs("value", string(opt)),
			text:  opt.Label(),
		})
	}
	sel.onSelect = func(value string) {
		p.sortOption = models.SortOption(value)
	}

	els := []*element{
		{tag: "span", attrs: attrs("data-test", "title"), text: "Products"},
		sel,
		{tag: "span", attrs: attrs("data-test", "active-option"), text: p.sortOption.Label()},
	}

	for _, prod := range models.SortProducts(models.Catalog(), p.sortOption) {
		prod := prod
		item := &element{tag: "div", attrs: attrs("data-test", "inventory-item")}
		item.children = []*element{
			{tag: "div", attrs: attrs("data-test", "inventory-item-name"), text: prod.Name},
			{tag: "div", attrs: attrs("data-test", "inventory-item-desc"), text: prod.Description},
			{tag: "div", attrs: attrs("data-test", "inventory-item-price"), text: prod.Price.String()},
		}
		if p.inCart(prod.ID) {
			item.children = append(item.children, &element{
				tag:     "button",
				attrs:   attrs("data-test", "remove-"+dataTestID(prod.Name)),
				text:    "Remove",
				onClick: func() { p.removeFromCart(prod.ID) },
			})
		} else {
			item.children = append(item.children, &element{
				tag:     "button",
				attrs:   attrs("data-test", "add-to-cart-"+dataTestID(prod.Name)),
				text:    "Add to cart",
				onClick: func() { p.addToCart(prod.ID) },
			})
		}
		els = append(els, item)
	}
	return els
}

func (p *Page) cartItems(removable bool) []*element {
	var els []*element
	for _, prod := range p.cartProducts() {
		prod := prod
		item := &element{tag: "div", attrs: attrs("data-test", "inventory-item")}
		item.children = []*element{
			{tag: "div", attrs: attrs("data-test", "item-quantity"), text: "1"},
			{tag: "div", attrs: attrs("data-test", "inventory-item-name"), text: prod.Name},
			{tag: "div", attrs: attrs("data-test", "inventory-item-desc"), text: prod.Description},
			{tag: "div", attrs: attrs("data-test", "inventory-item-price"), text: prod.Price.String()},
		}
		if removable {
			item.children = append(item.children, &element{
				tag:     "button",
				attrs:   attrs("data-test", "remove-"+dataTestID(prod.Name)),
				text:    "Remove",
				onClick: func() { p.removeFromCart(prod.ID) },
			})
		}
		els = append(els, item)
	}
	return els
}

func (p *Page) renderCart() []*element {
	els := []*element{{tag: "span", attrs: attrs("data-test", "title"), text: "Your Cart"}}
	els = append(els, p.cartItems(true)...)
	return append(els,
		&element{
			tag:     "button",
			attrs:   attrs("data-test", "continue-shopping"),
			text:    "Continue Shopping",
			onClick: func() { p.navigate(PathInventory) },
		},
		&element{
			tag:     "button",
			attrs:   attrs("data-test", "checkout"),
			text:    "Checkout",
			onClick: func() { p.navigate(PathCheckoutStepOne) },
		},
	)
}

func (p *Page) renderStepOne() []*element {
	els := []*element{
		{tag: "span", attrs: attrs("data-test", "title"), text: "Checkout: Your Information"},
		p.input("firstName", "first-name"),
		p.input("lastName", "last-name"),
		p.input("postalCode", "postal-code"),
	}
	els = append(els, p.renderError()...)
	return append(els,
		&element{
			tag:     "button",
			attrs:   attrs("data-test", "cancel"),
			text:    "Cancel",
			onClick: func() { p.navigate(PathCart) },
		},
		&element{
			tag:   "input",
			attrs: attrs("data-test", "continue", "value", "Continue"),
			onClick: func() {
				switch {
				case p.form["firstName"] == "":
					p.errorMsg = "Error: First Name is required"
				case p.form["lastName"] == "":
					p.errorMsg = "Error: Last Name is required"
				case p.form["postalCode"] == "":
					p.errorMsg = "Error: Postal Code is required"
				default:
					p.navigate(PathCheckoutStepTwo)
				}
			},
		},
	)
}

func (p *Page) renderStepTwo() []*element {
	var lines []models.CartLine
	for _, prod := range p.cartProducts() {
		lines = append(lines, models.CartLine{Name: prod.Name, Price: prod.Price, Quantity: 1})
	}
	summary := models.NewOrderSummary(lines)

	els := []*element{{tag: "span", attrs: attrs("data-test", "title"), text: "Checkout: Overview"}}
	els = append(els, p.cartItems(false)...)
	return append(els,
		&element{tag: "div", attrs: attrs("data-test", "subtotal-label"), text: summary.SubtotalLabel()},
		&element{tag: "div", attrs: attrs("data-test", "tax-label"), text: summary.TaxLabel()},
		&element{tag: "div", attrs: attrs("data-test", "total-label"), text: summary.TotalLabel()},
		&element{
			tag:     "button",
			attrs:   attrs("data-test", "cancel"),
			text:    "Cancel",
			onClick: func() { p.navigate(PathInventory) },
		},
		&element{
			tag:   "button",
			attrs: attrs("data-test", "finish"),
			text:  "Finish",
			onClick: func() {
				p.setCart(nil)
				p.navigate(PathCheckoutComplete)
			},
		},
	)
}

func (p *Page) renderComplete() []*element {
	return []*element{
		{tag: "span", attrs: attrs("data-test", "title"), text: "Checkout: Complete!"},
		{tag: "h2", attrs: attrs("data-test", "complete-header"), text: "Thank you for your order!"},
		{tag: "div", attrs: attrs("data-test", "complete-text"), text: "Your order has been dispatched, and will arrive just as fast as the pony can get there!"},
		{
			tag:     "button",
			attrs:   attrs("data-test", "back-to-products"),
			text:    "Back Home",
			onClick: func() { p.navigate(PathInventory) },
		},
	}
}

func attrs(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func globToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i++
		case pattern[i] == '*':
			b.WriteString("[^/]*")
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
