package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// PlaywrightConfig configures the playwright-go runtime.
type PlaywrightConfig struct {
	BaseURL       string
	Browser       string
	Headless      bool
	SlowMo        time.Duration
	ActionTimeout time.Duration
}

// PlaywrightRuntime launches one browser and hands out isolated contexts.
type PlaywrightRuntime struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     PlaywrightConfig
	logger  *zap.Logger
}

// NewPlaywrightRuntime starts the playwright driver and launches the
// configured browser. Browsers must already be installed, e.g. with
// go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
func NewPlaywrightRuntime(cfg PlaywrightConfig, logger *zap.Logger) (*PlaywrightRuntime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch strings.ToLower(cfg.Browser) {
	case "", "chromium", "chrome":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", cfg.Browser)
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", browserType.Name(), err)
	}

	logger.Info("Browser launched",
		zap.String("browser", browserType.Name()),
		zap.Bool("headless", cfg.Headless),
		zap.String("base_url", cfg.BaseURL))

	return &PlaywrightRuntime{pw: pw, browser: b, cfg: cfg, logger: logger}, nil
}

// NewSession creates a browser context bound to the base URL.
func (r *PlaywrightRuntime) NewSession(opts SessionOptions) (Session, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(r.cfg.BaseURL),
	}
	if opts.StorageStatePath != "" {
		ctxOpts.StorageStatePath = playwright.String(opts.StorageStatePath)
	}

	bctx, err := r.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if r.cfg.ActionTimeout > 0 {
		bctx.SetDefaultTimeout(float64(r.cfg.ActionTimeout.Milliseconds()))
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &playwrightSession{ctx: bctx, page: &playwrightPage{page: page}}, nil
}

// Close shuts the browser and the driver down.
func (r *PlaywrightRuntime) Close() error {
	var firstErr error
	if err := r.browser.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close browser: %w", err)
	}
	if err := r.pw.Stop(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to stop playwright: %w", err)
	}
	return firstErr
}

type playwrightSession struct {
	ctx  playwright.BrowserContext
	page *playwrightPage
}

func (s *playwrightSession) Page() Page { return s.page }

func (s *playwrightSession) SaveStorageState(path string) error {
	if _, err := s.ctx.StorageState(path); err != nil {
		return fmt.Errorf("failed to save storage state to %s: %w", path, err)
	}
	return nil
}

func (s *playwrightSession) Close() error {
	return s.ctx.Close()
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(path string) error {
	if _, err := p.page.Goto(path); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", path, err)
	}
	return nil
}

func (p *playwrightPage) URL() string { return p.page.URL() }

func (p *playwrightPage) Locator(selector string) Locator {
	return &playwrightLocator{loc: p.page.Locator(selector), selector: selector}
}

func (p *playwrightPage) WaitForURL(pattern string) error {
	if err := p.page.WaitForURL(pattern); err != nil {
		return fmt.Errorf("url never matched %s: %w", pattern, err)
	}
	return nil
}

func (p *playwrightPage) AddInitScript(script string) error {
	return p.page.AddInitScript(playwright.Script{Content: playwright.String(script)})
}

type playwrightLocator struct {
	loc      playwright.Locator
	selector string
}

func (l *playwrightLocator) wrap(action string, err error) error {
	if err == nil {
		return nil
	}
	return ResolutionError(action, l.selector, err)
}

func (l *playwrightLocator) Click() error {
	return l.wrap("click", l.loc.Click())
}

func (l *playwrightLocator) Fill(value string) error {
	return l.wrap("fill", l.loc.Fill(value))
}

func (l *playwrightLocator) SelectOption(value string) error {
	_, err := l.loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
	return l.wrap("select", err)
}

func (l *playwrightLocator) TextContent() (string, error) {
	text, err := l.loc.TextContent()
	return text, l.wrap("read text of", err)
}

func (l *playwrightLocator) AllTextContents() ([]string, error) {
	texts, err := l.loc.AllTextContents()
	return texts, l.wrap("read texts of", err)
}

func (l *playwrightLocator) GetAttribute(name string) (string, error) {
	value, err := l.loc.GetAttribute(name)
	return value, l.wrap("read "+name+" of", err)
}

func (l *playwrightLocator) Count() (int, error) {
	n, err := l.loc.Count()
	return n, l.wrap("count", err)
}

func (l *playwrightLocator) IsVisible() (bool, error) {
	v, err := l.loc.IsVisible()
	return v, l.wrap("check visibility of", err)
}

func (l *playwrightLocator) IsHidden() (bool, error) {
	h, err := l.loc.IsHidden()
	return h, l.wrap("check visibility of", err)
}

func (l *playwrightLocator) WaitForVisible() error {
	return l.wrap("wait for", l.loc.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}))
}

func (l *playwrightLocator) First() Locator {
	return &playwrightLocator{loc: l.loc.First(), selector: l.selector + " >> nth=0"}
}

func (l *playwrightLocator) Nth(index int) Locator {
	return &playwrightLocator{loc: l.loc.Nth(index), selector: fmt.Sprintf("%s >> nth=%d", l.selector, index)}
}

func (l *playwrightLocator) Locator(selector string) Locator {
	return &playwrightLocator{loc: l.loc.Locator(selector), selector: l.selector + " " + selector}
}
