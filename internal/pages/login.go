package pages

import (
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"go.uber.org/zap"
)

// LoginPage is the storefront entry screen
type LoginPage struct {
	page          browser.Page
	logger        *zap.Logger
	usernameInput browser.Locator
	passwordInput browser.Locator
	loginButton   browser.Locator
	errorMessage  browser.Locator
}

// NewLoginPage creates a login page object
func NewLoginPage(page browser.Page, logger *zap.Logger) *LoginPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginPage{
		page:          page,
		logger:        logger.Named("LoginPage"),
		usernameInput: page.Locator(browser.TestID("username")),
		passwordInput: page.Locator(browser.TestID("password")),
		loginButton:   page.Locator("#login-button"),
		errorMessage:  page.Locator(browser.TestID("error")),
	}
}

// NavigateTo loads the login screen
func (p *LoginPage) NavigateTo() error {
	return p.page.Goto(PathLogin)
}

// Login fills both credentials and submits once. Whether it worked is only
// visible through the resulting URL or the error banner.
func (p *LoginPage) Login(username, password string) error {
	p.logger.Debug("Logging in", zap.String("username", username))
	if err := p.usernameInput.Fill(username); err != nil {
		return err
	}
	if err := p.passwordInput.Fill(password); err != nil {
		return err
	}
	return p.loginButton.Click()
}

// ErrorMessage returns the text of the login error banner
func (p *LoginPage) ErrorMessage() (string, error) {
	if err := p.errorMessage.WaitForVisible(); err != nil {
		return "", err
	}
	return p.errorMessage.TextContent()
}

// IsLoggedIn reports whether the browser landed on the inventory
func (p *LoginPage) IsLoggedIn() bool {
	return strings.HasSuffix(p.page.URL(), PathInventory)
}
