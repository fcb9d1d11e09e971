package pages

import (
	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/models"
	"go.uber.org/zap"
)

// CheckoutPage covers the three checkout screens: information, overview and
// complete. It does not enforce their order; calling an overview reader on
// another screen fails to resolve.
type CheckoutPage struct {
	page               browser.Page
	logger             *zap.Logger
	badge              *CartBadge
	firstNameInput     browser.Locator
	lastNameInput      browser.Locator
	postalCodeInput    browser.Locator
	continueButton     browser.Locator
	checkoutItems      browser.Locator
	checkoutItemNames  browser.Locator
	checkoutPrices     browser.Locator
	checkoutQuantities browser.Locator
	subtotalLabel      browser.Locator
	taxLabel           browser.Locator
	totalLabel         browser.Locator
	finishButton       browser.Locator
	cancelButton       browser.Locator
	errorMessage       browser.Locator
	successMessage     browser.Locator
	backHomeButton     browser.Locator
}

// NewCheckoutPage creates a checkout page object
func NewCheckoutPage(page browser.Page, logger *zap.Logger) *CheckoutPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutPage{
		page:               page,
		logger:             logger.Named("CheckoutPage"),
		badge:              NewCartBadge(page),
		firstNameInput:     page.Locator(browser.TestID("firstName")),
		lastNameInput:      page.Locator(browser.TestID("lastName")),
		postalCodeInput:    page.Locator(browser.TestID("postalCode")),
		continueButton:     page.Locator(browser.TestID("continue")),
		checkoutItems:      page.Locator(browser.TestID("inventory-item")),
		checkoutItemNames:  page.Locator(browser.TestID("inventory-item-name")),
		checkoutPrices:     page.Locator(browser.TestID("inventory-item-price")),
		checkoutQuantities: page.Locator(browser.TestID("item-quantity")),
		subtotalLabel:      page.Locator(browser.TestID("subtotal-label")),
		taxLabel:           page.Locator(browser.TestID("tax-label")),
		totalLabel:         page.Locator(browser.TestID("total-label")),
		finishButton:       page.Locator(browser.TestID("finish")),
		cancelButton:       page.Locator(browser.TestID("cancel")),
		errorMessage:       page.Locator(browser.TestID("error")),
		successMessage:     page.Locator(browser.TestID("complete-header")),
		backHomeButton:     page.Locator(browser.TestID("back-to-products")),
	}
}

// NavigateTo loads checkout step one
func (p *CheckoutPage) NavigateTo() error {
	return p.page.Goto(PathCheckoutStepOne)
}

// FillCheckoutForm fills all three fields and continues. Empty values are
// submitted as given.
func (p *CheckoutPage) FillCheckoutForm(firstName, lastName, postalCode string) error {
	p.logger.Debug("Filling checkout form",
		zap.String("first_name", firstName),
		zap.String("last_name", lastName),
		zap.String("postal_code", postalCode))

	if err := p.firstNameInput.Fill(firstName); err != nil {
		return err
	}
	if err := p.lastNameInput.Fill(lastName); err != nil {
		return err
	}
	if err := p.postalCodeInput.Fill(postalCode); err != nil {
		return err
	}
	return p.continueButton.Click()
}

// Submit fills the form from info
func (p *CheckoutPage) Submit(info models.CheckoutInfo) error {
	return p.FillCheckoutForm(info.FirstName, info.LastName, info.PostalCode)
}

// Subtotal returns the raw subtotal label, e.g. "Item total: $39.98"
func (p *CheckoutPage) Subtotal() (string, error) {
	return p.subtotalLabel.TextContent()
}

// Tax returns the raw tax label, e.g. "Tax: $3.20"
func (p *CheckoutPage) Tax() (string, error) {
	return p.taxLabel.TextContent()
}

// Total returns the raw total label, e.g. "Total: $43.18"
func (p *CheckoutPage) Total() (string, error) {
	return p.totalLabel.TextContent()
}

// SubtotalAmount parses the subtotal label
func (p *CheckoutPage) SubtotalAmount() (models.Money, error) {
	return readLabel(p.subtotalLabel, models.SubtotalPrefix)
}

// TaxAmount parses the tax label
func (p *CheckoutPage) TaxAmount() (models.Money, error) {
	return readLabel(p.taxLabel, models.TaxPrefix)
}

// TotalAmount parses the total label
func (p *CheckoutPage) TotalAmount() (models.Money, error) {
	return readLabel(p.totalLabel, models.TotalPrefix)
}

// Summary reads the three overview labels
func (p *CheckoutPage) Summary() (models.OrderSummary, error) {
	subtotal, err := p.SubtotalAmount()
	if err != nil {
		return models.OrderSummary{}, err
	}
	tax, err := p.TaxAmount()
	if err != nil {
		return models.OrderSummary{}, err
	}
	total, err := p.TotalAmount()
	if err != nil {
		return models.OrderSummary{}, err
	}
	return models.OrderSummary{Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// SumItemPrices adds up the displayed item prices
func (p *CheckoutPage) SumItemPrices() (models.Money, error) {
	prices, err := readPrices(p.checkoutPrices)
	if err != nil {
		return 0, err
	}
	return models.Sum(prices), nil
}

// SumSubtotalAndTax adds the displayed subtotal and tax
func (p *CheckoutPage) SumSubtotalAndTax() (models.Money, error) {
	subtotal, err := p.SubtotalAmount()
	if err != nil {
		return 0, err
	}
	tax, err := p.TaxAmount()
	if err != nil {
		return 0, err
	}
	return subtotal + tax, nil
}

// CartItemCount counts the overview rows
func (p *CheckoutPage) CartItemCount() (int, error) {
	return p.checkoutItems.Count()
}

// CartItemNames returns the overview item names
func (p *CheckoutPage) CartItemNames() ([]string, error) {
	return p.checkoutItemNames.AllTextContents()
}

// CartItemPrices returns the overview item prices
func (p *CheckoutPage) CartItemPrices() ([]models.Money, error) {
	return readPrices(p.checkoutPrices)
}

// CartItemQuantities returns the overview item quantities
func (p *CheckoutPage) CartItemQuantities() ([]int, error) {
	return readQuantities(p.checkoutQuantities)
}

// Snapshot reads the overview rows into cart lines
func (p *CheckoutPage) Snapshot() ([]models.CartLine, error) {
	return snapshot(p.checkoutItemNames, p.checkoutPrices, p.checkoutQuantities)
}

// FinishCheckout places the order
func (p *CheckoutPage) FinishCheckout() error {
	p.logger.Debug("Finishing checkout")
	return p.finishButton.Click()
}

// CancelCheckout leaves the current checkout screen
func (p *CheckoutPage) CancelCheckout() error {
	return p.cancelButton.Click()
}

// ErrorMessage waits for the error banner and returns its text
func (p *CheckoutPage) ErrorMessage() (string, error) {
	if err := p.errorMessage.WaitForVisible(); err != nil {
		return "", err
	}
	return p.errorMessage.TextContent()
}

// SuccessMessage waits for the confirmation header and returns its text
func (p *CheckoutPage) SuccessMessage() (string, error) {
	if err := p.successMessage.WaitForVisible(); err != nil {
		return "", err
	}
	return p.successMessage.TextContent()
}

// IsShoppingCartCounterHidden reports whether the badge is absent
func (p *CheckoutPage) IsShoppingCartCounterHidden() (bool, error) {
	return p.badge.IsHidden()
}

// ClickBackHomeButton returns to the inventory after an order
func (p *CheckoutPage) ClickBackHomeButton() error {
	return p.backHomeButton.Click()
}
