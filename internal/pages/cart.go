package pages

import (
	"fmt"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/models"
	"go.uber.org/zap"
)

// CartPage is the cart screen
type CartPage struct {
	page                   browser.Page
	logger                 *zap.Logger
	badge                  *CartBadge
	cartItems              browser.Locator
	cartItemNames          browser.Locator
	cartItemPrices         browser.Locator
	cartItemQuantities     browser.Locator
	removeButtons          browser.Locator
	continueShoppingButton browser.Locator
	checkoutButton         browser.Locator
}

// NewCartPage creates a cart page object
func NewCartPage(page browser.Page, logger *zap.Logger) *CartPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartPage{
		page:                   page,
		logger:                 logger.Named("CartPage"),
		badge:                  NewCartBadge(page),
		cartItems:              page.Locator(browser.TestID("inventory-item")),
		cartItemNames:          page.Locator(browser.TestID("inventory-item-name")),
		cartItemPrices:         page.Locator(browser.TestID("inventory-item-price")),
		cartItemQuantities:     page.Locator(browser.TestID("item-quantity")),
		removeButtons:          page.Locator(browser.TestIDPrefix("remove-")),
		continueShoppingButton: page.Locator(browser.TestID("continue-shopping")),
		checkoutButton:         page.Locator(browser.TestID("checkout")),
	}
}

// NavigateTo loads the cart
func (p *CartPage) NavigateTo() error {
	return p.page.Goto(PathCart)
}

// CartItemCount counts the cart rows
func (p *CartPage) CartItemCount() (int, error) {
	return p.cartItems.Count()
}

// CartItemNames returns the item names in cart order
func (p *CartPage) CartItemNames() ([]string, error) {
	return p.cartItemNames.AllTextContents()
}

// CartItemPrices returns the item prices in cart order
func (p *CartPage) CartItemPrices() ([]models.Money, error) {
	return readPrices(p.cartItemPrices)
}

// CartItemQuantities returns the item quantities in cart order
func (p *CartPage) CartItemQuantities() ([]int, error) {
	return readQuantities(p.cartItemQuantities)
}

// Snapshot reads names, prices and quantities into cart lines.
func (p *CartPage) Snapshot() ([]models.CartLine, error) {
	return snapshot(p.cartItemNames, p.cartItemPrices, p.cartItemQuantities)
}

// RemoveItemByName clicks the remove button derived from the display name
func (p *CartPage) RemoveItemByName(name string) error {
	id := RemoveID(name)
	p.logger.Debug("Removing item", zap.String("item", name), zap.String("test_id", id))
	return p.page.Locator(browser.TestID(id)).Click()
}

// RemoveAllItems removes the first remaining item until none are left. Each
// click must shrink the collection.
func (p *CartPage) RemoveAllItems() error {
	remaining, err := p.removeButtons.Count()
	if err != nil {
		return err
	}
	p.logger.Debug("Removing all items", zap.Int("count", remaining))

	for remaining > 0 {
		if err := p.removeButtons.First().Click(); err != nil {
			return err
		}
		next, err := p.removeButtons.Count()
		if err != nil {
			return err
		}
		if next >= remaining {
			return fmt.Errorf("remove did not shrink the cart: %d items before, %d after", remaining, next)
		}
		remaining = next
	}
	return nil
}

// IsCartEmpty reports whether the cart has no rows
func (p *CartPage) IsCartEmpty() (bool, error) {
	n, err := p.CartItemCount()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// ContinueShopping returns to the inventory
func (p *CartPage) ContinueShopping() error {
	return p.continueShoppingButton.Click()
}

// ProceedToCheckout opens checkout step one
func (p *CartPage) ProceedToCheckout() error {
	return p.checkoutButton.Click()
}

// ShoppingCartCounter returns the badge text; it fails on an empty cart
func (p *CartPage) ShoppingCartCounter() (string, error) {
	return p.badge.Text()
}

// IsShoppingCartCounterHidden reports whether the badge is absent
func (p *CartPage) IsShoppingCartCounterHidden() (bool, error) {
	return p.badge.IsHidden()
}

func snapshot(names, prices, quantities browser.Locator) ([]models.CartLine, error) {
	n, err := names.AllTextContents()
	if err != nil {
		return nil, err
	}
	pr, err := readPrices(prices)
	if err != nil {
		return nil, err
	}
	q, err := readQuantities(quantities)
	if err != nil {
		return nil, err
	}
	if len(n) != len(pr) || len(n) != len(q) {
		return nil, fmt.Errorf("cart rows disagree: %d names, %d prices, %d quantities", len(n), len(pr), len(q))
	}

	lines := make([]models.CartLine, len(n))
	for i := range n {
		lines[i] = models.CartLine{Name: n[i], Price: pr[i], Quantity: q[i]}
	}
	return lines, nil
}
