package pages

import (
	"fmt"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/models"
	"go.uber.org/zap"
)

// ProductsPage is the inventory screen
type ProductsPage struct {
	page             browser.Page
	logger           *zap.Logger
	badge            *CartBadge
	shoppingCartLink browser.Locator
	sortDropdown     browser.Locator
	activeSort       browser.Locator
	itemNames        browser.Locator
	itemPrices       browser.Locator
}

// NewProductsPage creates a products page object
func NewProductsPage(page browser.Page, logger *zap.Logger) *ProductsPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductsPage{
		page:             page,
		logger:           logger.Named("ProductsPage"),
		badge:            NewCartBadge(page),
		shoppingCartLink: page.Locator(browser.TestID("shopping-cart-link")),
		sortDropdown:     page.Locator(browser.TestID("product-sort-container")),
		activeSort:       page.Locator(browser.TestID("active-option")),
		itemNames:        page.Locator(browser.TestID("inventory-item-name")),
		itemPrices:       page.Locator(browser.TestID("inventory-item-price")),
	}
}

// NavigateTo loads the inventory
func (p *ProductsPage) NavigateTo() error {
	return p.page.Goto(PathInventory)
}

// AddToCart clicks the add button of the named item. The button turns into a
// remove button, so adding the same item twice fails to resolve.
func (p *ProductsPage) AddToCart(name string) error {
	id := AddToCartID(name)
	p.logger.Debug("Adding item to cart", zap.String("item", name), zap.String("test_id", id))
	return p.page.Locator(browser.TestID(id)).Click()
}

// RemoveFromCart clicks the remove button of the named item
func (p *ProductsPage) RemoveFromCart(name string) error {
	id := RemoveID(name)
	p.logger.Debug("Removing item from cart", zap.String("item", name), zap.String("test_id", id))
	return p.page.Locator(browser.TestID(id)).Click()
}

// AddBackpackToCart adds the Sauce Labs Backpack
func (p *ProductsPage) AddBackpackToCart() error {
	return p.AddToCart(models.Backpack)
}

// AddBikeLightToCart adds the Sauce Labs Bike Light
func (p *ProductsPage) AddBikeLightToCart() error {
	return p.AddToCart(models.BikeLight)
}

// RemoveBackpackFromCart removes the Sauce Labs Backpack
func (p *ProductsPage) RemoveBackpackFromCart() error {
	return p.RemoveFromCart(models.Backpack)
}

// RemoveBikeLightFromCart removes the Sauce Labs Bike Light
func (p *ProductsPage) RemoveBikeLightFromCart() error {
	return p.RemoveFromCart(models.BikeLight)
}

// SortOptions reads the option values the dropdown currently offers
func (p *ProductsPage) SortOptions() ([]models.SortOption, error) {
	options := p.sortDropdown.Locator("option")
	n, err := options.Count()
	if err != nil {
		return nil, err
	}
	out := make([]models.SortOption, 0, n)
	for i := 0; i < n; i++ {
		value, err := options.Nth(i).GetAttribute("value")
		if err != nil {
			return nil, err
		}
		out = append(out, models.SortOption(value))
	}
	return out, nil
}

// SortProducts selects a sort option after checking the dropdown offers it
func (p *ProductsPage) SortProducts(option models.SortOption) error {
	offered, err := p.SortOptions()
	if err != nil {
		return err
	}
	found := false
	for _, o := range offered {
		if o == option {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q not in %v", ErrUnknownSortOption, option, offered)
	}

	p.logger.Debug("Sorting products", zap.String("option", string(option)))
	return p.sortDropdown.SelectOption(string(option))
}

// ActiveSortOption returns the label of the selected sort option
func (p *ProductsPage) ActiveSortOption() (string, error) {
	return p.activeSort.TextContent()
}

// ProductNames returns the item names in display order
func (p *ProductsPage) ProductNames() ([]string, error) {
	return p.itemNames.AllTextContents()
}

// ProductPrices returns the item prices in display order
func (p *ProductsPage) ProductPrices() ([]models.Money, error) {
	return readPrices(p.itemPrices)
}

// ShoppingCartCounter returns the badge text; it fails on an empty cart
func (p *ProductsPage) ShoppingCartCounter() (string, error) {
	return p.badge.Text()
}

// IsShoppingCartCounterHidden reports whether the badge is absent
func (p *ProductsPage) IsShoppingCartCounterHidden() (bool, error) {
	return p.badge.IsHidden()
}

// CartBadge exposes the header badge
func (p *ProductsPage) CartBadge() *CartBadge {
	return p.badge
}

// ClickShoppingCart opens the cart
func (p *ProductsPage) ClickShoppingCart() error {
	return p.shoppingCartLink.Click()
}
