// Package pages holds one page object per storefront screen. Page objects
// name what a user does; selectors stay in this package.
package pages

import (
	"errors"
	"fmt"
	"regexp"
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

// ErrUnknownSortOption is returned when the dropdown does not offer an option
var ErrUnknownSortOption = errors.New("sort option not offered")

var whitespaceRun = regexp.MustCompile(`\s+`)

// ItemSlug derives the control identifier of a catalog item from its display
// name: lowercase, with every run of whitespace replaced by one hyphen.
func ItemSlug(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "-"))
}

// AddToCartID is the data-test of an item's add button.
func AddToCartID(name string) string {
	return "add-to-cart-" + ItemSlug(name)
}

// RemoveID is the data-test of an item's remove button.
func RemoveID(name string) string {
	return "remove-" + ItemSlug(name)
}

// readPrices parses every price matched by loc.
func readPrices(loc browser.Locator) ([]models.Money, error) {
	texts, err := loc.AllTextContents()
	if err != nil {
		return nil, err
	}
	prices := make([]models.Money, 0, len(texts))
	for _, text := range texts {
		price, err := models.ParsePrice(text)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// readQuantities parses every quantity matched by loc.
func readQuantities(loc browser.Locator) ([]int, error) {
	texts, err := loc.AllTextContents()
	if err != nil {
		return nil, err
	}
	quantities := make([]int, 0, len(texts))
	for _, text := range texts {
		qty, err := models.ParseQuantity(text)
		if err != nil {
			return nil, err
		}
		quantities = append(quantities, qty)
	}
	return quantities, nil
}

// readLabel reads a label and parses the amount after prefix.
func readLabel(loc browser.Locator, prefix string) (models.Money, error) {
	text, err := loc.TextContent()
	if err != nil {
		return 0, err
	}
	amount, err := models.ParseLabel(text, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q: %w", text, err)
	}
	return amount, nil
}
