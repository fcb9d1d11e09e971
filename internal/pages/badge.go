package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

// CartBadge is the item counter in the header. The storefront removes the
// badge entirely for an empty cart; it never renders "0".
type CartBadge struct {
	badge browser.Locator
}

// NewCartBadge binds the header badge of page.
func NewCartBadge(page browser.Page) *CartBadge {
	return &CartBadge{badge: page.Locator(browser.TestID("shopping-cart-badge"))}
}

// Text returns the badge text. It fails when the badge is absent.
func (b *CartBadge) Text() (string, error) {
	return b.badge.TextContent()
}

// IsHidden reports whether the badge is absent or invisible.
func (b *CartBadge) IsHidden() (bool, error) {
	return b.badge.IsHidden()
}

// Count returns the number of items in the cart, checking presence before
// parsing so an absent badge reads as zero.
func (b *CartBadge) Count() (int, error) {
	hidden, err := b.IsHidden()
	if err != nil {
		return 0, err
	}
	if hidden {
		return 0, nil
	}
	text, err := b.Text()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("cart badge text %q is not a count: %w", text, err)
	}
	return n, nil
}
