package pages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/browser/browsertest"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

func newSeededCart(t *testing.T) (browser.Page, *pages.CartPage) {
	t.Helper()
	page := newLoggedInPage(t)
	seedBackpackAndBikeLight(t, page)
	cart := pages.NewCartPage(page, nil)
	require.NoError(t, cart.NavigateTo())
	return page, cart
}

func TestCartPage_Readers(t *testing.T) {
	_, cart := newSeededCart(t)

	count, err := cart.CartItemCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	names, err := cart.CartItemNames()
	require.NoError(t, err)
	assert.Equal(t, []string{models.Backpack, models.BikeLight}, names)

	quantities, err := cart.CartItemQuantities()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, quantities)

	prices, err := cart.CartItemPrices()
	require.NoError(t, err)
	assert.Contains(t, prices, models.Money(2999))
	assert.Contains(t, prices, models.Money(999))

	counter, err := cart.ShoppingCartCounter()
	require.NoError(t, err)
	assert.Equal(t, "2", counter)
}

func TestCartPage_Snapshot(t *testing.T) {
	_, cart := newSeededCart(t)

	lines, err := cart.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{
		{Name: models.Backpack, Price: 2999, Quantity: 1},
		{Name: models.BikeLight, Price: 999, Quantity: 1},
	}, lines)
}

func TestCartPage_RemoveAllItems(t *testing.T) {
	_, cart := newSeededCart(t)

	require.NoError(t, cart.RemoveAllItems())

	empty, err := cart.IsCartEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	count, err := cart.CartItemCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	hidden, err := cart.IsShoppingCartCounterHidden()
	require.NoError(t, err)
	assert.True(t, hidden)
}

func TestCartPage_RemoveAllItems_EmptyCart(t *testing.T) {
	page := newLoggedInPage(t)
	cart := pages.NewCartPage(page, nil)
	require.NoError(t, cart.NavigateTo())

	require.NoError(t, cart.RemoveAllItems())
	empty, err := cart.IsCartEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestCartPage_RemoveItemByName(t *testing.T) {
	_, cart := newSeededCart(t)

	require.NoError(t, cart.RemoveItemByName("Sauce Labs Backpack"))

	count, err := cart.CartItemCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	names, err := cart.CartItemNames()
	require.NoError(t, err)
	assert.NotContains(t, names, models.Backpack)
	assert.Contains(t, names, models.BikeLight)

	counter, err := cart.ShoppingCartCounter()
	require.NoError(t, err)
	assert.Equal(t, "1", counter)
}

func TestCartPage_RemoveUnknownName(t *testing.T) {
	_, cart := newSeededCart(t)

	err := cart.RemoveItemByName("Sauce Labs Toaster")
	assert.ErrorIs(t, err, browser.ErrResolution)

	count, err := cart.CartItemCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCartPage_Navigation(t *testing.T) {
	t.Run("proceed to checkout", func(t *testing.T) {
		page, cart := newSeededCart(t)
		require.NoError(t, cart.ProceedToCheckout())
		assert.Contains(t, page.URL(), pages.PathCheckoutStepOne)
	})

	t.Run("continue shopping", func(t *testing.T) {
		page, cart := newSeededCart(t)
		require.NoError(t, cart.ContinueShopping())
		assert.Equal(t, browsertest.DefaultBaseURL+pages.PathInventory, page.URL())
	})
}

// stuckPage renders remove buttons that never go away.
type stuckPage struct{ browser.Page }

func (stuckPage) Locator(string) browser.Locator { return stuckLocator{} }

type stuckLocator struct{ browser.Locator }

func (stuckLocator) Count() (int, error)    { return 2, nil }
func (stuckLocator) First() browser.Locator { return stuckLocator{} }
func (stuckLocator) Click() error           { return nil }

func TestCartPage_RemoveAllItems_DetectsNoProgress(t *testing.T) {
	cart := pages.NewCartPage(stuckPage{}, nil)

	err := cart.RemoveAllItems()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not shrink")
}
