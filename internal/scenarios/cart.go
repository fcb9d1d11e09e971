package scenarios

import (
	"github.com/stretchr/testify/assert"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

// seededCart is the backpack and the bike light
var seededCart = []int{4, 0}

func openCart(env *Env) error { return env.Cart.NavigateTo() }

func cartScenario(name string, run func(env *Env, t assert.TestingT) error) Scenario {
	return Scenario{
		Name:  name,
		Suite: SuiteCart,
		Auth:  true,
		Seed:  seededCart,
		Run:   startAt(openCart, run),
	}
}

func cartScenarios() []Scenario {
	return []Scenario{
		cartScenario("cart shows item count", func(env *Env, t assert.TestingT) error {
			count, err := env.Cart.CartItemCount()
			if err != nil {
				return err
			}
			assert.Equal(t, 2, count)
			return nil
		}),
		cartScenario("cart shows item names", func(env *Env, t assert.TestingT) error {
			names, err := env.Cart.CartItemNames()
			if err != nil {
				return err
			}
			assert.Equal(t, []string{models.Backpack, models.BikeLight}, names)
			return nil
		}),
		cartScenario("cart shows item quantities", func(env *Env, t assert.TestingT) error {
			quantities, err := env.Cart.CartItemQuantities()
			if err != nil {
				return err
			}
			assert.Equal(t, []int{1, 1}, quantities)
			return nil
		}),
		cartScenario("cart shows badge count", func(env *Env, t assert.TestingT) error {
			count, err := env.Cart.ShoppingCartCounter()
			if err != nil {
				return err
			}
			assert.Equal(t, "2", count)
			return nil
		}),
		cartScenario("cart shows item prices", func(env *Env, t assert.TestingT) error {
			prices, err := env.Cart.CartItemPrices()
			if err != nil {
				return err
			}
			assert.Contains(t, prices, models.Money(2999))
			assert.Contains(t, prices, models.Money(999))
			return nil
		}),
		cartScenario("cart is empty after removing all items", func(env *Env, t assert.TestingT) error {
			if err := env.Cart.RemoveAllItems(); err != nil {
				return err
			}
			empty, err := env.Cart.IsCartEmpty()
			if err != nil {
				return err
			}
			assert.True(t, empty, "cart should be empty")
			return nil
		}),
		cartScenario("remove item from cart by name", func(env *Env, t assert.TestingT) error {
			if err := env.Cart.RemoveItemByName(models.Backpack); err != nil {
				return err
			}
			count, err := env.Cart.CartItemCount()
			if err != nil {
				return err
			}
			assert.Equal(t, 1, count)

			names, err := env.Cart.CartItemNames()
			if err != nil {
				return err
			}
			assert.NotContains(t, names, models.Backpack)
			assert.Contains(t, names, models.BikeLight)
			return nil
		}),
		cartScenario("badge updates when removing items one by one", func(env *Env, t assert.TestingT) error {
			count, err := env.Cart.ShoppingCartCounter()
			if err != nil {
				return err
			}
			assert.Equal(t, "2", count)

			if err := env.Cart.RemoveItemByName(models.Backpack); err != nil {
				return err
			}
			count, err = env.Cart.ShoppingCartCounter()
			if err != nil {
				return err
			}
			assert.Equal(t, "1", count)
			return nil
		}),
		cartScenario("cart proceeds to checkout", func(env *Env, t assert.TestingT) error {
			if err := env.Cart.ProceedToCheckout(); err != nil {
				return err
			}
			assert.Contains(t, env.Page.URL(), pages.PathCheckoutStepOne)
			return nil
		}),
		cartScenario("cart navigates back to products", func(env *Env, t assert.TestingT) error {
			if err := env.Cart.ContinueShopping(); err != nil {
				return err
			}
			assert.NoError(t, env.Page.WaitForURL("**"+pages.PathInventory))
			return nil
		}),
	}
}
