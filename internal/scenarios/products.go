package scenarios

import (
	"sort"

	"github.com/stretchr/testify/assert"
	"github.com/themizzi/storefront-e2e/internal/models"
)

func openInventory(env *Env) error { return env.Products.NavigateTo() }

func productScenarios() []Scenario {
	return []Scenario{
		{
			Name:  "add products to cart",
			Suite: SuiteProducts,
			Auth:  true,
			Run: startAt(openInventory, func(env *Env, t assert.TestingT) error {
				if err := env.Products.AddBackpackToCart(); err != nil {
					return err
				}
				count, err := env.Products.ShoppingCartCounter()
				if err != nil {
					return err
				}
				assert.Equal(t, "1", count)

				if err := env.Products.AddBikeLightToCart(); err != nil {
					return err
				}
				count, err = env.Products.ShoppingCartCounter()
				if err != nil {
					return err
				}
				assert.Equal(t, "2", count)
				return nil
			}),
		},
		{
			Name:  "sort products by high to low price",
			Suite: SuiteProducts,
			Auth:  true,
			Run: startAt(openInventory, func(env *Env, t assert.TestingT) error {
				if err := env.Products.SortProducts(models.SortPriceDesc); err != nil {
					return err
				}
				prices, err := env.Products.ProductPrices()
				if err != nil {
					return err
				}
				sorted := append([]models.Money(nil), prices...)
				sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
				assert.Equal(t, sorted, prices)
				return nil
			}),
		},
		{
			Name:  "sort products by name z to a",
			Suite: SuiteProducts,
			Auth:  true,
			Run: startAt(openInventory, func(env *Env, t assert.TestingT) error {
				if err := env.Products.SortProducts(models.SortNameDesc); err != nil {
					return err
				}
				names, err := env.Products.ProductNames()
				if err != nil {
					return err
				}
				sorted := append([]string(nil), names...)
				sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
				assert.Equal(t, sorted, names)

				label, err := env.Products.ActiveSortOption()
				if err != nil {
					return err
				}
				assert.Equal(t, models.SortNameDesc.Label(), label)
				return nil
			}),
		},
		{
			Name:  "remove products from cart",
			Suite: SuiteProducts,
			Auth:  true,
			Seed:  []int{4, 0},
			Run: startAt(openInventory, func(env *Env, t assert.TestingT) error {
				count, err := env.Products.ShoppingCartCounter()
				if err != nil {
					return err
				}
				assert.Equal(t, "2", count)

				if err := env.Products.RemoveBackpackFromCart(); err != nil {
					return err
				}
				count, err = env.Products.ShoppingCartCounter()
				if err != nil {
					return err
				}
				assert.Equal(t, "1", count)

				if err := env.Products.RemoveBikeLightFromCart(); err != nil {
					return err
				}
				hidden, err := env.Products.IsShoppingCartCounterHidden()
				if err != nil {
					return err
				}
				assert.True(t, hidden, "cart badge should be absent")
				return nil
			}),
		},
	}
}
