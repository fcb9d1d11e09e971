package scenarios

import (
	"github.com/stretchr/testify/assert"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

const successMessage = "Thank you for your order!"

func openCheckout(env *Env) error { return env.Checkout.NavigateTo() }

// openOverview reaches step two with the generated customer. Landing
// elsewhere is a failed check; the overview readers then fail to resolve.
func openOverview(env *Env, t assert.TestingT) error {
	if err := env.Checkout.NavigateTo(); err != nil {
		return err
	}
	if err := env.Checkout.Submit(env.Customer); err != nil {
		return err
	}
	assert.Contains(t, env.Page.URL(), pages.PathCheckoutStepTwo)
	return nil
}

// openComplete places the seeded order. The badge must be gone afterwards.
func openComplete(env *Env, t assert.TestingT) error {
	if err := openOverview(env, t); err != nil {
		return err
	}
	if err := env.Checkout.FinishCheckout(); err != nil {
		return err
	}
	assert.Contains(t, env.Page.URL(), pages.PathCheckoutComplete)
	hidden, err := env.Checkout.IsShoppingCartCounterHidden()
	if err != nil {
		return err
	}
	assert.True(t, hidden, "cart badge should be absent after the order")
	return nil
}

func stepOneScenario(name string, run func(env *Env, t assert.TestingT) error) Scenario {
	return Scenario{
		Name:  "checkout information: " + name,
		Suite: SuiteCheckout,
		Auth:  true,
		Seed:  seededCart,
		Run:   startAt(openCheckout, run),
	}
}

func withSetup(setup, run func(env *Env, t assert.TestingT) error) func(env *Env, t assert.TestingT) error {
	return func(env *Env, t assert.TestingT) error {
		if err := setup(env, t); err != nil {
			return err
		}
		return run(env, t)
	}
}

func overviewScenario(name string, run func(env *Env, t assert.TestingT) error) Scenario {
	return Scenario{
		Name:  "checkout overview: " + name,
		Suite: SuiteCheckout,
		Auth:  true,
		Seed:  seededCart,
		Run:   withSetup(openOverview, run),
	}
}

func completeScenario(name string, run func(env *Env, t assert.TestingT) error) Scenario {
	return Scenario{
		Name:  "checkout complete: " + name,
		Suite: SuiteCheckout,
		Auth:  true,
		Seed:  seededCart,
		Run:   withSetup(openComplete, run),
	}
}

func missingFieldScenario(field, want string, info func(models.CheckoutInfo) models.CheckoutInfo) Scenario {
	return stepOneScenario("error when "+field+" is empty", func(env *Env, t assert.TestingT) error {
		if err := env.Checkout.Submit(info(env.Customer)); err != nil {
			return err
		}
		msg, err := env.Checkout.ErrorMessage()
		if err != nil {
			return err
		}
		assert.Equal(t, want, msg)
		return nil
	})
}

func checkoutScenarios() []Scenario {
	return []Scenario{
		stepOneScenario("valid data continues to overview", func(env *Env, t assert.TestingT) error {
			if err := env.Checkout.Submit(env.Customer); err != nil {
				return err
			}
			assert.Contains(t, env.Page.URL(), pages.PathCheckoutStepTwo)
			return nil
		}),
		missingFieldScenario("first name", "Error: First Name is required", func(c models.CheckoutInfo) models.CheckoutInfo {
			c.FirstName = ""
			return c
		}),
		missingFieldScenario("last name", "Error: Last Name is required", func(c models.CheckoutInfo) models.CheckoutInfo {
			c.LastName = ""
			return c
		}),
		missingFieldScenario("postal code", "Error: Postal Code is required", func(c models.CheckoutInfo) models.CheckoutInfo {
			c.PostalCode = ""
			return c
		}),
		stepOneScenario("cancel returns to cart", func(env *Env, t assert.TestingT) error {
			if err := env.Checkout.CancelCheckout(); err != nil {
				return err
			}
			assert.Contains(t, env.Page.URL(), pages.PathCart)
			return nil
		}),

		overviewScenario("shows item count", func(env *Env, t assert.TestingT) error {
			count, err := env.Checkout.CartItemCount()
			if err != nil {
				return err
			}
			assert.Equal(t, 2, count)
			return nil
		}),
		overviewScenario("shows item names", func(env *Env, t assert.TestingT) error {
			names, err := env.Checkout.CartItemNames()
			if err != nil {
				return err
			}
			assert.Equal(t, []string{models.Backpack, models.BikeLight}, names)
			return nil
		}),
		overviewScenario("shows item prices", func(env *Env, t assert.TestingT) error {
			prices, err := env.Checkout.CartItemPrices()
			if err != nil {
				return err
			}
			assert.Contains(t, prices, models.Money(2999))
			assert.Contains(t, prices, models.Money(999))
			return nil
		}),
		overviewScenario("shows item quantities", func(env *Env, t assert.TestingT) error {
			quantities, err := env.Checkout.CartItemQuantities()
			if err != nil {
				return err
			}
			assert.Equal(t, []int{1, 1}, quantities)
			return nil
		}),
		overviewScenario("shows subtotal", func(env *Env, t assert.TestingT) error {
			subtotal, err := env.Checkout.Subtotal()
			if err != nil {
				return err
			}
			assert.Contains(t, subtotal, models.SubtotalPrefix)
			assert.Contains(t, subtotal, "39.98")
			return nil
		}),
		overviewScenario("shows tax", func(env *Env, t assert.TestingT) error {
			tax, err := env.Checkout.Tax()
			if err != nil {
				return err
			}
			assert.Contains(t, tax, models.TaxPrefix)
			assert.Contains(t, tax, "3.20")
			return nil
		}),
		overviewScenario("shows total", func(env *Env, t assert.TestingT) error {
			total, err := env.Checkout.Total()
			if err != nil {
				return err
			}
			assert.Contains(t, total, models.TotalPrefix)
			assert.Contains(t, total, "43.18")
			return nil
		}),
		overviewScenario("total equals subtotal plus tax", func(env *Env, t assert.TestingT) error {
			calculated, err := env.Checkout.SumSubtotalAndTax()
			if err != nil {
				return err
			}
			total, err := env.Checkout.TotalAmount()
			if err != nil {
				return err
			}
			assert.Equal(t, total, calculated)
			return nil
		}),
		overviewScenario("subtotal equals sum of item prices", func(env *Env, t assert.TestingT) error {
			sum, err := env.Checkout.SumItemPrices()
			if err != nil {
				return err
			}
			subtotal, err := env.Checkout.SubtotalAmount()
			if err != nil {
				return err
			}
			assert.Equal(t, subtotal, sum)
			return nil
		}),
		overviewScenario("finish places the order", func(env *Env, t assert.TestingT) error {
			if err := env.Checkout.FinishCheckout(); err != nil {
				return err
			}
			assert.Contains(t, env.Page.URL(), pages.PathCheckoutComplete)
			return nil
		}),
		overviewScenario("cancel returns to inventory", func(env *Env, t assert.TestingT) error {
			if err := env.Checkout.CancelCheckout(); err != nil {
				return err
			}
			assert.Contains(t, env.Page.URL(), pages.PathInventory)
			return nil
		}),

		completeScenario("shows success message", func(env *Env, t assert.TestingT) error {
			msg, err := env.Checkout.SuccessMessage()
			if err != nil {
				return err
			}
			assert.Equal(t, successMessage, msg)
			return nil
		}),
		completeScenario("back home returns to products", func(env *Env, t assert.TestingT) error {
			if err := env.Checkout.ClickBackHomeButton(); err != nil {
				return err
			}
			assert.Contains(t, env.Page.URL(), pages.PathInventory)
			return nil
		}),

		{
			Name:  "checkout of an empty cart",
			Suite: SuiteCheckout,
			Auth:  true,
			Run: startAt(openCheckout, func(env *Env, t assert.TestingT) error {
				if err := env.Checkout.Submit(env.Customer); err != nil {
					return err
				}
				total, err := env.Checkout.Total()
				if err != nil {
					return err
				}
				assert.Contains(t, total, models.TotalPrefix)
				assert.Contains(t, total, "0.00")

				if err := env.Checkout.FinishCheckout(); err != nil {
					return err
				}
				msg, err := env.Checkout.SuccessMessage()
				if err != nil {
					return err
				}
				assert.Equal(t, successMessage, msg)
				assert.Contains(t, env.Page.URL(), pages.PathCheckoutComplete)
				return nil
			}),
		},
	}
}
