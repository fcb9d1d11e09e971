package scenarios

import (
	"github.com/stretchr/testify/assert"
	"github.com/themizzi/storefront-e2e/internal/pages"
	"go.uber.org/zap"
)

// Login error banners
const (
	invalidCredentialsMessage = "Epic sadface: Username and password do not match any user in this service"
	lockedOutMessage          = "Epic sadface: Sorry, this user has been locked out."
	lockedOutUser             = "locked_out_user"
)

func openLogin(env *Env) error { return env.Login.NavigateTo() }

func loginScenarios() []Scenario {
	return []Scenario{
		{
			Name:  "invalid password is rejected",
			Suite: SuiteLogin,
			Run: startAt(openLogin, func(env *Env, t assert.TestingT) error {
				password := env.Faker.Password(true, true, true, false, false, 16)
				if err := env.Login.Login(env.Credentials.Username, password); err != nil {
					return err
				}
				assert.False(t, env.Login.IsLoggedIn(), "login should fail")
				msg, err := env.Login.ErrorMessage()
				if err != nil {
					return err
				}
				assert.Equal(t, invalidCredentialsMessage, msg)
				return nil
			}),
		},
		{
			Name:  "locked out user is rejected",
			Suite: SuiteLogin,
			Run: startAt(openLogin, func(env *Env, t assert.TestingT) error {
				if err := env.Login.Login(lockedOutUser, env.Credentials.Password); err != nil {
					return err
				}
				assert.False(t, env.Login.IsLoggedIn(), "login should fail")
				msg, err := env.Login.ErrorMessage()
				if err != nil {
					return err
				}
				assert.Equal(t, lockedOutMessage, msg)
				return nil
			}),
		},
	}
}

func purchaseScenarios() []Scenario {
	return []Scenario{
		{
			Name:  "complete purchase flow",
			Suite: SuiteE2E,
			Run: func(env *Env, t assert.TestingT) error {
				env.Logger.Info("Starting purchase flow", zap.String("customer", env.Customer.FirstName+" "+env.Customer.LastName))

				steps := []func() error{
					env.Login.NavigateTo,
					func() error { return env.Login.Login(env.Credentials.Username, env.Credentials.Password) },
					env.Products.AddBackpackToCart,
					env.Products.AddBikeLightToCart,
					env.Products.ClickShoppingCart,
					env.Cart.ProceedToCheckout,
					func() error { return env.Checkout.Submit(env.Customer) },
					env.Checkout.FinishCheckout,
				}
				for _, step := range steps {
					if err := step(); err != nil {
						return err
					}
				}

				assert.Contains(t, env.Page.URL(), pages.PathCheckoutComplete)
				msg, err := env.Checkout.SuccessMessage()
				if err != nil {
					return err
				}
				assert.Equal(t, successMessage, msg)

				env.Logger.Info("Purchase flow completed")
				return nil
			},
		},
	}
}
