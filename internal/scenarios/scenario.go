// Package scenarios holds the user journeys the suite runs. Each scenario
// drives page objects and records assertion failures without stopping; a
// returned error means an element could not be resolved and ends only that
// scenario.
package scenarios

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/pages"
	"github.com/themizzi/storefront-e2e/internal/session"
	"go.uber.org/zap"
)

// Suite names
const (
	SuiteProducts = "products"
	SuiteCart     = "cart"
	SuiteCheckout = "checkout"
	SuiteLogin    = "login"
	SuiteE2E      = "e2e"
)

// ErrUnknownScenario is returned by Select for a name or suite not in the
// registry
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is one user journey
type Scenario struct {
	Name  string
	Suite string
	// Auth starts the scenario from the saved session state.
	Auth bool
	// Seed pre-populates the cart with these product IDs.
	Seed []int
	Run  func(env *Env, t assert.TestingT) error
}

// Execute runs the scenario against env and collects its outcome
func (s Scenario) Execute(env *Env) Result {
	rec := &Recorder{}
	err := s.Run(env, rec)
	return Result{Failures: rec.Failures(), Err: err}
}

// Result is the outcome of one execution
type Result struct {
	Failures []string
	Err      error
}

// Passed reports whether every check held and nothing failed to resolve
func (r Result) Passed() bool {
	return r.Err == nil && len(r.Failures) == 0
}

// Env is what a scenario needs: one page and its page objects
type Env struct {
	Page        browser.Page
	Login       *pages.LoginPage
	Products    *pages.ProductsPage
	Cart        *pages.CartPage
	Checkout    *pages.CheckoutPage
	Credentials config.Credentials
	Customer    models.CheckoutInfo
	Faker       *gofakeit.Faker
	Logger      *zap.Logger
}

// NewEnv binds page objects to page. A nil faker gets a randomly seeded one.
func NewEnv(page browser.Page, creds config.Credentials, faker *gofakeit.Faker, logger *zap.Logger) *Env {
	if logger == nil {
		logger = zap.NewNop()
	}
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &Env{
		Page:        page,
		Login:       pages.NewLoginPage(page, logger),
		Products:    pages.NewProductsPage(page, logger),
		Cart:        pages.NewCartPage(page, logger),
		Checkout:    pages.NewCheckoutPage(page, logger),
		Credentials: creds,
		Customer: models.CheckoutInfo{
			FirstName:  faker.FirstName(),
			LastName:   faker.LastName(),
			PostalCode: faker.Zip(),
		},
		Faker:  faker,
		Logger: logger,
	}
}

// Recorder collects assertion failures. It satisfies assert.TestingT.
type Recorder struct {
	mu       sync.Mutex
	failures []string
}

// Errorf records one failed check
func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

// Failures returns the recorded failures in order
func (r *Recorder) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}

// Failed reports whether any check failed
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) > 0
}

// All returns every registered scenario in suite order
func All() []Scenario {
	var all []Scenario
	all = append(all, productScenarios()...)
	all = append(all, cartScenarios()...)
	all = append(all, checkoutScenarios()...)
	all = append(all, loginScenarios()...)
	all = append(all, purchaseScenarios()...)
	return all
}

// Suites returns the suite names in registry order
func Suites() []string {
	return []string{SuiteProducts, SuiteCart, SuiteCheckout, SuiteLogin, SuiteE2E}
}

// Select filters the registry to scenarios named in names or belonging to a
// suite in suites. With neither it returns everything.
func Select(names, suites []string) ([]Scenario, error) {
	all := All()
	if len(names) == 0 && len(suites) == 0 {
		return all, nil
	}

	wantName := make(map[string]bool, len(names))
	for _, n := range names {
		wantName[n] = true
	}
	wantSuite := make(map[string]bool, len(suites))
	for _, s := range suites {
		wantSuite[s] = true
	}

	var selected []Scenario
	for _, s := range all {
		matched := false
		if wantName[s.Name] {
			delete(wantName, s.Name)
			matched = true
		}
		if wantSuite[s.Suite] {
			matched = true
		}
		if matched {
			selected = append(selected, s)
		}
	}

	for n := range wantName {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, n)
	}
	for s := range wantSuite {
		if !knownSuite(s) {
			return nil, fmt.Errorf("%w: suite %q", ErrUnknownScenario, s)
		}
	}
	return selected, nil
}

func knownSuite(name string) bool {
	for _, s := range Suites() {
		if s == name {
			return true
		}
	}
	return false
}

// startAt wraps run so it begins with a navigation
func startAt(navigate func(env *Env) error, run func(env *Env, t assert.TestingT) error) func(env *Env, t assert.TestingT) error {
	return func(env *Env, t assert.TestingT) error {
		if err := navigate(env); err != nil {
			return err
		}
		return run(env, t)
	}
}

// Open starts an isolated session for s: rehydrated from statePath when s
// needs auth, with its cart seed installed.
func Open(launcher browser.Launcher, s Scenario, statePath string) (browser.Session, error) {
	opts := browser.SessionOptions{}
	if s.Auth {
		opts.StorageStatePath = statePath
	}
	sess, err := launcher.NewSession(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session for %q: %w", s.Name, err)
	}
	if err := session.SeedCart(sess.Page(), s.Seed...); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}
