//go:build e2e

package e2e

import (
	"testing"

	"github.com/themizzi/storefront-e2e/internal/scenarios"
)

// TestCart covers the cart page with a seeded backpack and bike light
// Feature: Cart
//
//	As a shopper
//	I want to review and change my cart
//	So that I only pay for what I want
func TestCart(t *testing.T) {
	runSuite(t, scenarios.SuiteCart)
}
