//go:build e2e

package e2e

import (
	"testing"

	"github.com/themizzi/storefront-e2e/internal/scenarios"
)

// TestProducts covers the inventory page
// Feature: Products
//
//	As a shopper
//	I want to browse and sort the inventory
//	So that I can pick what to buy
func TestProducts(t *testing.T) {
	runSuite(t, scenarios.SuiteProducts)
}
