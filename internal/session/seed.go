package session

import (
	"encoding/json"
	"fmt"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/models"
)

// SeedCart pre-populates the cart with product IDs by writing local storage
// before the next document load. Unknown IDs are rejected.
func SeedCart(page browser.Page, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if _, err := models.ProductByID(id); err != nil {
			return err
		}
	}

	script, err := setItemScript(models.CartContentKey, ids)
	if err != nil {
		return err
	}
	if err := page.AddInitScript(script); err != nil {
		return fmt.Errorf("failed to seed cart: %w", err)
	}
	return nil
}

// setItemScript renders localStorage.setItem(key, JSON(value)) with both
// arguments as JSON string literals.
func setItemScript(key string, value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}
	k, _ := json.Marshal(key)
	v, _ := json.Marshal(string(raw))
	return fmt.Sprintf("localStorage.setItem(%s, %s);", k, v), nil
}
