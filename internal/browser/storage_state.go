package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StorageState mirrors the JSON file playwright writes for a browser context.
type StorageState struct {
	Cookies []Cookie `json:"cookies"`
	Origins []Origin `json:"origins"`
}

// Cookie is one stored cookie. Expires is in unix seconds, -1 for a session
// cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// Origin holds the local storage of one origin.
type Origin struct {
	Origin       string      `json:"origin"`
	LocalStorage []NameValue `json:"localStorage"`
}

// NameValue is a local storage entry.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ReadStorageState loads a storage state file.
func ReadStorageState(path string) (*StorageState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage state: %w", err)
	}
	var state StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode storage state %s: %w", path, err)
	}
	return &state, nil
}

// WriteStorageState writes a storage state file in playwright's format.
func WriteStorageState(path string, state *StorageState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write storage state: %w", err)
	}
	return nil
}

// Cookie returns the named cookie if present.
func (s *StorageState) Cookie(name string) (Cookie, bool) {
	for _, c := range s.Cookies {
		if c.Name == name {
			return c, true
		}
	}
	return Cookie{}, false
}

// Expired reports whether the cookie has an expiry before now. Session
// cookies never expire here.
func (c Cookie) Expired(now time.Time) bool {
	if c.Expires < 0 {
		return false
	}
	return time.Unix(int64(c.Expires), 0).Before(now)
}

// LocalStorage returns the entries stored for origin.
func (s *StorageState) LocalStorage(origin string) map[string]string {
	out := make(map[string]string)
	for _, o := range s.Origins {
		if o.Origin != origin {
			continue
		}
		for _, kv := range o.LocalStorage {
			out[kv.Name] = kv.Value
		}
	}
	return out
}
