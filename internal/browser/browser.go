// Package browser is the boundary between page objects and the automation
// runtime. Page objects only see Page and Locator; the playwright-go runtime
// and the in-memory fake in browsertest both satisfy them.
package browser

import (
	"errors"
	"fmt"
)

// ErrResolution is wrapped by every failure to find or act on an element
// within the action timeout.
var ErrResolution = errors.New("element not resolved")

// Page is one tab of an isolated browser session.
type Page interface {
	// Goto loads a path relative to the session base URL.
	Goto(path string) error
	URL() string
	Locator(selector string) Locator
	WaitForURL(pattern string) error
	// AddInitScript registers JavaScript evaluated before every document load
	// triggered by Goto.
	AddInitScript(script string) error
}

// Locator is a deferred element query, re-resolved on every call.
type Locator interface {
	Click() error
	Fill(value string) error
	SelectOption(value string) error
	TextContent() (string, error)
	AllTextContents() ([]string, error)
	GetAttribute(name string) (string, error)
	Count() (int, error)
	IsVisible() (bool, error)
	IsHidden() (bool, error)
	WaitForVisible() error
	First() Locator
	Nth(index int) Locator
	Locator(selector string) Locator
}

// Session is an isolated browser context with its own cookies and storage.
type Session interface {
	Page() Page
	SaveStorageState(path string) error
	Close() error
}

// SessionOptions configures a new session.
type SessionOptions struct {
	// StorageStatePath rehydrates cookies and local storage from a file
	// written by SaveStorageState. Empty starts unauthenticated.
	StorageStatePath string
}

// Launcher opens sessions. Implementations must be safe for concurrent use.
type Launcher interface {
	NewSession(opts SessionOptions) (Session, error)
}

// TestID selects elements by their data-test attribute.
func TestID(id string) string {
	return fmt.Sprintf(`[data-test=%q]`, id)
}

// TestIDPrefix selects elements whose data-test attribute starts with prefix.
func TestIDPrefix(prefix string) string {
	return fmt.Sprintf(`[data-test^=%q]`, prefix)
}

// ResolutionError builds the error returned when action on selector fails.
func ResolutionError(action, selector string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s %s", ErrResolution, action, selector)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrResolution, action, selector, cause)
}
