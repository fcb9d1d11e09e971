// Package browsertest provides an in-memory storefront that implements the
// browser interfaces. It renders the same data-test attributes, messages and
// navigation as the demo store, so page objects and scenarios can be tested
// without launching a browser.
package browsertest

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

// Demo store defaults
const (
	DefaultBaseURL = "https://www.saucedemo.com"
	StandardUser   = "standard_user"
	LockedOutUser  = "locked_out_user"
	Password       = "secret_sauce"
	SessionCookie  = "session-username"
	sessionTTL     = 10 * time.Minute
)

// Storefront is a fake demo store. It is safe for concurrent use; every
// session owns its own page state.
type Storefront struct {
	BaseURL string

	mu        sync.Mutex
	users     map[string]string
	lockedOut map[string]bool
	opened    int
	closed    int
	now       func() time.Time
}

var _ browser.Launcher = (*Storefront)(nil)

// NewStorefront returns a store with the standard and locked out users.
func NewStorefront() *Storefront {
	return &Storefront{
		BaseURL:   DefaultBaseURL,
		users:     map[string]string{StandardUser: Password, LockedOutUser: Password},
		lockedOut: map[string]bool{LockedOutUser: true},
		now:       time.Now,
	}
}

// SetClock replaces the clock used for cookie expiry.
func (s *Storefront) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// NewSession opens an isolated session, optionally rehydrated from a
// storage state file.
func (s *Storefront) NewSession(opts browser.SessionOptions) (browser.Session, error) {
	page := &Page{
		front:   s,
		storage: make(map[string]string),
		form:    make(map[string]string),
		url:     "about:blank",
	}

	if opts.StorageStatePath != "" {
		state, err := browser.ReadStorageState(opts.StorageStatePath)
		if err != nil {
			return nil, err
		}
		if c, ok := state.Cookie(SessionCookie); ok && !c.Expired(s.clock()) {
			page.user = c.Value
		}
		for k, v := range state.LocalStorage(s.origin()) {
			page.storage[k] = v
		}
	}

	s.mu.Lock()
	s.opened++
	s.mu.Unlock()

	return &session{front: s, page: page}, nil
}

// Sessions returns how many sessions were opened and closed.
func (s *Storefront) Sessions() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

func (s *Storefront) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func (s *Storefront) origin() string {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return s.BaseURL
	}
	return u.Scheme + "://" + u.Host
}

func (s *Storefront) authenticate(username, password string) string {
	switch {
	case username == "":
		return "Epic sadface: Username is required"
	case password == "":
		return "Epic sadface: Password is required"
	}
	want, ok := s.users[username]
	if !ok || want != password {
		return "Epic sadface: Username and password do not match any user in this service"
	}
	if s.lockedOut[username] {
		return "Epic sadface: Sorry, this user has been locked out."
	}
	return ""
}

type session struct {
	front  *Storefront
	page   *Page
	closed bool
}

func (s *session) Page() browser.Page { return s.page }

func (s *session) SaveStorageState(path string) error {
	if s.closed {
		return errors.New("session closed")
	}
	state := &browser.StorageState{Cookies: []browser.Cookie{}, Origins: []browser.Origin{}}

	u, _ := url.Parse(s.front.BaseURL)
	if s.page.user != "" {
		state.Cookies = append(state.Cookies, browser.Cookie{
			Name:     SessionCookie,
			Value:    s.page.user,
			Domain:   u.Hostname(),
			Path:     "/",
			Expires:  float64(s.front.clock().Add(sessionTTL).Unix()),
			SameSite: "Lax",
		})
	}
	if len(s.page.storage) > 0 {
		origin := browser.Origin{Origin: s.front.origin()}
		for _, k := range sortedKeys(s.page.storage) {
			origin.LocalStorage = append(origin.LocalStorage, browser.NameValue{Name: k, Value: s.page.storage[k]})
		}
		state.Origins = append(state.Origins, origin)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage state directory: %w", err)
	}
	return browser.WriteStorageState(path, state)
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.front.mu.Lock()
	s.front.closed++
	s.front.mu.Unlock()
	return nil
}
