// Package session logs in once and persists the authenticated browser state
// so scenarios can start already signed in.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/pages"
	"go.uber.org/zap"
)

// SessionCookie is the cookie the storefront sets after a successful login
const SessionCookie = "session-username"

// ErrBootstrapFailed is returned when the login does not land on the
// inventory. No scenario may run after it.
var ErrBootstrapFailed = errors.New("session bootstrap failed")

// Bootstrap logs in with Credentials and saves the storage state to
// StatePath. MaxAge bounds how old a state file Ensure will reuse; zero never
// reuses.
type Bootstrap struct {
	Launcher    browser.Launcher
	Credentials config.Credentials
	BaseURL     string
	StatePath   string
	MaxAge      time.Duration
	Logger      *zap.Logger

	now func() time.Time
}

// NewBootstrap creates a bootstrap from the suite configuration
func NewBootstrap(launcher browser.Launcher, creds config.Credentials, cfg *config.SuiteConfig, logger *zap.Logger) *Bootstrap {
	return &Bootstrap{
		Launcher:    launcher,
		Credentials: creds,
		BaseURL:     cfg.BaseURL,
		StatePath:   cfg.StorageState,
		MaxAge:      cfg.StorageStateMaxAge,
		Logger:      logger,
	}
}

// Run logs in through a fresh session and writes the state file.
func (b *Bootstrap) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := b.logger()

	sess, err := b.Launcher.NewSession(browser.SessionOptions{})
	if err != nil {
		return fmt.Errorf("failed to open bootstrap session: %w", err)
	}
	defer sess.Close()

	page := sess.Page()
	login := pages.NewLoginPage(page, logger)
	if err := login.NavigateTo(); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}
	if err := login.Login(b.Credentials.Username, b.Credentials.Password); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}

	want := b.BaseURL + pages.PathInventory
	if got := page.URL(); got != want {
		if msg, err := login.ErrorMessage(); err == nil {
			return fmt.Errorf("%w: expected %s, got %s (%s)", ErrBootstrapFailed, want, got, msg)
		}
		return fmt.Errorf("%w: expected %s, got %s", ErrBootstrapFailed, want, got)
	}

	if err := os.MkdirAll(filepath.Dir(b.StatePath), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := sess.SaveStorageState(b.StatePath); err != nil {
		return fmt.Errorf("failed to save storage state: %w", err)
	}

	logger.Info("Session bootstrapped", zap.String("state", b.StatePath), zap.String("user", b.Credentials.Username))
	return nil
}

// Ensure reuses a state file that is younger than MaxAge and still holds an
// unexpired session cookie; otherwise it calls Run. It reports whether the
// file was reused.
func (b *Bootstrap) Ensure(ctx context.Context) (bool, error) {
	if reason := b.staleReason(); reason != "" {
		b.logger().Debug("Refreshing storage state", zap.String("reason", reason))
		return false, b.Run(ctx)
	}
	b.logger().Debug("Reusing storage state", zap.String("state", b.StatePath))
	return true, nil
}

// staleReason is empty when the state file can be reused.
func (b *Bootstrap) staleReason() string {
	if b.MaxAge <= 0 {
		return "reuse disabled"
	}
	info, err := os.Stat(b.StatePath)
	if err != nil {
		return "no state file"
	}
	now := b.clock()
	if now.Sub(info.ModTime()) > b.MaxAge {
		return "state file too old"
	}
	state, err := browser.ReadStorageState(b.StatePath)
	if err != nil {
		return "unreadable state file"
	}
	cookie, ok := state.Cookie(SessionCookie)
	if !ok {
		return "no session cookie"
	}
	if cookie.Expired(now) {
		return "session cookie expired"
	}
	return ""
}

func (b *Bootstrap) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func (b *Bootstrap) clock() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}
