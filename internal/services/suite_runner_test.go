package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/browser/browsertest"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/scenarios"
	"github.com/themizzi/storefront-e2e/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var standardCreds = config.Credentials{Username: browsertest.StandardUser, Password: browsertest.Password}

// countingLauncher tracks how many sessions are open at once.
type countingLauncher struct {
	browser.Launcher

	mu      sync.Mutex
	open    int
	maxOpen int
}

func (l *countingLauncher) NewSession(opts browser.SessionOptions) (browser.Session, error) {
	sess, err := l.Launcher.NewSession(opts)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.open++
	if l.open > l.maxOpen {
		l.maxOpen = l.open
	}
	l.mu.Unlock()
	return &countedSession{Session: sess, l: l}, nil
}

type countedSession struct {
	browser.Session
	l *countingLauncher
}

func (s *countedSession) Close() error {
	s.l.mu.Lock()
	s.l.open--
	s.l.mu.Unlock()
	return s.Session.Close()
}

type failingLauncher struct{}

func (failingLauncher) NewSession(browser.SessionOptions) (browser.Session, error) {
	return nil, errors.New("browser crashed")
}

func newRunner(t *testing.T, launcher browser.Launcher, repo RunRepository, workers int) *SuiteRunner {
	t.Helper()
	front := browsertest.NewStorefront()
	b := &session.Bootstrap{
		Launcher:    front,
		Credentials: standardCreds,
		BaseURL:     browsertest.DefaultBaseURL,
		StatePath:   filepath.Join(t.TempDir(), "login.json"),
	}
	require.NoError(t, b.Run(context.Background()))

	return &SuiteRunner{
		Launcher:    launcher,
		Runs:        NewRunService(repo),
		Credentials: standardCreds,
		StatePath:   b.StatePath,
		Workers:     workers,
		Logger:      zaptest.NewLogger(t),
	}
}

func TestSuiteRunner_AllScenariosPass(t *testing.T) {
	front := browsertest.NewStorefront()
	launcher := &countingLauncher{Launcher: front}
	repo := repository.NewMemoryRunRepository()
	runner := newRunner(t, launcher, repo, 3)

	all := scenarios.All()
	report, err := runner.Run(context.Background(), all)
	require.NoError(t, err)

	assert.True(t, report.OK(), "failed: %d, errored: %d", report.Failed, report.Errored)
	assert.Equal(t, len(all), report.Total())
	assert.Equal(t, len(all), report.Passed)
	assert.LessOrEqual(t, launcher.maxOpen, 3)
	assert.Equal(t, 0, launcher.open, "every session must be closed")

	stored, err := repo.ListByRunID(report.RunID)
	require.NoError(t, err)
	assert.Len(t, stored, len(all))
	for _, run := range stored {
		assert.Equal(t, models.RunStatusPassed, run.Status, run.Scenario)
	}
}

func TestSuiteRunner_ReportsOrderMatchesInput(t *testing.T) {
	front := browsertest.NewStorefront()
	runner := newRunner(t, front, repository.NewMemoryRunRepository(), 4)

	list, err := scenarios.Select(nil, []string{scenarios.SuiteCart})
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), list)
	require.NoError(t, err)
	require.Len(t, report.Runs, len(list))
	for i, s := range list {
		assert.Equal(t, s.Name, report.Runs[i].Scenario)
	}
}

func TestSuiteRunner_FailuresAndErrors(t *testing.T) {
	front := browsertest.NewStorefront()
	runner := newRunner(t, front, repository.NewMemoryRunRepository(), 2)

	list := []scenarios.Scenario{
		{
			Name:  "check that fails",
			Suite: scenarios.SuiteProducts,
			Auth:  true,
			Run: func(env *scenarios.Env, t assert.TestingT) error {
				if err := env.Products.NavigateTo(); err != nil {
					return err
				}
				assert.Equal(t, "inventory", "cart")
				return nil
			},
		},
		{
			Name:  "element that never resolves",
			Suite: scenarios.SuiteProducts,
			Auth:  true,
			Run: func(env *scenarios.Env, t assert.TestingT) error {
				if err := env.Products.NavigateTo(); err != nil {
					return err
				}
				_, err := env.Products.ShoppingCartCounter()
				return err
			},
		},
		{
			Name:  "plain pass",
			Suite: scenarios.SuiteProducts,
			Run:   func(*scenarios.Env, assert.TestingT) error { return nil },
		},
	}

	report, err := runner.Run(context.Background(), list)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Errored)

	assert.Equal(t, models.RunStatusFailed, report.Runs[0].Status)
	assert.NotEmpty(t, report.Runs[0].Failures)
	assert.Equal(t, models.RunStatusErrored, report.Runs[1].Status)
	assert.Contains(t, report.Runs[1].Error, browser.ErrResolution.Error())
}

func TestSuiteRunner_CancelledContext(t *testing.T) {
	front := browsertest.NewStorefront()
	launcher := &countingLauncher{Launcher: front}
	runner := newRunner(t, launcher, repository.NewMemoryRunRepository(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list, err := scenarios.Select(nil, []string{scenarios.SuiteLogin})
	require.NoError(t, err)

	report, err := runner.Run(ctx, list)
	require.NoError(t, err)

	assert.Equal(t, len(list), report.Errored)
	assert.Equal(t, 0, launcher.maxOpen, "no session may open after cancellation")
	for _, run := range report.Runs {
		assert.Equal(t, context.Canceled.Error(), run.Error)
		assert.True(t, run.StartedAt.IsZero())
	}
}

func TestSuiteRunner_SessionFailureIsErrored(t *testing.T) {
	runner := newRunner(t, failingLauncher{}, repository.NewMemoryRunRepository(), 1)

	list, err := scenarios.Select([]string{"complete purchase flow"}, nil)
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), list)
	require.NoError(t, err)

	require.Len(t, report.Runs, 1)
	assert.Equal(t, models.RunStatusErrored, report.Runs[0].Status)
	assert.Contains(t, report.Runs[0].Error, "browser crashed")
}

func TestSuiteRunner_LedgerFailure(t *testing.T) {
	front := browsertest.NewStorefront()
	repo := &MockRunRepository{
		CreateRunFunc: func(*models.ScenarioRun) error { return errors.New("database error") },
	}
	runner := newRunner(t, front, repo, 2)

	list, err := scenarios.Select(nil, []string{scenarios.SuiteLogin})
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	assert.Empty(t, report.Runs)

	opened, _ := front.Sessions()
	assert.Equal(t, 0, opened, "nothing runs when the ledger rejects it")
}

func TestNewSuiteRunner(t *testing.T) {
	cfg := &config.SuiteConfig{StorageState: "state.json", Workers: 6}
	runner := NewSuiteRunner(browsertest.NewStorefront(), NewRunService(&MockRunRepository{}), standardCreds, cfg, nil)

	assert.Equal(t, "state.json", runner.StatePath)
	assert.Equal(t, 6, runner.Workers)
	assert.NotNil(t, runner.logger())
}
