package services

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/scenarios"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SuiteRunner runs scenarios on a bounded pool of workers. Every scenario
// gets its own browser session; workers share nothing else.
type SuiteRunner struct {
	Launcher    browser.Launcher
	Runs        RunService
	Credentials config.Credentials
	StatePath   string
	Workers     int
	Logger      *zap.Logger
}

// SuiteReport summarizes one suite run
type SuiteReport struct {
	RunID    string
	Passed   int
	Failed   int
	Errored  int
	Duration time.Duration
	Runs     []*models.ScenarioRun
}

// Total is the number of scenarios recorded
func (r *SuiteReport) Total() int {
	return len(r.Runs)
}

// OK reports whether every scenario passed
func (r *SuiteReport) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

// NewSuiteRunner creates a runner from the suite configuration
func NewSuiteRunner(launcher browser.Launcher, runs RunService, creds config.Credentials, cfg *config.SuiteConfig, logger *zap.Logger) *SuiteRunner {
	return &SuiteRunner{
		Launcher:    launcher,
		Runs:        runs,
		Credentials: creds,
		StatePath:   cfg.StorageState,
		Workers:     cfg.Workers,
		Logger:      logger,
	}
}

// Run executes list and records every outcome. Once ctx is done no new
// scenario starts; the rest are recorded as errored. The returned error is
// only set when the ledger could not be written.
func (r *SuiteRunner) Run(ctx context.Context, list []scenarios.Scenario) (*SuiteReport, error) {
	logger := r.logger()
	report := &SuiteReport{RunID: models.NewRunID()}
	runs := make([]*models.ScenarioRun, len(list))
	started := time.Now()

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	logger.Info("Starting suite",
		zap.String("run_id", report.RunID),
		zap.Int("scenarios", len(list)),
		zap.Int("workers", workers))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, s := range list {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				run, recErr := r.Runs.Abort(report.RunID, s.Name, s.Suite, err)
				runs[i] = run
				return recErr
			}
			run, err := r.runOne(report.RunID, s)
			runs[i] = run
			return err
		})
	}
	err := g.Wait()

	for _, run := range runs {
		if run == nil {
			continue
		}
		report.Runs = append(report.Runs, run)
		switch run.Status {
		case models.RunStatusPassed:
			report.Passed++
		case models.RunStatusFailed:
			report.Failed++
		default:
			report.Errored++
		}
	}
	report.Duration = time.Since(started)

	logger.Info("Suite finished",
		zap.String("run_id", report.RunID),
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("errored", report.Errored),
		zap.Duration("duration", report.Duration))

	if err != nil {
		return report, fmt.Errorf("failed to record suite run: %w", err)
	}
	return report, nil
}

func (r *SuiteRunner) runOne(runID string, s scenarios.Scenario) (*models.ScenarioRun, error) {
	logger := r.logger().With(zap.String("suite", s.Suite), zap.String("scenario", s.Name))

	run, err := r.Runs.Begin(runID, s.Name, s.Suite)
	if err != nil {
		return nil, err
	}
	logger.Info("Started")

	sess, err := scenarios.Open(r.Launcher, s, r.StatePath)
	if err != nil {
		logger.Error("Could not open session", zap.Error(err))
		return run, r.Runs.Finish(run, nil, err)
	}

	env := scenarios.NewEnv(sess.Page(), r.Credentials, gofakeit.New(0), logger)
	result := s.Execute(env)
	if err := sess.Close(); err != nil {
		logger.Warn("Failed to close session", zap.Error(err))
	}

	switch {
	case result.Err != nil:
		logger.Error("Errored", zap.Error(result.Err), zap.Strings("failures", result.Failures))
	case len(result.Failures) > 0:
		logger.Warn("Failed", zap.Strings("failures", result.Failures))
	default:
		logger.Info("Completed")
	}
	return run, r.Runs.Finish(run, result.Failures, result.Err)
}

func (r *SuiteRunner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
