package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/scenarios"
	"github.com/themizzi/storefront-e2e/internal/services"
)

// ErrSuiteFailed is returned when at least one scenario failed or errored
var ErrSuiteFailed = errors.New("suite failed")

// Bootstrapper produces the stored session state
type Bootstrapper interface {
	Run(ctx context.Context) error
	Ensure(ctx context.Context) (bool, error)
}

// Runner executes scenarios and records their outcomes
type Runner interface {
	Run(ctx context.Context, list []scenarios.Scenario) (*services.SuiteReport, error)
}

// RunSetup logs in once and writes the session state. Unless force is set,
// a fresh state file is reused.
func RunSetup(ctx context.Context, bootstrap Bootstrapper, force bool, out io.Writer) error {
	if force {
		if err := bootstrap.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Session state written")
		return nil
	}

	reused, err := bootstrap.Ensure(ctx)
	if err != nil {
		return err
	}
	if reused {
		fmt.Fprintln(out, "Session state is fresh, reusing it")
	} else {
		fmt.Fprintln(out, "Session state written")
	}
	return nil
}

// RunSuite bootstraps the session when any scenario needs one, runs list and
// prints the report. A bootstrap failure stops the run before any scenario.
func RunSuite(ctx context.Context, bootstrap Bootstrapper, runner Runner, list []scenarios.Scenario, out io.Writer) (*services.SuiteReport, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", scenarios.ErrUnknownScenario)
	}

	if needsAuth(list) {
		if _, err := bootstrap.Ensure(ctx); err != nil {
			return nil, err
		}
	}

	report, err := runner.Run(ctx, list)
	if report != nil {
		WriteReport(out, report)
	}
	if err != nil {
		return report, err
	}
	if !report.OK() {
		return report, fmt.Errorf("%w: %d failed, %d errored", ErrSuiteFailed, report.Failed, report.Errored)
	}
	return report, nil
}

func needsAuth(list []scenarios.Scenario) bool {
	for _, s := range list {
		if s.Auth {
			return true
		}
	}
	return false
}

// WriteReport prints one line per scenario followed by the totals
func WriteReport(out io.Writer, report *services.SuiteReport) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tSUITE\tSCENARIO\tDURATION")
	for _, run := range report.Runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", run.Status, run.Suite, run.Scenario, run.Duration().Round(time.Millisecond))
	}
	w.Flush()

	for _, run := range report.Runs {
		if run.Error != "" {
			fmt.Fprintf(out, "\n%s: %s\n", run.Scenario, run.Error)
		}
		for _, failure := range run.Failures {
			fmt.Fprintf(out, "%s: %s\n", run.Scenario, failure)
		}
	}

	fmt.Fprintf(out, "\nRun %s: %d passed, %d failed, %d errored in %s\n",
		report.RunID, report.Passed, report.Failed, report.Errored, report.Duration.Round(time.Millisecond))
}

// WriteScenarios prints the scenario registry
func WriteScenarios(out io.Writer, list []scenarios.Scenario) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUITE\tSCENARIO\tAUTH\tSEED")
	for _, s := range list {
		seed := "-"
		if len(s.Seed) > 0 {
			seed = fmt.Sprint(s.Seed)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.Suite, s.Name, s.Auth, seed)
	}
	w.Flush()
}

// WriteRuns prints ledger entries, newest first as given
func WriteRuns(out io.Writer, runs []*models.ScenarioRun) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTATUS\tSUITE\tSCENARIO\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(run.RunID), run.Status, run.Suite, run.Scenario, humanize.Time(run.CreatedAt))
	}
	w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
