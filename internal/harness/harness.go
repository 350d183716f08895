package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/worklens/internal/compiler"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/service"
	"github.com/roach88/worklens/internal/store"
	"github.com/roach88/worklens/internal/summary"
	"github.com/roach88/worklens/internal/testutil"
)

// Limits applied to scenario requests; they match the configuration defaults.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database seeded from its fixture
// document. Date keywords resolve against the scenario's fixed instant and
// request ids come from a sequence, so traces are reproducible.
//
// A returned error means the scenario itself could not run (unreadable
// fixtures, a request document that fails #Request, a storage failure).
// Engine rejections are recorded as step outcomes instead.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	now, err := scenario.now()
	if err != nil {
		return nil, err
	}
	loc, err := scenario.location()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if scenario.Fixtures != "" {
		if err := seed(ctx, st, scenario.Fixtures); err != nil {
			return nil, err
		}
	}

	svc := service.New(st, service.Options{
		DefaultLimit: DefaultLimit,
		MaxLimit:     MaxLimit,
		Clock:        testutil.NewFixedClock(now).Now,
		Location:     loc,
		IDs:          testutil.NewSequenceGenerator(scenario.Name),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	})

	result := NewResult()
	for _, step := range scenario.Steps {
		req, err := compiler.DecodeRequest(step.Request)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}

		out, err := svc.Execute(ctx, *req)
		trace, err := traceStep(step.Name, out, err)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}

		result.AddStep(trace)
		if step.Expect != nil {
			checkExpect(*step.Expect, trace, result)
		}
	}

	return result, nil
}

func seed(ctx context.Context, st *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	if _, err := st.ImportFixtures(ctx, f); err != nil {
		return fmt.Errorf("failed to import fixtures: %w", err)
	}
	return nil
}

// traceStep records an Execute outcome. Errors that are not engine
// rejections are returned unchanged.
func traceStep(name string, out model.Result, execErr error) (StepTrace, error) {
	trace := StepTrace{Step: name}
	if execErr != nil {
		code := model.CodeOf(execErr)
		if code == "" {
			return trace, execErr
		}
		trace.Outcome = string(code)
		return trace, nil
	}

	trace.Outcome = OutcomeOK
	switch r := out.(type) {
	case *model.EntityResults:
		ids, err := recordIDs(r.Results)
		if err != nil {
			return trace, err
		}
		trace.Shape = "entities"
		trace.Count = r.TotalCount
		trace.IDs = ids
		trace.Summary = summary.Summarize(r.Results)

	case *model.AggregationOutput:
		switch agg := r.Aggregation.(type) {
		case *model.ScalarAggregation:
			trace.Shape = "scalar"
			trace.Count = 1
			trace.Result = agg.Result
		case *model.GroupedAggregation:
			trace.Shape = "grouped"
			trace.Count = len(agg.Groups)
			for _, g := range agg.Groups {
				trace.Groups = append(trace.Groups, GroupTrace{Key: g.GroupValues, Result: g.Result})
			}
		}
	}
	return trace, nil
}

// recordIDs reads the id of each record through its JSON form.
func recordIDs(records []model.Record) ([]string, error) {
	var ids []string
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		var fields struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		ids = append(ids, fields.ID)
	}
	return ids, nil
}
