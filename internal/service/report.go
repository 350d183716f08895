package service

import (
	"context"
	"fmt"

	"github.com/roach88/worklens/internal/convert"
	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From ir.Date
	To   ir.Date
}

// ParseRange resolves from and to, which may be dates, timestamps or date
// keywords ("this_week" resolves to its Monday). Fails with
// INVALID_DATE_RANGE when either bound is not a date or from is after to.
func (s *Service) ParseRange(from, to string) (DateRange, error) {
	f, ok := s.boundDate(from)
	if !ok {
		return DateRange{}, invalidBound(from, to, from)
	}
	t, ok := s.boundDate(to)
	if !ok {
		return DateRange{}, invalidBound(from, to, to)
	}
	if f.Time().After(t.Time()) {
		return DateRange{}, model.NewInvalidDateRangeError(f.String(), t.String())
	}
	return DateRange{From: f, To: t}, nil
}

func (s *Service) boundDate(v string) (ir.Date, bool) {
	switch d := s.resolver.Resolve(ir.String(v)).(type) {
	case ir.Date:
		return d, true
	case ir.Timestamp:
		return ir.DateOf(d.Time()), true
	}
	return ir.Date{}, false
}

func invalidBound(from, to, bad string) error {
	err := model.NewInvalidDateRangeError(from, to)
	err.Message = fmt.Sprintf("%q is not a date", bad)
	return err
}

// Timesheet returns one daily_total record per day with work sessions in
// the range, ordered by date.
func (s *Service) Timesheet(ctx context.Context, r DateRange) ([]model.Record, error) {
	sums, counts, err := s.totals(ctx, r, "date")
	if err != nil {
		return nil, err
	}
	return convert.DailyTotals(sums, counts), nil
}

// ProjectTotals returns one project_total record per project with work
// sessions in the range, ordered by project name. Sessions without a
// project are grouped under an empty name, listed first.
func (s *Service) ProjectTotals(ctx context.Context, r DateRange) ([]model.Record, error) {
	sums, counts, err := s.totals(ctx, r, "project.name")
	if err != nil {
		return nil, err
	}
	return convert.ProjectTotals(sums, counts), nil
}

// totals runs the hour sum and the session count of work sessions in r,
// both grouped by groupBy.
func (s *Service) totals(ctx context.Context, r DateRange, groupBy string) (sums, counts []model.AggregateRow, err error) {
	filters := []model.FilterSpec{
		{Field: "date", Operator: model.OpGte, Value: r.From},
		{Field: "date", Operator: model.OpLte, Value: r.To},
	}

	run := func(spec model.AggregationSpec) ([]model.AggregateRow, error) {
		q, _, err := s.builder.BuildAggregate(model.Request{
			EntityType:  model.EntityWorkSession,
			Filters:     filters,
			Aggregation: &spec,
		})
		if err != nil {
			return nil, err
		}
		return s.storage.FetchAggregate(ctx, q)
	}

	sums, err = run(model.AggregationSpec{Function: model.AggSum, Field: "duration_hours", GroupBy: []string{groupBy}})
	if err != nil {
		return nil, nil, err
	}
	counts, err = run(model.AggregationSpec{Function: model.AggCount, GroupBy: []string{groupBy}})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("report executed",
		"group_by", groupBy,
		"from", r.From.String(),
		"to", r.To.String(),
		"groups", len(sums),
	)
	return sums, counts, nil
}
