// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/queries"
	"github.com/tomtom215/playerstats/internal/validation"
)

// Layouts of filter date and time parameters (day/month/year hour:minute).
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

// DateRangeFilter is the shared parsing of dateAfter, timeAfter, dateBefore
// and timeBefore into epoch milliseconds in a fixed location.
type DateRangeFilter struct {
	Location *time.Location
	db       database.Database
}

func newDateRangeFilter(db database.Database, loc *time.Location) DateRangeFilter {
	if loc == nil {
		loc = time.UTC
	}
	return DateRangeFilter{Location: loc, db: db}
}

// ExpectedParameters implements Filter.
func (DateRangeFilter) ExpectedParameters() []string {
	return []string{ParamDateAfter, ParamTimeAfter, ParamDateBefore, ParamTimeBefore}
}

// Range parses the four range parameters.
func (f DateRangeFilter) Range(params Params) (after, before int64, err error) {
	a, err := f.Instant(params, ParamDateAfter, ParamTimeAfter)
	if err != nil {
		return 0, 0, err
	}
	b, err := f.Instant(params, ParamDateBefore, ParamTimeBefore)
	if err != nil {
		return 0, 0, err
	}
	return a.UnixMilli(), b.UnixMilli(), nil
}

// Instant parses one date and time parameter pair.
func (f DateRangeFilter) Instant(params Params, dateParam, timeParam string) (time.Time, error) {
	day, err := f.Day(params, dateParam)
	if err != nil {
		return time.Time{}, err
	}
	raw := strings.TrimSpace(params[timeParam])
	if err := validation.ValidateVar(timeParam, raw, "required"); err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, validation.NewParameterError(timeParam, raw, timeParam+" must be formatted as HH:mm")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, f.Location), nil
}

// Day parses a date parameter to the start of that day.
func (f DateRangeFilter) Day(params Params, dateParam string) (time.Time, error) {
	raw := strings.TrimSpace(params[dateParam])
	if err := validation.ValidateVar(dateParam, raw, "required"); err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(DateLayout, raw, f.Location)
	if err != nil {
		return time.Time{}, validation.NewParameterError(dateParam, raw, dateParam+" must be formatted as dd/MM/yyyy")
	}
	return day, nil
}

// Options reports the first and last session dates.
func (f DateRangeFilter) Options(ctx context.Context) (Options, error) {
	bounds, err := database.RunQuery(ctx, f.db, queries.SessionDateBounds())
	if err != nil {
		return Options{}, err
	}
	if bounds.First == 0 && bounds.Last == 0 {
		return Options{}, nil
	}
	return Options{
		After:  time.UnixMilli(bounds.First).In(f.Location).Format(DateLayout),
		Before: time.UnixMilli(bounds.Last).In(f.Location).Format(DateLayout),
	}, nil
}
