// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/validation"
)

// MultiOptionFilter is the shared parsing of a comma separated "selected"
// parameter against a closed set of option labels.
type MultiOptionFilter struct{}

// ExpectedParameters implements Filter.
func (MultiOptionFilter) ExpectedParameters() []string {
	return []string{ParamSelected}
}

// SplitSelected splits a comma separated list, trimming labels and dropping
// empty ones. Order is kept and duplicates are removed.
func SplitSelected(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return lo.Uniq(labels)
}

// Selected parses params against known. all is true when every known option
// was selected, in which case the filter does not constrain anything.
func (MultiOptionFilter) Selected(params Params, known []string) (selected []string, all bool, err error) {
	raw := params[ParamSelected]
	selected = SplitSelected(raw)
	if len(selected) == 0 {
		return nil, false, validation.NewParameterError(ParamSelected, raw, "selected must name at least one option")
	}
	for _, label := range selected {
		if !lo.Contains(known, label) {
			return nil, false, validation.NewParameterError(ParamSelected, label,
				fmt.Sprintf("selected option %q is not one of: %s", label, strings.Join(known, ", ")))
		}
	}
	all = len(known) > 0 && lo.Every(selected, known)
	return selected, all, nil
}
