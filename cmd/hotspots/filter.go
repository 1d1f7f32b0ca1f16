package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

// filterFlags are shared by every command that selects records.
type filterFlags struct {
	year       int
	month      int
	start      string
	end        string
	severities []string
	conditions []string
	resolution int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.year, "year", 0, "year of the analysis period")
	flags.IntVar(&f.month, "month", 0, "month 1-12 within --year, 0 for the whole year")
	flags.StringVar(&f.start, "start", "", "range start YYYY-MM-DD, switches to date range mode")
	flags.StringVar(&f.end, "end", "", "range end YYYY-MM-DD, inclusive")
	flags.StringSliceVar(&f.severities, "severity", nil, "severities to keep (Fatal,Serious,Slight); --severity= keeps none")
	flags.StringArrayVar(&f.conditions, "condition", nil, "exact match column=value, repeatable")
	flags.IntVar(&f.resolution, "resolution", int(grid.DefaultResolution), "grid cells per degree")
}

func (f *filterFlags) request(cmd *cobra.Command) (dto.FilterRequest, error) {
	req := dto.FilterRequest{
		TimeMode: string(domain.TimeModePeriod),
		Year:     f.year,
		Month:    f.month,
	}
	if f.start != "" || f.end != "" {
		req.TimeMode = string(domain.TimeModeRange)
		req.Start, req.End = f.start, f.end
	}
	if cmd.Flags().Changed("severity") {
		severities := append([]string{}, f.severities...)
		req.Severities = &severities
	}
	for _, raw := range f.conditions {
		column, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(column) == "" {
			return dto.FilterRequest{}, errors.InvalidFilter("conditions must look like column=value", map[string]interface{}{
				"field": "conditions",
				"value": raw,
			})
		}
		req.Conditions = append(req.Conditions, domain.Condition{Column: strings.TrimSpace(column), Value: value})
	}
	return req, nil
}

func (f *filterFlags) criteria(cmd *cobra.Command) (domain.Criteria, error) {
	req, err := f.request(cmd)
	if err != nil {
		return domain.Criteria{}, err
	}
	return req.ToCriteria()
}
