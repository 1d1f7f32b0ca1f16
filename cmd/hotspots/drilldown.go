package main

import (
	"github.com/spf13/cobra"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

func cellQuery(cmd *cobra.Command, filter *filterFlags, cellID string) (usecase.CellQuery, error) {
	criteria, err := filter.criteria(cmd)
	if err != nil {
		return usecase.CellQuery{}, err
	}
	return usecase.CellQuery{
		CellID:     cellID,
		Criteria:   criteria,
		Resolution: grid.Resolution(filter.resolution),
	}, nil
}

func newSummaryCmd(a *app) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "summary CELL_ID",
		Short: "Severity breakdown of one cell",
		Long:  "Prints collisions and casualties per severity for a cell, under the filters and resolution that ranked it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := cellQuery(cmd, &filter, args[0])
			if err != nil {
				return err
			}
			summary, err := a.drillDown.Summary(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.SummaryResponse{
				CellID:     q.CellID,
				Resolution: int(q.Resolution),
				Severities: summary,
			})
		},
	}

	filter.bind(cmd)
	return cmd
}

func newRecordsCmd(a *app) *cobra.Command {
	var (
		filter     filterFlags
		columns    []string
		orderBy    string
		descending bool
		pageSize   int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "records CELL_ID",
		Short: "Page through the records of one cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := cellQuery(cmd, &filter, args[0])
			if err != nil {
				return err
			}
			page, err := a.drillDown.Detail(cmd.Context(), usecase.DetailParams{
				CellQuery:  q,
				Columns:    columns,
				OrderBy:    domain.DetailOrder(orderBy),
				Descending: descending,
				PageSize:   pageSize,
				Offset:     offset,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}

	filter.bind(cmd)
	flags := cmd.Flags()
	flags.StringSliceVar(&columns, "columns", nil, "columns to print (default: all allowed columns)")
	flags.StringVar(&orderBy, "order-by", string(domain.OrderByDate), "date, severity or casualties")
	flags.BoolVar(&descending, "desc", false, "descending order")
	flags.IntVar(&pageSize, "page-size", 50, "records per page")
	flags.IntVar(&offset, "offset", 0, "records to skip")
	return cmd
}
