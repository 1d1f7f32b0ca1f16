package main

import (
	"github.com/spf13/cobra"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

func newFacetsCmd(a *app) *cobra.Command {
	var (
		table string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "facets COLUMN",
		Short: "Most frequent values of a condition column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := a.facet.DistinctValues(cmd.Context(), table, args[0], limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FacetResponse{
				Table:  table,
				Column: args[0],
				Values: values,
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", domain.IncidentTable, "table holding the column")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of values (default from HOTSPOT_FACET_LIMIT)")
	return cmd
}
