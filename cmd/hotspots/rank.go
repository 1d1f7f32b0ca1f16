package main

import (
	"github.com/spf13/cobra"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

func newRankCmd(a *app) *cobra.Command {
	var (
		filter   filterFlags
		metric   string
		topK     int
		lat, lon float64
		radius   float64
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank grid cells by a metric",
		Long: "Aggregates the filtered incidents into grid cells and prints the top K cells. " +
			"With --radius only cells whose centroid lies within that many miles of the reference point are ranked.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := filter.criteria(cmd)
			if err != nil {
				return err
			}

			params := usecase.RankParams{
				AggregateParams: usecase.AggregateParams{
					Criteria:   criteria,
					Resolution: grid.Resolution(filter.resolution),
					Reference: domain.Point{
						Lat: a.cfg.Hotspot.DefaultCenterLat,
						Lon: a.cfg.Hotspot.DefaultCenterLon,
					},
				},
				Metric: domain.Metric(metric),
				TopK:   topK,
			}

			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return errors.InvalidArgument("--lat and --lon go together", map[string]interface{}{
					"field": "reference",
				})
			}
			if latSet {
				params.Reference = domain.Point{Lat: lat, Lon: lon}
			}
			if cmd.Flags().Changed("radius") {
				params.RadiusMiles = &radius
			}

			cells, err := a.hotspot.Rank(cmd.Context(), params)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.RankResponse{
				Resolution: int(params.Resolution),
				Metric:     string(params.Metric),
				TopK:       params.TopK,
				Reference:  params.Reference,
				Radius:     params.RadiusMiles,
				Cells:      cells,
			})
		},
	}

	filter.bind(cmd)
	flags := cmd.Flags()
	flags.StringVar(&metric, "metric", string(domain.MetricRiskScore), "risk_score, casualties or collisions")
	flags.IntVar(&topK, "top-k", dto.DefaultTopK, "number of cells to print")
	flags.Float64Var(&lat, "lat", 0, "reference latitude (default from HOTSPOT_DEFAULT_CENTER_LAT)")
	flags.Float64Var(&lon, "lon", 0, "reference longitude (default from HOTSPOT_DEFAULT_CENTER_LON)")
	flags.Float64Var(&radius, "radius", 0, "radius in miles around the reference point")
	return cmd
}
