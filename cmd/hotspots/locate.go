package main

import (
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/pkg/validator"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

func newLocateCmd() *cobra.Command {
	var resolution int

	cmd := &cobra.Command{
		Use:         "locate LAT LON",
		Short:       "Print the cell containing a point",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := cast.ToFloat64E(args[0])
			if err != nil {
				return errors.InvalidArgument("latitude is not a number", map[string]interface{}{"lat": args[0]})
			}
			lon, err := cast.ToFloat64E(args[1])
			if err != nil {
				return errors.InvalidArgument("longitude is not a number", map[string]interface{}{"lon": args[1]})
			}
			point := dto.Point{Lat: lat, Lon: lon}
			if err := validator.Validate(&point); err != nil {
				return err
			}

			res := grid.Resolution(resolution)
			if err := grid.Validate(res); err != nil {
				return err
			}

			cell := grid.Bin(lat, lon, res)
			return writeJSON(cmd.OutOrStdout(), dto.LocateResponse{
				CellID:     cell.ID(),
				GridX:      cell.X,
				GridY:      cell.Y,
				Resolution: int(res),
				Centroid:   cell.Centroid(res),
			})
		},
	}

	cmd.Flags().IntVar(&resolution, "resolution", int(grid.DefaultResolution), "grid cells per degree")
	return cmd
}
