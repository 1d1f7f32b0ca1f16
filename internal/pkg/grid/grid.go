// Package grid bins geographic positions into fixed-size cells at a
// caller-selected resolution (cells per degree).
package grid

import (
	"math"
	"regexp"
	"strconv"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
)

// Resolution is a cell density in cells per degree.
type Resolution int

// Option is one entry of the neighborhood size menu.
type Option struct {
	Label      string     `json:"label"`
	Resolution Resolution `json:"resolution"`
}

// Menu lists the selectable neighborhood sizes, finest first.
var Menu = []Option{
	{Label: "50 m", Resolution: 2225},
	{Label: "100 m", Resolution: 1113},
	{Label: "200 m", Resolution: 556},
	{Label: "~0.5 km (0.005°)", Resolution: 200},
	{Label: "~1.1 km (0.01°)", Resolution: 100},
	{Label: "~2.2 km (0.02°)", Resolution: 50},
	{Label: "~5.5 km (0.05°)", Resolution: 20},
}

// DefaultResolution is the 100 m grid.
const DefaultResolution Resolution = 1113

// Valid reports whether r is on the menu.
func (r Resolution) Valid() bool {
	for _, o := range Menu {
		if o.Resolution == r {
			return true
		}
	}
	return false
}

// Validate returns INVALID_ARGUMENT for resolutions outside the menu.
func Validate(r Resolution) error {
	if r.Valid() {
		return nil
	}
	allowed := make([]int, 0, len(Menu))
	for _, o := range Menu {
		allowed = append(allowed, int(o.Resolution))
	}
	return errors.InvalidArgument("unsupported grid resolution", map[string]interface{}{
		"resolution": int(r),
		"allowed":    allowed,
	})
}

// Cell is a grid cell identified by floor-divided coordinates.
type Cell struct {
	X int64 `json:"grid_x"`
	Y int64 `json:"grid_y"`
}

// Bin maps a position to its cell: (floor(lat*res), floor(lon*res)).
func Bin(lat, lon float64, r Resolution) Cell {
	return Cell{
		X: int64(math.Floor(lat * float64(r))),
		Y: int64(math.Floor(lon * float64(r))),
	}
}

// ID is the canonical "{grid_x}_{grid_y}" identifier.
func (c Cell) ID() string {
	return strconv.FormatInt(c.X, 10) + "_" + strconv.FormatInt(c.Y, 10)
}

// Centroid is the cell midpoint ((x+0.5)/res, (y+0.5)/res).
func (c Cell) Centroid(r Resolution) domain.Point {
	return domain.Point{
		Lat: (float64(c.X) + 0.5) / float64(r),
		Lon: (float64(c.Y) + 0.5) / float64(r),
	}
}

var cellIDPattern = regexp.MustCompile(`^(-?[0-9]+)_(-?[0-9]+)$`)

// ParseCellID is the inverse of Cell.ID.
func ParseCellID(id string) (Cell, error) {
	m := cellIDPattern.FindStringSubmatch(id)
	if m == nil {
		return Cell{}, errors.InvalidCellID(id)
	}
	x, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Cell{}, errors.InvalidCellID(id)
	}
	y, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Cell{}, errors.InvalidCellID(id)
	}
	return Cell{X: x, Y: y}, nil
}
