// Package orbit derives satellite positions from TLE sets, so scenario
// files can describe a satellite by its published elements instead of
// a fixed longitude.
package orbit

import (
	"errors"
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/shiyongxin/SatLink/model"
)

// ErrPropagation reports an SGP4 run that produced no usable position,
// typically from malformed elements or a time far outside their
// validity window.
var ErrPropagation = errors.New("TLE propagation failed")

// FromTLE propagates the two-line element set to the given time and
// reduces the result to the sub-satellite point on the spherical Earth
// model the geometry formulas use.
func FromTLE(line1, line2 string, at time.Time) (model.SatellitePosition, error) {
	if line1 == "" || line2 == "" {
		return model.SatellitePosition{}, fmt.Errorf("%w: both TLE lines are required", ErrPropagation)
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)

	at = at.UTC()
	year, month, day := at.Date()
	hour, minute, second := at.Clock()

	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, minute, second)
	if math.IsNaN(posECI.X) || math.IsNaN(posECI.Y) || math.IsNaN(posECI.Z) {
		return model.SatellitePosition{}, fmt.Errorf("%w: SGP4 returned NaN at %s", ErrPropagation, at.Format(time.RFC3339))
	}

	jd := satellite.JDay(year, int(month), day, hour, minute, second)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	r := math.Sqrt(posECEF.X*posECEF.X + posECEF.Y*posECEF.Y + posECEF.Z*posECEF.Z)
	if r <= model.EarthRadiusKm {
		return model.SatellitePosition{}, fmt.Errorf("%w: position radius %.1f km is inside the Earth", ErrPropagation, r)
	}

	longitude := math.Atan2(posECEF.Y, posECEF.X) * 180 / math.Pi
	latitude := math.Asin(posECEF.Z/r) * 180 / math.Pi

	return model.NewSatellitePosition(longitude, latitude, r-model.EarthRadiusKm), nil
}
