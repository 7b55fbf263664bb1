package hostio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tzneal/coordconv"
)

func TestStampRoundTripsUTM(t *testing.T) {
	pos := &StationPosition{LatDeg: 51.5007, LonDeg: -0.1246} // Westminster

	d, err := Stamp(3, pos)
	require.NoError(t, err)
	require.Equal(t, 3, d.BufferIndex)
	require.Equal(t, 30, d.UTMZone)
	require.Equal(t, coordconv.HemisphereNorth, d.UTMHemisphere)

	back, err := coordconv.DefaultUTMConverter.ConvertToGeodetic(coordconv.UTMCoord{
		Zone:       d.UTMZone,
		Hemisphere: d.UTMHemisphere,
		Easting:    d.UTMEasting,
		Northing:   d.UTMNorthing,
	})
	require.NoError(t, err)

	const radToDeg = 180 / math.Pi
	require.InDelta(t, pos.LatDeg, float64(back.Lat)*radToDeg, 1e-3)
	require.InDelta(t, pos.LonDeg, float64(back.Lng)*radToDeg, 1e-3)
}

func TestStampWithoutPositionIsUnstamped(t *testing.T) {
	d, err := Stamp(1, nil)
	require.NoError(t, err)
	require.Nil(t, d.Position)
	require.Equal(t, 0.0, d.UTMEasting)
}
