// Package hostio wires the core's host-visible side-channels: GPIO
// control, rig-control frequency tuning, station geotagging, mDNS
// service announcement, and pty bridging.
package hostio

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// StationPosition is a station location in decimal degrees, the unit
// the host supplies when stamping a recording's descriptor.
type StationPosition struct {
	LatDeg, LonDeg float64
}

// UTM converts a station position to UTM via
// coordconv.DefaultUTMConverter.
func (p StationPosition) UTM() (coordconv.UTMCoord, error) {
	latlng := s2.LatLng{
		Lat: s1.Angle(p.LatDeg * (3.141592653589793 / 180)),
		Lng: s1.Angle(p.LonDeg * (3.141592653589793 / 180)),
	}
	return coordconv.DefaultUTMConverter.ConvertFromGeodetic(latlng, 0)
}

// BufferDescriptor stamps one completed ring or stream buffer with an
// optional station position, converted to UTM, for field recordings.
type BufferDescriptor struct {
	BufferIndex   int
	Position      *StationPosition
	UTMEasting    float64
	UTMNorthing   float64
	UTMZone       int
	UTMHemisphere coordconv.Hemisphere
}

// Stamp fills in the UTM fields from the descriptor's position, if
// any. A descriptor with no position is left as an unstamped buffer.
func Stamp(bufferIndex int, pos *StationPosition) (BufferDescriptor, error) {
	d := BufferDescriptor{BufferIndex: bufferIndex, Position: pos}
	if pos == nil {
		return d, nil
	}
	utm, err := pos.UTM()
	if err != nil {
		return d, err
	}
	d.UTMEasting = utm.Easting
	d.UTMNorthing = utm.Northing
	d.UTMZone = utm.Zone
	d.UTMHemisphere = utm.Hemisphere
	return d, nil
}
