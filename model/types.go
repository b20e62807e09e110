// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Degrees is the decimal degree representation of a longitude or latitude.
type Degrees float64

// Angle represents a 1D angle in radians.
type Angle s1.Angle

// Epsilon is an enumeration of precisions that can be used when comparing Degrees.
type Epsilon float64

// Degrees units.
const (
	Degree           Degrees = 1
	radiansPerPi             = 180
	Radian                   = (radiansPerPi / math.Pi) * Degree
	MinutesPerDegree         = 60
	SecondsPerDegree         = 3600

	E5 Epsilon = 1e-5
	E6 Epsilon = 1e-6
	E7 Epsilon = 1e-7
	E8 Epsilon = 1e-8
	E9 Epsilon = 1e-9

	TenMillionths      = 10_000_000
	Millionths         = 1_000_000
	HundredThousandths = 100_000

	Half = 0.5

	// EarthRadiusMeters is the mean radius used for great-circle lengths.
	EarthRadiusMeters = 6_371_008.8
)

// Angle returns the equivalent s1.Angle.
func (d Degrees) Angle() Angle { return Angle(float64(d) * float64(s1.Degree)) }

func (d Degrees) String() string {
	var sign string
	if d < 0 {
		sign = "-"
	}

	val := math.Abs(float64(d))
	degrees := int(math.Floor(val))
	minutes := int(math.Floor(MinutesPerDegree * (val - float64(degrees))))
	seconds := SecondsPerDegree * (val - float64(degrees) - (float64(minutes) / MinutesPerDegree))

	return fmt.Sprintf("%s%d° %d' %s\"", sign, degrees, minutes, ftoa(seconds))
}

// EqualWithin checks if two degrees are within a specific epsilon.
func (d Degrees) EqualWithin(o Degrees, eps Epsilon) bool {
	return round(float64(d)/float64(eps))-round(float64(o)/float64(eps)) == 0
}

// EqualWithin checks if two angles are within a specific epsilon.
func (d Angle) EqualWithin(o Angle, eps Epsilon) bool {
	return round(float64(d)/float64(eps))-round(float64(o)/float64(eps)) == 0
}

// E5 returns the angle in a hundred thousandths of degrees.
func (d Degrees) E5() int32 { return round(float64(d * HundredThousandths)) }

// E6 returns the angle in millionths of degrees.
func (d Degrees) E6() int32 { return round(float64(d * Millionths)) }

// E7 returns the angle in ten millionths of degrees.
func (d Degrees) E7() int32 { return round(float64(d * TenMillionths)) }

// round returns the value rounded to nearest as an int32.
// This does not match C++ exactly for the case of x.5.
func round(val float64) int32 {
	if val < 0 {
		return int32(val - Half)
	}

	return int32(val + Half)
}

// ParseDegrees converts a string to a Degrees instance.
func ParseDegrees(s string) (Degrees, error) {
	u, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return Degrees(u), nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 32)
}

// Microdegrees is a latitude or longitude held as an integer number of
// millionths of a degree, so stored positions never drift.
type Microdegrees int32

// Degrees returns the decimal degree value.
func (m Microdegrees) Degrees() Degrees {
	return Degrees(m) / Millionths
}

// Format7 renders the value with exactly seven decimal places and a '.'
// separator. Only integer arithmetic is involved.
func (m Microdegrees) Format7() string {
	v := int64(m)

	var sign string
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%06d0", sign, v/Millionths, v%Millionths)
}

// ToMicrodegrees rounds d to the nearest micro-degree.
func ToMicrodegrees(d Degrees) Microdegrees {
	return Microdegrees(d.E6())
}

// ParseMicrodegrees parses decimal degree text, such as "52.5000000",
// rounding to the nearest micro-degree.
func ParseMicrodegrees(s string) (Microdegrees, error) {
	d, err := ParseDegrees(s)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(float64(d)) || math.IsInf(float64(d), 0) || math.Abs(float64(d)) > float64(MaxLon) {
		return 0, fmt.Errorf("degrees out of range: %s", s)
	}

	return ToMicrodegrees(d), nil
}

// Coordinate is a position on the earth's surface.
type Coordinate struct {
	Lat Microdegrees
	Lon Microdegrees
}

// NewCoordinate returns the coordinate nearest to lat and lon.
func NewCoordinate(lat, lon Degrees) Coordinate {
	return Coordinate{Lat: ToMicrodegrees(lat), Lon: ToMicrodegrees(lon)}
}

// Valid reports whether c holds a fix. The (0,0) sentinel marks a position
// still waiting for one.
func (c Coordinate) Valid() bool {
	return c.Lat != 0 || c.Lon != 0
}

// InRange reports whether the latitude and longitude are within bounds.
func (c Coordinate) InRange() bool {
	return c.Lat.Degrees() >= MinLat && c.Lat.Degrees() <= MaxLat &&
		c.Lon.Degrees() >= MinLon && c.Lon.Degrees() <= MaxLon
}

// LatLng returns the equivalent s2.LatLng.
func (c Coordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(float64(c.Lat.Degrees()), float64(c.Lon.Degrees()))
}

// Distance returns the great-circle distance to o in metres.
func (c Coordinate) Distance(o Coordinate) float64 {
	return c.LatLng().Distance(o.LatLng()).Radians() * EarthRadiusMeters
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)", c.Lat.Format7(), c.Lon.Format7())
}
