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

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmtrack/model"
)

func TestDegreesAngle(t *testing.T) {
	assert.True(t, model.Angle(0.78539816).EqualWithin(model.Degrees(45.0).Angle(), model.E7))
}

func TestDegreesEx(t *testing.T) {
	d := model.Degrees(53.123456789)

	assert.Equal(t, int32(5312346), d.E5())
	assert.Equal(t, int32(53123457), d.E6())
	assert.Equal(t, int32(531234568), d.E7())
}

func TestDegreesParse(t *testing.T) {
	d, err := model.ParseDegrees("53.123450")
	if err != nil {
		t.Error(err)
	}

	assert.True(t, model.Degrees(53.123450).EqualWithin(d, model.E5))

	_, err = model.ParseDegrees("abc")
	if err == nil {
		t.Error("Parsing should have failed")
	}
}

func TestDegreesEqualWithin(t *testing.T) {
	assert.True(t, model.Degrees(53.123450).EqualWithin(model.Degrees(53.123454), model.E5))
	assert.False(t, model.Degrees(53.123450).EqualWithin(model.Degrees(53.123455), model.E5))
}

func TestDegreesString(t *testing.T) {
	assert.Equal(t, "53° 7' 24.42\"", model.Degrees(53.123450).String())
}

func TestMicrodegreesFormat7(t *testing.T) {
	test_cases := []struct {
		name     string
		value    model.Microdegrees
		expected string
	}{
		{"zero", 0, "0.0000000"},
		{"positive", 52_500_000, "52.5000000"},
		{"negative", -13_400_001, "-13.4000010"},
		{"small negative", -5, "-0.0000050"},
		{"max", 180_000_000, "180.0000000"},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.value.Format7())
		})
	}
}

func TestMicrodegreesFormat7IgnoresLocale(t *testing.T) {
	t.Setenv("LANG", "de_DE.UTF-8")
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LC_NUMERIC", "de_DE.UTF-8")

	assert.Equal(t, "52.5100000", model.Microdegrees(52_510_000).Format7())
}

func TestParseMicrodegrees(t *testing.T) {
	m, err := model.ParseMicrodegrees("52.5100000")
	require.NoError(t, err)
	assert.Equal(t, model.Microdegrees(52_510_000), m)

	m, err = model.ParseMicrodegrees("-13.4000006")
	require.NoError(t, err)
	assert.Equal(t, model.Microdegrees(-13_400_001), m)

	_, err = model.ParseMicrodegrees("52,51")
	assert.Error(t, err)

	_, err = model.ParseMicrodegrees("181")
	assert.Error(t, err)
}

func TestCoordinate(t *testing.T) {
	assert.False(t, model.Coordinate{}.Valid())
	assert.True(t, model.NewCoordinate(0, 13.4).Valid())

	c := model.NewCoordinate(52.5, 13.4)
	assert.Equal(t, "(52.5000000, 13.4000000)", c.String())
	assert.True(t, c.InRange())
	assert.False(t, model.Coordinate{Lat: 91_000_000}.InRange())
}

func TestCoordinateDistance(t *testing.T) {
	a := model.NewCoordinate(52.5, 13.4)
	b := model.NewCoordinate(52.51, 13.41)

	assert.InDelta(t, 1317, a.Distance(b), 5)
	assert.Zero(t, a.Distance(a))
}
