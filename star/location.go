// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

package star

import (
	"database/sql"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/pilosa/tripstar"
)

// CoordinatePlaces is the number of decimal places latitude and longitude
// are rounded to.
const CoordinatePlaces = 4

var locationStrip = strings.NewReplacer("(", "", ")", "", "\n", "")

// ParseLocation parses a "(lat, lon)" kiosk location. A part that is
// missing, not a number, or not finite comes back null.
func ParseLocation(s string) (lat, lon sql.NullFloat64) {
	if s == "" {
		return lat, lon
	}
	parts := strings.Split(locationStrip.Replace(s), ",")
	lat = parseCoordinate(parts[0])
	if len(parts) > 1 {
		lon = parseCoordinate(parts[1])
	}
	return lat, lon
}

func parseCoordinate(s string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: Round(f, CoordinatePlaces), Valid: true}
}

// Round rounds x to the given number of decimal places, half away from zero.
// Rounding is done on the shortest decimal representation of x, so 1.00005
// rounds up to 1.0001 even though the nearest float64 is slightly below it.
func Round(x float64, places int) float64 {
	if places < 1 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	s := strconv.FormatFloat(math.Abs(x), 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= places {
		return x
	}
	r, ok := new(big.Rat).SetString(s[:dot+1+places])
	if !ok {
		return x
	}
	if s[dot+1+places] >= '5' {
		r.Add(r, new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)))
	}
	f, _ := r.Float64()
	if x < 0 {
		f = -f
	}
	return f
}

// BuildLocation returns dim_location from the kiosk registry. It does not
// look at trips, so kiosks nobody rode from are still present. Identical rows
// are collapsed and the result is ordered by LID.
func BuildLocation(kiosks []tripstar.Kiosk, stats *Stats) []LocationRow {
	seen := make(map[LocationRow]struct{}, len(kiosks))
	rows := make([]LocationRow, 0, len(kiosks))
	for _, k := range kiosks {
		row := LocationRow{
			LID:       nullable(k.KioskID),
			KioskName: nullable(k.KioskName),
		}
		row.Latitude, row.Longitude = ParseLocation(k.Location)
		if !row.Latitude.Valid || !row.Longitude.Valid {
			stats.BadLocation++
		}
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	stats.Kiosks += len(kiosks)
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.LID != b.LID {
			return lessNullString(a.LID, b.LID)
		}
		if a.KioskName != b.KioskName {
			return lessNullString(a.KioskName, b.KioskName)
		}
		if a.Latitude != b.Latitude {
			return lessNullFloat(a.Latitude, b.Latitude)
		}
		return lessNullFloat(a.Longitude, b.Longitude)
	})
	return rows
}
