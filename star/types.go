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
)

// TimeKey is the natural (and surrogate) key of dim_time: the index of the
// 15 minute bucket of the day a trip started in, 0 through 95.
type TimeKey int

// DateKey is the natural key of dim_date. Day of month is not part of it,
// so every Thursday in January 2023 shares one row.
type DateKey struct {
	DayOfWeek   string
	MonthOfYear string
	Year        int
}

// JunkKey is the natural key of dim_junk. Null parts are kept so that they
// show up in the dimension, but they never match in the fact join.
type JunkKey struct {
	Subscription sql.NullString
	BikeType     sql.NullString
}

// TimeRow is a row of dim_time.
type TimeRow struct {
	TID            int    `db:"TID"`
	HourOfDay      int    `db:"HourOfDay"`
	MinuteOfBucket int    `db:"MinuteOfBucket"`
	TimeLabel      string `db:"TimeLabel"`
}

// DateRow is a row of dim_date.
type DateRow struct {
	DID            int64  `db:"DID"`
	DayOfWeek      string `db:"DayOfWeek"`
	DayOfWeekNum   int    `db:"DayOfWeekNum"`
	MonthOfYear    string `db:"MonthOfYear"`
	MonthOfYearNum int    `db:"MonthOfYearNum"`
	Year           int    `db:"Year"`
}

// Key returns the natural key of the row.
func (d DateRow) Key() DateKey {
	return DateKey{DayOfWeek: d.DayOfWeek, MonthOfYear: d.MonthOfYear, Year: d.Year}
}

// LocationRow is a row of dim_location.
type LocationRow struct {
	LID       sql.NullString  `db:"LID"`
	KioskName sql.NullString  `db:"KioskName"`
	Latitude  sql.NullFloat64 `db:"Latitude"`
	Longitude sql.NullFloat64 `db:"Longitude"`
}

// JunkRow is a row of dim_junk.
type JunkRow struct {
	JID          string         `db:"JID"`
	Subscription sql.NullString `db:"Subscription"`
	BikeType     sql.NullString `db:"BikeType"`
}

// Key returns the natural key of the row.
func (j JunkRow) Key() JunkKey {
	return JunkKey{Subscription: j.Subscription, BikeType: j.BikeType}
}

// FactRow is a row of fact_trips.
type FactRow struct {
	TID          int            `db:"TID"`
	DID          int64          `db:"DID"`
	LID          sql.NullString `db:"LID"`
	JID          string         `db:"JID"`
	TripDuration int64          `db:"TripDuration"`
	TripCount    int64          `db:"TripCount"`
}

// Stats counts what happened to the input rows during a Build.
type Stats struct {
	Trips       int // trips read
	Timeless    int // trips whose checkout time didn't parse
	BadDuration int // trips whose duration didn't parse (counted, zero minutes)
	Kiosks      int // kiosks read
	BadLocation int // kiosks with a missing latitude or longitude
	Joined      int // trips which made it into fact_trips
}

// nullable converts an empty cell to a null value, the way the extract was
// always interpreted.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func lessNullString(a, b sql.NullString) bool {
	if a.Valid != b.Valid {
		return !a.Valid
	}
	return a.String < b.String
}

func lessNullFloat(a, b sql.NullFloat64) bool {
	if a.Valid != b.Valid {
		return !a.Valid
	}
	return a.Float64 < b.Float64
}
