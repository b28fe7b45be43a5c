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

package warehouse

import (
	"strings"
)

// Column types, chosen to be understood by every supported driver.
const (
	typeInt    = "BIGINT"
	typeString = "VARCHAR(255)"
	typeFloat  = "DOUBLE PRECISION"
)

// Column is a column of a warehouse table. Name must match the db tag of the
// row type written to the table.
type Column struct {
	Name string
	Type string
}

// Table describes a warehouse table.
type Table struct {
	Name    string
	Columns []Column
}

// The five tables of the star schema, in the order they are written.
var (
	DimTime = Table{Name: "dim_time", Columns: []Column{
		{"TID", typeInt},
		{"HourOfDay", typeInt},
		{"MinuteOfBucket", typeInt},
		{"TimeLabel", typeString},
	}}
	DimDate = Table{Name: "dim_date", Columns: []Column{
		{"DID", typeInt},
		{"DayOfWeek", typeString},
		{"DayOfWeekNum", typeInt},
		{"MonthOfYear", typeString},
		{"MonthOfYearNum", typeInt},
		{"Year", typeInt},
	}}
	DimLocation = Table{Name: "dim_location", Columns: []Column{
		{"LID", typeString},
		{"KioskName", typeString},
		{"Latitude", typeFloat},
		{"Longitude", typeFloat},
	}}
	DimJunk = Table{Name: "dim_junk", Columns: []Column{
		{"JID", typeString},
		{"Subscription", typeString},
		{"BikeType", typeString},
	}}
	FactTrips = Table{Name: "fact_trips", Columns: []Column{
		{"TID", typeInt},
		{"DID", typeInt},
		{"LID", typeString},
		{"JID", typeString},
		{"TripDuration", typeInt},
		{"TripCount", typeInt},
	}}
)

func (t Table) names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func (t Table) createSQL(ifNotExists bool) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(t.Name)
	b.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name + " " + c.Type)
	}
	b.WriteString(")")
	return b.String()
}

func (t Table) dropSQL() string {
	return "DROP TABLE IF EXISTS " + t.Name
}

func (t Table) deleteSQL() string {
	return "DELETE FROM " + t.Name
}

// insertSQL returns a named INSERT for the table. sqlx expands the VALUES
// clause once per element when it's executed with a slice. Parameter names
// are lower case to match the mapper installed by Open.
func (t Table) insertSQL() string {
	names := t.names()
	params := make([]string, len(names))
	for i, n := range names {
		params[i] = ":" + strings.ToLower(n)
	}
	return "INSERT INTO " + t.Name + " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"
}

// selectSQL returns a query for every column of the table, aliased to lower
// case since Postgres folds unquoted identifiers and SQLite doesn't.
func (t Table) selectSQL() string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Name + " AS " + strings.ToLower(c.Name)
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + t.Name
}
