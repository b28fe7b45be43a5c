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
	"sort"

	"github.com/pilosa/tripstar"
)

// BuildDate returns one dim_date row per distinct (weekday, month, year) seen
// in valid checkouts. DIDs are assigned 1..N in (Year, MonthOfYearNum,
// DayOfWeekNum) order.
func BuildDate(checkouts []Checkout) []DateRow {
	seen := make(map[DateKey]DateRow)
	for i := range checkouts {
		c := &checkouts[i]
		if !c.Valid {
			continue
		}
		if _, ok := seen[c.Date]; ok {
			continue
		}
		seen[c.Date] = DateRow{
			DayOfWeek:      c.Date.DayOfWeek,
			DayOfWeekNum:   c.DayOfWeekNum,
			MonthOfYear:    c.Date.MonthOfYear,
			MonthOfYearNum: c.MonthOfYearNum,
			Year:           c.Date.Year,
		}
	}
	rows := make([]DateRow, 0, len(seen))
	for _, row := range seen {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.MonthOfYearNum != b.MonthOfYearNum {
			return a.MonthOfYearNum < b.MonthOfYearNum
		}
		return a.DayOfWeekNum < b.DayOfWeekNum
	})
	nexter := tripstar.NewNexter()
	for i := range rows {
		rows[i].DID = nexter.Next()
	}
	return rows
}
