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
)

// BuildTime returns one dim_time row for every bucket some valid checkout
// fell in, ordered by TID. The minute of bucket comes from the bucket itself
// rather than the minute of any particular trip, so an 08:07 and an 08:14
// checkout both land on the 08:00 row.
func BuildTime(checkouts []Checkout) []TimeRow {
	seen := make(map[TimeKey]struct{})
	for i := range checkouts {
		if checkouts[i].Valid {
			seen[checkouts[i].Bucket] = struct{}{}
		}
	}
	rows := make([]TimeRow, 0, len(seen))
	for k := range seen {
		rows = append(rows, TimeRow{
			TID:            int(k),
			HourOfDay:      k.Hour(),
			MinuteOfBucket: k.MinuteOfBucket(),
			TimeLabel:      k.Label(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TID < rows[j].TID })
	return rows
}
