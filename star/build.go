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
	"context"

	"github.com/pilosa/tripstar"
)

// Schema is the full star schema computed from one extract.
type Schema struct {
	Time     []TimeRow
	Date     []DateRow
	Location []LocationRow
	Junk     []JunkRow
	Facts    []FactRow

	// Checkouts are the enriched trips the schema was built from, in input
	// order.
	Checkouts []Checkout
	Stats     Stats
}

// Build computes every dimension and the fact table from the raw trips and
// kiosks. It is a pure function of its inputs: the same trips and kiosks
// always produce the same Schema.
func Build(ctx context.Context, trips []tripstar.Trip, kiosks []tripstar.Kiosk, concurrency int) (*Schema, error) {
	s := &Schema{}
	s.Checkouts = Enrich(trips, &s.Stats)
	s.Time = BuildTime(s.Checkouts)
	s.Date = BuildDate(s.Checkouts)
	s.Location = BuildLocation(kiosks, &s.Stats)
	s.Junk = BuildJunk(s.Checkouts)

	facts, err := Aggregate(ctx, s.Checkouts, s.Date, s.Junk, concurrency)
	if err != nil {
		return nil, err
	}
	s.Facts = facts
	for _, f := range facts {
		s.Stats.Joined += int(f.TripCount)
	}
	return s, nil
}

// Report sends the schema's counters to stats.
func (s *Schema) Report(stats tripstar.Statter) {
	stats.Count("trips.read", int64(s.Stats.Trips), 1)
	stats.Count("trips.timeless", int64(s.Stats.Timeless), 1)
	stats.Count("trips.bad_duration", int64(s.Stats.BadDuration), 1)
	stats.Count("kiosks.read", int64(s.Stats.Kiosks), 1)
	stats.Count("kiosks.bad_location", int64(s.Stats.BadLocation), 1)
	stats.Count("fact.rows", int64(len(s.Facts)), 1)
}
