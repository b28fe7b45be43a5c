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
	"strings"
)

// JID returns the junk dimension key for k: the subscription and bike type
// joined with an underscore. Null parts are left out rather than rendered as
// empty strings. Nothing is normalized, so "Classic" and "classic" are
// different junk rows.
func (k JunkKey) JID() string {
	parts := make([]string, 0, 2)
	if k.Subscription.Valid {
		parts = append(parts, k.Subscription.String)
	}
	if k.BikeType.Valid {
		parts = append(parts, k.BikeType.String)
	}
	return strings.Join(parts, "_")
}

// joinable reports whether trips carrying k can match a dim_junk row. Null
// never equals null in the join.
func (k JunkKey) joinable() bool {
	return k.Subscription.Valid && k.BikeType.Valid
}

// BuildJunk returns one dim_junk row for every distinct (subscription, bike
// type) pair among valid checkouts, ordered by JID.
func BuildJunk(checkouts []Checkout) []JunkRow {
	seen := make(map[JunkKey]struct{})
	rows := make([]JunkRow, 0)
	for i := range checkouts {
		c := &checkouts[i]
		if !c.Valid {
			continue
		}
		if _, ok := seen[c.Junk]; ok {
			continue
		}
		seen[c.Junk] = struct{}{}
		rows = append(rows, JunkRow{
			JID:          c.Junk.JID(),
			Subscription: c.Junk.Subscription,
			BikeType:     c.Junk.BikeType,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.JID != b.JID {
			return a.JID < b.JID
		}
		if a.Subscription != b.Subscription {
			return lessNullString(a.Subscription, b.Subscription)
		}
		return lessNullString(a.BikeType, b.BikeType)
	})
	return rows
}
