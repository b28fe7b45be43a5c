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
	"database/sql"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type factKey struct {
	TID int
	DID int64
	LID sql.NullString
	JID string
}

type factAcc struct {
	duration int64
	count    int64
}

// partial is the result of aggregating one chunk of checkouts. Partials
// merge by summing accumulators, so the order chunks finish in doesn't
// matter.
type partial map[factKey]*factAcc

func (p partial) add(k factKey, duration, count int64) {
	acc, ok := p[k]
	if !ok {
		acc = &factAcc{}
		p[k] = acc
	}
	acc.duration += duration
	acc.count += count
}

func (p partial) merge(o partial) {
	for k, acc := range o {
		p.add(k, acc.duration, acc.count)
	}
}

// Aggregate joins checkouts against the date and junk dimensions and rolls
// them up by (TID, DID, LID, JID). Checkouts without a valid timestamp, or
// whose date or junk key has no dimension row, drop out of the join. The
// checkouts are split into concurrency chunks which are aggregated in
// parallel; the result is the same for any concurrency and is ordered by
// key.
func Aggregate(ctx context.Context, checkouts []Checkout, dates []DateRow, junk []JunkRow, concurrency int) ([]FactRow, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	dids := make(map[DateKey]int64, len(dates))
	for _, d := range dates {
		dids[d.Key()] = d.DID
	}
	jids := make(map[JunkKey]string, len(junk))
	for _, j := range junk {
		if j.Key().joinable() {
			jids[j.Key()] = j.JID
		}
	}

	chunk := (len(checkouts) + concurrency - 1) / concurrency
	if chunk == 0 {
		chunk = 1
	}
	partials := make([]partial, 0, concurrency)
	for start := 0; start < len(checkouts); start += chunk {
		partials = append(partials, make(partial))
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i := range partials {
		i := i
		start := i * chunk
		end := start + chunk
		if end > len(checkouts) {
			end = len(checkouts)
		}
		eg.Go(func() error {
			p := partials[i]
			for n, c := range checkouts[start:end] {
				if n%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if !c.Valid {
					continue
				}
				did, ok := dids[c.Date]
				if !ok {
					continue
				}
				jid, ok := jids[c.Junk]
				if !ok {
					continue
				}
				p.add(factKey{TID: int(c.Bucket), DID: did, LID: c.KioskID, JID: jid}, c.Duration, 1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "aggregating facts")
	}

	total := make(partial)
	for _, p := range partials {
		total.merge(p)
	}
	rows := make([]FactRow, 0, len(total))
	for k, acc := range total {
		rows = append(rows, FactRow{
			TID:          k.TID,
			DID:          k.DID,
			LID:          k.LID,
			JID:          k.JID,
			TripDuration: acc.duration,
			TripCount:    acc.count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TID != b.TID {
			return a.TID < b.TID
		}
		if a.DID != b.DID {
			return a.DID < b.DID
		}
		if a.LID != b.LID {
			return lessNullString(a.LID, b.LID)
		}
		return a.JID < b.JID
	})
	return rows, nil
}

// checkEvery is how many checkouts are aggregated between checks of the
// context.
const checkEvery = 4096
