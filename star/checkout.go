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
	"strconv"
	"strings"
	"time"

	"github.com/pilosa/tripstar"
)

// CheckoutLayout is the layout of the Checkout Datetime column
// (MM/dd/yyyy hh:mm:ss a). The unpadded form also accepts zero padded
// months, days, and hours.
const CheckoutLayout = "1/2/2006 3:04:05 PM"

// Checkout is a trip with its dimension keys derived. Trips whose timestamp
// didn't parse have Valid set to false and none of the time or date fields
// filled in.
type Checkout struct {
	Valid bool
	At    time.Time

	Bucket TimeKey
	Hour   int
	Minute int

	Date           DateKey
	DayOfWeekNum   int
	MonthOfYearNum int

	KioskID sql.NullString
	Junk    JunkKey

	// Duration is zero when DurationValid is false.
	Duration      int64
	DurationValid bool
}

// ParseCheckout parses a Checkout Datetime value. The second return value is
// false if it couldn't be parsed.
func ParseCheckout(s string) (time.Time, bool) {
	t, err := time.Parse(CheckoutLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDuration parses a Trip Duration Minutes value. Integer text is
// accepted as is and decimal text is truncated toward zero. Anything else,
// including values which don't fit in 32 bits, is reported as invalid.
func ParseDuration(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return n, true
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0, false
	}
	whole, frac := s[:dot], s[dot+1:]
	if !allDigits(frac) {
		return 0, false
	}
	switch whole {
	case "", "-", "+":
		if frac == "" {
			return 0, false
		}
		return 0, true
	}
	n, err := strconv.ParseInt(whole, 10, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Bucket returns the 15 minute bucket containing hour:minute.
func Bucket(hour, minute int) TimeKey {
	return TimeKey((hour*60 + minute) / 15)
}

// Hour returns the hour of day the bucket falls in.
func (k TimeKey) Hour() int { return int(k) / 4 }

// MinuteOfBucket returns the minute the bucket starts at: 0, 15, 30, or 45.
func (k TimeKey) MinuteOfBucket() int { return (int(k) % 4) * 15 }

// Label returns the bucket start as HH:MM.
func (k TimeKey) Label() string {
	return pad2(k.Hour()) + ":" + pad2(k.MinuteOfBucket())
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Enrich derives the dimension keys of every trip. It never fails; problems
// with individual trips are counted in stats.
func Enrich(trips []tripstar.Trip, stats *Stats) []Checkout {
	out := make([]Checkout, len(trips))
	for i, trip := range trips {
		c := &out[i]
		c.KioskID = nullable(trip.CheckoutKioskID)
		c.Junk = JunkKey{
			Subscription: nullable(trip.Membership),
			BikeType:     nullable(trip.BikeType),
		}
		c.Duration, c.DurationValid = ParseDuration(trip.DurationMinutes)
		if !c.DurationValid {
			stats.BadDuration++
		}

		at, ok := ParseCheckout(trip.CheckoutDatetime)
		if !ok {
			stats.Timeless++
			continue
		}
		c.Valid = true
		c.At = at
		c.Hour, c.Minute = at.Hour(), at.Minute()
		c.Bucket = Bucket(c.Hour, c.Minute)
		c.Date = DateKey{
			DayOfWeek:   at.Weekday().String(),
			MonthOfYear: at.Month().String(),
			Year:        at.Year(),
		}
		c.DayOfWeekNum = int(at.Weekday()) + 1
		c.MonthOfYearNum = int(at.Month())
	}
	stats.Trips += len(trips)
	return out
}
