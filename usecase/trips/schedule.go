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

package trips

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pilosa/tripstar"
	"github.com/pkg/errors"
)

// Schedule runs the job immediately and then every interval until ctx is
// cancelled. If runs is positive it returns once that many runs have
// finished. Runs never overlap. A failed run is logged and the next one
// still happens.
func (m *Main) Schedule(ctx context.Context, every time.Duration, runs int) error {
	if every <= 0 {
		return errors.Errorf("schedule interval must be positive, got %v", every)
	}
	log := tripstar.Logger(tripstar.NewStdLogger(m.stderr))

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	var finished int64
	done := make(chan struct{})
	job := func() {
		if runs > 0 && atomic.LoadInt64(&finished) >= int64(runs) {
			return
		}
		if err := m.RunContext(ctx); err != nil {
			log.Printf("scheduled run failed: %v", err)
		}
		if n := atomic.AddInt64(&finished, 1); runs > 0 && n == int64(runs) {
			close(done)
		}
	}
	if _, err := s.Every(every).Do(job); err != nil {
		return errors.Wrap(err, "scheduling run")
	}
	log.Printf("running every %v", every)
	s.StartAsync()
	defer s.Stop()

	select {
	case <-ctx.Done():
	case <-done:
	}
	return nil
}
