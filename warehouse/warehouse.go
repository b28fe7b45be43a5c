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
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pilosa/tripstar"
	"github.com/pilosa/tripstar/star"
	"github.com/pkg/errors"
)

// DefaultBatchSize is the number of rows sent per INSERT statement unless
// changed with OptWriterBatchSize.
const DefaultBatchSize = 500

// Writer replaces the contents of warehouse tables. Each table is written in
// its own transaction, so a failure part way through a schema leaves the
// tables written before it in place.
type Writer struct {
	db        *sqlx.DB
	batchSize int
	truncate  bool
	log       tripstar.Logger
	stats     tripstar.Statter
}

// WriterOption is a functional option for NewWriter.
type WriterOption func(*Writer)

// OptWriterBatchSize sets the number of rows per INSERT statement.
func OptWriterBatchSize(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// OptWriterTruncate makes the Writer keep existing tables and delete their
// rows, instead of dropping and recreating them.
func OptWriterTruncate(truncate bool) WriterOption {
	return func(w *Writer) {
		w.truncate = truncate
	}
}

// OptWriterLogger sets the Writer's logger.
func OptWriterLogger(l tripstar.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// OptWriterStatter sets the Writer's statter.
func OptWriterStatter(s tripstar.Statter) WriterOption {
	return func(w *Writer) {
		if s != nil {
			w.stats = s
		}
	}
}

// NewWriter returns a Writer over db.
func NewWriter(db *sqlx.DB, opts ...WriterOption) *Writer {
	w := &Writer{
		db:        db,
		batchSize: DefaultBatchSize,
		log:       tripstar.NopLogger{},
		stats:     tripstar.NopStatter{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteAll writes every table of s, dimensions first. It stops at the first
// table which fails.
func (w *Writer) WriteAll(ctx context.Context, s *star.Schema) error {
	if err := Write(ctx, w, DimTime, s.Time); err != nil {
		return err
	}
	if err := Write(ctx, w, DimDate, s.Date); err != nil {
		return err
	}
	if err := Write(ctx, w, DimLocation, s.Location); err != nil {
		return err
	}
	if err := Write(ctx, w, DimJunk, s.Junk); err != nil {
		return err
	}
	return Write(ctx, w, FactTrips, s.Facts)
}

// Write replaces the contents of table with rows. T must have a db tag for
// every column of the table.
func Write[T any](ctx context.Context, w *Writer, table Table, rows []T) (err error) {
	start := time.Now()
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "beginning transaction for %s", table.Name)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if w.truncate {
		if _, err = tx.ExecContext(ctx, table.createSQL(true)); err != nil {
			return errors.Wrapf(err, "creating %s", table.Name)
		}
		if _, err = tx.ExecContext(ctx, table.deleteSQL()); err != nil {
			return errors.Wrapf(err, "truncating %s", table.Name)
		}
	} else {
		if _, err = tx.ExecContext(ctx, table.dropSQL()); err != nil {
			return errors.Wrapf(err, "dropping %s", table.Name)
		}
		if _, err = tx.ExecContext(ctx, table.createSQL(false)); err != nil {
			return errors.Wrapf(err, "creating %s", table.Name)
		}
	}

	insert := table.insertSQL()
	for i := 0; i < len(rows); i += w.batchSize {
		end := i + w.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err = tx.NamedExecContext(ctx, insert, rows[i:end]); err != nil {
			return errors.Wrapf(err, "writing %s rows %d-%d", table.Name, i, end)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "committing %s", table.Name)
	}

	w.stats.Timing("write."+table.Name, time.Since(start), 1)
	w.stats.Count("write."+table.Name+".rows", int64(len(rows)), 1)
	w.log.Printf("wrote %d rows to %s in %v", len(rows), table.Name, time.Since(start))
	return nil
}

// Read returns every row of table. It's used to inspect what a run wrote.
func Read[T any](ctx context.Context, db *sqlx.DB, table Table) ([]T, error) {
	rows := make([]T, 0)
	if err := db.SelectContext(ctx, &rows, table.selectSQL()); err != nil {
		return nil, errors.Wrapf(err, "reading %s", table.Name)
	}
	return rows, nil
}
