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

package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/pilosa/tripstar"
	"github.com/pkg/errors"
)

// Source reads a single header-delimited CSV resource into typed records. The
// header names are matched against the `csv` struct tags of the record type
// passed to Read. Columns in the file which the record type doesn't mention
// are ignored, and columns the record type needs but the file lacks are a
// fatal error.
type Source struct {
	opener OpenStringer
	log    tripstar.Logger
	stats  tripstar.Statter

	skipped int
	bytes   tripstar.Bytes
}

// NewSource creates a Source reading from o. The logger and statter can be
// set using Options defined in this package. e.g.
//
// src := NewSource(URLOpener("trips.csv"), WithLogger(logger))
func NewSource(o OpenStringer, options ...Option) *Source {
	src := &Source{
		opener: o,
		log:    tripstar.NopLogger{},
		stats:  tripstar.NopStatter{},
	}
	for _, opt := range options {
		opt(src)
	}
	return src
}

// Option is a functional option to pass to NewSource.
type Option func(*Source)

// WithLogger returns an Option which sets the logger a Source reports to.
func WithLogger(l tripstar.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStatter returns an Option which sets the Statter a Source counts
// skipped rows with.
func WithStatter(st tripstar.Statter) Option {
	return func(s *Source) {
		if st != nil {
			s.stats = st
		}
	}
}

// Skipped returns the number of malformed rows skipped by the last Read.
func (s *Source) Skipped() int { return s.skipped }

// Bytes returns the size of the resource consumed by the last Read.
func (s *Source) Bytes() tripstar.Bytes { return s.bytes }

// String returns the name of the underlying resource.
func (s *Source) String() string { return s.opener.String() }

// Opener is an interface to a resource which can be Opened (and the returned
// ReadCloser can be subsequently read). Each call to Open should return a
// ReadCloser which reads from the beginning of the resource.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// OpenStringer is an Opener which also has a String method which should return
// the name of the resource being opened (e.g. a file or URL).
type OpenStringer interface {
	fmt.Stringer
	Opener
}

// URLOpener turns a URL or file name into an OpenStringer. Names starting
// with "http" are fetched with a GET request, anything else is opened as a
// local file.
type URLOpener string

// Open implements Opener.
func (u URLOpener) Open() (io.ReadCloser, error) {
	url := string(u)
	if strings.HasPrefix(url, "http") {
		resp, err := http.Get(url)
		if err != nil {
			return nil, errors.Wrap(err, "getting via http")
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, errors.Errorf("getting via http: unexpected status %s", resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(url)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

func (u URLOpener) String() string {
	return string(u)
}

// checkEvery is how many rows are decoded between checks of the context.
const checkEvery = 4096

// Read decodes every data row of src into a value of type T, which must be a
// struct with csv tags. Rows with the wrong number of fields (or otherwise
// unparseable as CSV) are logged, counted, and skipped. Failing to open the
// resource, a bad header, or a missing column is returned as an error.
func Read[T any](ctx context.Context, src *Source) ([]T, error) {
	src.skipped = 0
	src.bytes = 0

	content, err := src.opener.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", src.opener)
	}
	defer content.Close()
	counter := tripstar.NewCountingReader(content)

	reader := csv.NewReader(skipBOM(counter))
	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", src.opener)
	}
	if err := validateHeader(dec.Header()); err != nil {
		return nil, errors.Wrapf(err, "validating header of %s", src.opener)
	}
	dec.DisallowMissingColumns = true

	rows := make([]T, 0)
	for n := 1; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrapf(err, "reading %s", src.opener)
			}
		}
		var row T
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) || err == csvutil.ErrFieldCount {
				src.skipped++
				src.log.Debugf("skipping %s, record %d: %v", src.opener, n, err)
				continue
			}
			return nil, errors.Wrapf(err, "decoding %s, record %d", src.opener, n)
		}
		rows = append(rows, row)
	}
	src.bytes = counter.Bytes()
	if src.skipped > 0 {
		src.stats.Count("csv.skipped", int64(src.skipped), 1)
		src.log.Printf("skipped %d malformed rows in %s", src.skipped, src.opener)
	}
	src.log.Printf("read %d rows (%s) from %s", len(rows), src.bytes, src.opener)
	return rows, nil
}

// skipBOM drops a leading UTF-8 byte order mark, which spreadsheet exports
// like to add and which would otherwise end up in the first header name.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}
	return br
}

func validateHeader(header []string) error {
	fields := make(map[string]int)
	for i, h := range header {
		if h == "" {
			return errors.Errorf("header contains empty string at %d: %v", i, header)
		}
		if pos, exists := fields[h]; exists {
			return errors.Errorf("%s appeared at both %d and %d in header", h, pos, i)
		}
		fields[h] = i
	}
	return nil
}
