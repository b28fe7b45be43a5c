package termstat_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pilosa/tripstar"
	"github.com/pilosa/tripstar/termstat"
	"github.com/pilosa/tripstar/test"
)

var _ tripstar.Statter = &termstat.Collector{}

func TestCollector(t *testing.T) {
	buf := &bytes.Buffer{}
	c := termstat.NewCollector(buf, time.Hour)
	c.Count("trips.read", 3, 1)
	c.Count("trips.read", 4, 1)
	c.Count("csv.skipped", 1, 1)
	c.Timing("stage.load", 1500*time.Millisecond, 1)
	c.Gauge("ignored", 1, 1)
	test.MustBe(t, c.Get("trips.read"), int64(7), "trips.read")
	test.MustBe(t, c.Get("missing"), int64(0), "missing")

	test.ErrNil(t, c.Close(), "closing")
	out := buf.String()
	for _, exp := range []string{"trips.read: 7", "csv.skipped: 1", "stage.load: 1.5s"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("output %q doesn't contain %q", out, exp)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("final output should end in a newline: %q", out)
	}
	if strings.Contains(out, "ignored") {
		t.Fatalf("gauge printed: %q", out)
	}
}
