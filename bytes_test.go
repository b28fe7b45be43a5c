package tripstar

import (
	"io/ioutil"
	"strings"
	"testing"
)

func TestBytesString(t *testing.T) {
	tests := []struct {
		b   Bytes
		exp string
	}{
		{0, "0"},
		{12, "12B"},
		{1024, "1K"},
		{1536, "1.5K"},
		{5 * 1024 * 1024, "5M"},
		{3 * 1024 * 1024 * 1024, "3G"},
	}
	for _, test := range tests {
		if got := test.b.String(); got != test.exp {
			t.Errorf("Bytes(%d): expected %s, got %s", uint64(test.b), test.exp, got)
		}
	}
}

func TestCountingReader(t *testing.T) {
	cr := NewCountingReader(strings.NewReader(strings.Repeat("a", 2048)))
	if _, err := ioutil.ReadAll(cr); err != nil {
		t.Fatalf("reading: %v", err)
	}
	if cr.Bytes() != 2048 {
		t.Fatalf("expected 2048 bytes, got %d", cr.Bytes())
	}
}
