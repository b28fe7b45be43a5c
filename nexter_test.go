package tripstar_test

import (
	"testing"

	"github.com/pilosa/tripstar"
)

func TestNexter(t *testing.T) {
	n := tripstar.NewNexter()
	for i := int64(1); i <= 3; i++ {
		if num := n.Next(); num != i {
			t.Fatalf("expected %d for Next, but %d", i, num)
		}
	}
	if num := n.Last(); num != 3 {
		t.Fatalf("expected 3 for Last, but %d", num)
	}

	n = tripstar.NewNexter(tripstar.NexterStartFrom(19))
	if num := n.Next(); num != 19 {
		t.Fatalf("expected 19 for Next, but %d", num)
	}
}
