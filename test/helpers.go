// Package test holds helpers shared by the tripstar tests.
package test

import (
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"
)

// MustBe fails the test immediately if thing1 and thing2 are not deeply
// equal. An optional context string is prefixed to the failure message.
func MustBe(t *testing.T, thing1, thing2 interface{}, context ...string) {
	t.Helper()
	var ctx string
	if len(context) > 0 {
		ctx = context[0] + ": "
	}
	if !reflect.DeepEqual(thing1, thing2) {
		t.Fatalf("%v'%#v' != '%#v'", ctx, thing1, thing2)
	}
}

// ErrNil fails the test immediately if err is non-nil.
func ErrNil(t *testing.T, err error, ctx string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%v: %v", ctx, err)
	}
}

// WriteFile writes data to a file called name inside dir and returns the full
// path.
func WriteFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
