package s3

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url       string
		expBucket string
		expKey    string
		expErr    bool
	}{
		{url: "s3://austin-bikeshare/raw/trips.csv", expBucket: "austin-bikeshare", expKey: "raw/trips.csv"},
		{url: "s3://bucket/kiosks.csv", expBucket: "bucket", expKey: "kiosks.csv"},
		{url: "s3://bucket/", expErr: true},
		{url: "s3:///trips.csv", expErr: true},
		{url: "/app/data/raw/trips.csv", expErr: true},
		{url: "https://example.com/trips.csv", expErr: true},
	}
	for _, test := range tests {
		bucket, key, err := ParseURL(test.url)
		if test.expErr {
			if err == nil {
				t.Errorf("%s: expected error, got bucket=%s key=%s", test.url, bucket, key)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.url, err)
			continue
		}
		if bucket != test.expBucket || key != test.expKey {
			t.Errorf("%s: expected %s/%s, got %s/%s", test.url, test.expBucket, test.expKey, bucket, key)
		}
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("s3://bucket/key") {
		t.Fatal("s3://bucket/key should be an s3 url")
	}
	if IsURL("trips.csv") || IsURL("http://bucket/key") {
		t.Fatal("non s3 names reported as s3 urls")
	}
}

func TestNewObjectString(t *testing.T) {
	obj, err := NewObject("s3://bucket/raw/trips.csv", OptObjRegion("us-east-1"))
	if err != nil {
		t.Fatalf("getting object: %v", err)
	}
	if obj.String() != "s3://bucket/raw/trips.csv" {
		t.Fatalf("unexpected name: %s", obj)
	}
}
