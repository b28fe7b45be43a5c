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

// Package s3 opens CSV extracts stored in S3 so they can be read by a
// csv.Source.
package s3

import (
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// Scheme is the URL scheme recognized by IsURL and NewObject.
const Scheme = "s3"

// IsURL reports whether name refers to an S3 object (s3://bucket/key).
func IsURL(name string) bool {
	return strings.HasPrefix(name, Scheme+"://")
}

// ParseURL splits an s3://bucket/key URL into its bucket and key.
func ParseURL(name string) (bucket, key string, err error) {
	u, err := url.Parse(name)
	if err != nil {
		return "", "", errors.Wrap(err, "parsing s3 url")
	}
	if u.Scheme != Scheme {
		return "", "", errors.Errorf("not an s3 url: %s", name)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", errors.Errorf("s3 url must be of the form s3://bucket/key, got %s", name)
	}
	return u.Host, key, nil
}

// Object is a single S3 object. It satisfies csv.OpenStringer.
type Object struct {
	bucket string
	key    string

	s3 *s3.S3
}

// ObjOption is a functional option type for NewObject.
type ObjOption func(*aws.Config)

// OptObjRegion is an ObjOption which sets the AWS region used to fetch the
// object.
func OptObjRegion(region string) ObjOption {
	return func(c *aws.Config) {
		if region != "" {
			c.Region = aws.String(region)
		}
	}
}

// OptObjEndpoint is an ObjOption which points the client at an S3 compatible
// endpoint other than AWS (e.g. minio).
func OptObjEndpoint(endpoint string) ObjOption {
	return func(c *aws.Config) {
		if endpoint != "" {
			c.Endpoint = aws.String(endpoint)
			c.S3ForcePathStyle = aws.Bool(true)
		}
	}
}

// NewObject returns an Object for an s3://bucket/key URL. Credentials are
// taken from the usual AWS environment variables and shared config files.
func NewObject(name string, opts ...ObjOption) (*Object, error) {
	bucket, key, err := ParseURL(name)
	if err != nil {
		return nil, err
	}
	cfg := &aws.Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "getting new session")
	}
	return &Object{
		bucket: bucket,
		key:    key,
		s3:     s3.New(sess),
	}, nil
}

// Open fetches the object, returning its body.
func (o *Object) Open() (io.ReadCloser, error) {
	result, err := o.s3.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", o)
	}
	return result.Body, nil
}

func (o *Object) String() string {
	return Scheme + "://" + o.bucket + "/" + o.key
}
