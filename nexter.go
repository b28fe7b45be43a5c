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

package tripstar

// Nexter hands out dense surrogate keys. It is not safe for concurrent use;
// keys are assigned after a dimension has been sorted, on a single goroutine.
type Nexter struct {
	next int64
}

// NexterOption is a functional option for NewNexter.
type NexterOption func(*Nexter)

// NexterStartFrom sets the first key returned by Next.
func NexterStartFrom(start int64) NexterOption {
	return func(n *Nexter) {
		n.next = start
	}
}

// NewNexter returns a Nexter whose first key is 1 unless changed with
// NexterStartFrom.
func NewNexter(opts ...NexterOption) *Nexter {
	n := &Nexter{next: 1}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Next returns a new key.
func (n *Nexter) Next() int64 {
	n.next++
	return n.next - 1
}

// Last returns the most recently generated key.
func (n *Nexter) Last() int64 {
	return n.next - 1
}
