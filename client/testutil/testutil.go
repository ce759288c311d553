// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil contains utilities for unit tests.
package testutil

import (
	"errors"
)

var (
	// LinearKey is the key K(x) = 3 + x. Every byte b has the exact root b - 3,
	// reached in one Newton step from x0 = 0.
	LinearKey = []byte{3, 1}

	// QuadraticKey is the key K(x) = x + x^2. It is increasing and convex for
	// x > -1/2, so Newton's method from x0 = 0 converges for every byte.
	QuadraticKey = []byte{0, 1, 1}

	// IdentityKey is the key K(x) = x, used to decrypt hand-written roots.
	IdentityKey = []byte{0, 1}

	// StationaryKey is the key K(x) = x^2, whose derivative vanishes at x0 = 0.
	StationaryKey = []byte{0, 0, 1}

	// ErrInjected is returned by FailingReader and FailingWriter.
	ErrInjected = errors.New("injected I/O failure")
)

// FailingReader is an io.Reader that always fails.
type FailingReader struct{}

func (FailingReader) Read([]byte) (int, error) {
	return 0, ErrInjected
}

// FailingWriter is an io.Writer that always fails.
type FailingWriter struct{}

func (FailingWriter) Write([]byte) (int, error) {
	return 0, ErrInjected
}

// AllBytes returns the 256 byte values in increasing order.
func AllBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
