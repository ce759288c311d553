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

// Utility functions for generating, reading and writing keys.
//
// A key file holds one unsigned byte per key coefficient, lowest degree
// first, with no header. A generated key has 32 coefficients.

package client

import (
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/polycipher/client/internal/polynomial"
	"github.com/GoogleCloudPlatform/polycipher/constants"
	"github.com/google/tink/go/subtle/random"
)

// Key is the secret polynomial shared between encryption and decryption.
type Key struct {
	coefficients []byte
	poly         *polynomial.Polynomial
}

// NewKey creates a key from coefficients given lowest degree first.
func NewKey(coefficients []byte) (*Key, error) {
	p, err := polynomial.FromBytes(coefficients)
	if err != nil {
		return nil, err
	}

	c := make([]byte, len(coefficients))
	copy(c, coefficients)
	return &Key{coefficients: c, poly: p}, nil
}

// GenerateKey draws a fresh key of constants.KeyCoefficients random coefficients.
func GenerateKey() *Key {
	key, err := NewKey(random.GetRandomBytes(constants.KeyCoefficients))
	if err != nil {
		// Unreachable: the coefficient slice is never empty.
		panic(err)
	}

	return key
}

// loaded reports whether k holds a key polynomial. The zero Key does not.
func (k *Key) loaded() bool {
	return k != nil && k.poly != nil
}

// Degree returns the degree of the key polynomial, or -1 for an unloaded key.
func (k *Key) Degree() int {
	if !k.loaded() {
		return -1
	}
	return k.poly.Degree()
}

// Bytes returns the serialized key.
func (k *Key) Bytes() []byte {
	out := make([]byte, len(k.coefficients))
	copy(out, k.coefficients)
	return out
}

// String formats the key polynomial for diagnostics.
func (k *Key) String() string {
	if !k.loaded() {
		return "<no key>"
	}
	return k.poly.String()
}

// ReadKey reads a serialized key from `input`.
func ReadKey(input io.Reader) (*Key, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %v", err)
	}

	key, err := NewKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key: %w", err)
	}

	return key, nil
}

// WriteKey writes the serialized form of `key` to `output`.
func WriteKey(output io.Writer, key *Key) error {
	if !key.loaded() {
		return ErrMissingKey
	}

	if _, err := output.Write(key.coefficients); err != nil {
		return fmt.Errorf("failed to write key: %v", err)
	}

	return nil
}
