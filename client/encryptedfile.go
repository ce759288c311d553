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

// Utility functions for reading and writing encrypted files.
//
// An encrypted file is a fixed 24 byte header followed by one root value
// per plaintext byte, with no padding. All fields are little-endian.
//
// Header (24 bytes):
// - Newton starting guess x0 (int64, 8 bytes)
// - convergence tolerance epsilon (IEEE-754 float64, 8 bytes)
// - iteration cap max_iter (uint64, 8 bytes)
//
// Roots:
// - one IEEE-754 float64 per plaintext byte, in plaintext order, extending
//   to the end of the file

package client

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/polycipher/client/internal/newton"
	"github.com/GoogleCloudPlatform/polycipher/constants"
)

// CipherHeader is the file header for the encrypted file format. It records
// the root search parameters shared by every root in the file.
type CipherHeader struct {
	X0      int64   // 8 bytes
	Epsilon float64 // 8 bytes
	MaxIter uint64  // 8 bytes
}

// params returns the root search parameters described by the header.
func (h CipherHeader) params() newton.Params {
	return newton.Params{
		X0:      float64(h.X0),
		Epsilon: h.Epsilon,
		MaxIter: h.MaxIter,
	}
}

// Reads an encrypted file header from `input`, returning a CipherHeader.
func readHeader(input io.Reader) (*CipherHeader, error) {
	var header CipherHeader
	if err := binary.Read(input, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrMalformedCipherFile, err)
	}

	return &header, nil
}

// Writes an encrypted file header with the given properties to `output`.
func writeHeader(output io.Writer, header CipherHeader) error {
	return binary.Write(output, binary.LittleEndian, header)
}

// WriteCipherFile writes `header` followed by `roots` to `output`.
func WriteCipherFile(output io.Writer, header CipherHeader, roots []float64) error {
	if err := writeHeader(output, header); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}

	if err := binary.Write(output, binary.LittleEndian, roots); err != nil {
		return fmt.Errorf("failed to write roots: %v", err)
	}

	return nil
}

// ReadCipherFile reads a complete encrypted file from `input`.
func ReadCipherFile(input io.Reader) (*CipherHeader, []float64, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read encrypted data: %v", err)
	}

	return ParseCipherFile(data)
}

// ParseCipherFile decodes an encrypted file held in memory. Data that is not
// exactly a header plus a whole number of root values is rejected with
// ErrMalformedCipherFile.
func ParseCipherFile(data []byte) (*CipherHeader, []float64, error) {
	if len(data) < constants.HeaderBytes {
		return nil, nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrMalformedCipherFile, len(data), constants.HeaderBytes)
	}

	body := len(data) - constants.HeaderBytes
	if body%constants.RootBytes != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes do not form whole %d byte roots", ErrMalformedCipherFile, body, constants.RootBytes)
	}

	input := bytes.NewReader(data)
	header, err := readHeader(input)
	if err != nil {
		return nil, nil, err
	}

	roots := make([]float64, body/constants.RootBytes)
	if err := binary.Read(input, binary.LittleEndian, roots); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read roots: %v", ErrMalformedCipherFile, err)
	}

	return header, roots, nil
}
