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

package client

import (
	"bytes"
	"errors"
	"testing"

	"github.com/GoogleCloudPlatform/polycipher/client/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey()

	if got := len(key.Bytes()); got != 32 {
		t.Fatalf("GenerateKey() has %d coefficients, want 32", got)
	}
	if got := key.Degree(); got != 31 {
		t.Errorf("GenerateKey().Degree() = %d, want 31", got)
	}

	if bytes.Equal(key.Bytes(), GenerateKey().Bytes()) {
		t.Errorf("GenerateKey() returned the same key twice")
	}
}

func TestWriteReadKey(t *testing.T) {
	key := GenerateKey()

	var file bytes.Buffer
	if err := WriteKey(&file, key); err != nil {
		t.Fatalf("WriteKey() returned error: %v", err)
	}
	if file.Len() != 32 {
		t.Fatalf("WriteKey() wrote %d bytes, want 32", file.Len())
	}

	got, err := ReadKey(&file)
	if err != nil {
		t.Fatalf("ReadKey() returned error: %v", err)
	}
	if diff := cmp.Diff(key.Bytes(), got.Bytes()); diff != "" {
		t.Errorf("ReadKey() returned unexpected diff (-want +got):\n%s", diff)
	}
	if !got.poly.Equal(key.poly) {
		t.Errorf("ReadKey() polynomial = %v, want %v", got, key)
	}
}

func TestKeyFileLayout(t *testing.T) {
	key := mustKey(t, testutil.LinearKey)

	var file bytes.Buffer
	if err := WriteKey(&file, key); err != nil {
		t.Fatalf("WriteKey() returned error: %v", err)
	}
	if want := []byte{3, 1}; !bytes.Equal(file.Bytes(), want) {
		t.Errorf("WriteKey() wrote %v, want %v", file.Bytes(), want)
	}
	if got := key.String(); got != "3 + x^1" {
		t.Errorf("String() = %q, want %q", got, "3 + x^1")
	}
}

func TestNewKeyCopiesInput(t *testing.T) {
	coefficients := []byte{1, 2, 3}
	key := mustKey(t, coefficients)
	coefficients[0] = 9

	if want := []byte{1, 2, 3}; !bytes.Equal(key.Bytes(), want) {
		t.Errorf("Bytes() = %v, want %v", key.Bytes(), want)
	}
}

func TestReadKeyErrors(t *testing.T) {
	if _, err := ReadKey(bytes.NewReader(nil)); !errors.Is(err, ErrInvalidPolynomial) {
		t.Errorf("ReadKey(empty) = %v, want %v", err, ErrInvalidPolynomial)
	}
	if _, err := ReadKey(testutil.FailingReader{}); err == nil {
		t.Errorf("ReadKey(failing reader) returned no error")
	}
}

func TestWriteKeyErrors(t *testing.T) {
	if err := WriteKey(&bytes.Buffer{}, nil); !errors.Is(err, ErrMissingKey) {
		t.Errorf("WriteKey(buf, nil) = %v, want %v", err, ErrMissingKey)
	}
	var buf bytes.Buffer
	if err := WriteKey(&buf, &Key{}); !errors.Is(err, ErrMissingKey) {
		t.Errorf("WriteKey(buf, &Key{}) = %v, want %v", err, ErrMissingKey)
	}
	if buf.Len() != 0 {
		t.Errorf("WriteKey(buf, &Key{}) wrote %d bytes, want 0", buf.Len())
	}
	if err := WriteKey(testutil.FailingWriter{}, GenerateKey()); err == nil {
		t.Errorf("WriteKey(failing writer, key) returned no error")
	}
}

func TestZeroValueKeyAccessors(t *testing.T) {
	var k Key
	if got := k.Degree(); got != -1 {
		t.Errorf("Degree() of zero value key = %d, want -1", got)
	}
	if got := k.String(); got != "<no key>" {
		t.Errorf("String() of zero value key = %q, want %q", got, "<no key>")
	}
	if got := k.Bytes(); len(got) != 0 {
		t.Errorf("Bytes() of zero value key = %v, want empty", got)
	}
}
