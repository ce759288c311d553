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
	"errors"

	"github.com/GoogleCloudPlatform/polycipher/client/internal/newton"
	"github.com/GoogleCloudPlatform/polycipher/client/internal/polynomial"
)

var (
	// ErrMissingKey is returned when encrypting or decrypting without a loaded key.
	ErrMissingKey = errors.New("no key loaded")

	// ErrMalformedCipherFile is returned for encrypted data that is not a
	// 24 byte header followed by whole 8 byte root values.
	ErrMalformedCipherFile = errors.New("malformed encrypted file")

	// ErrByteOutOfRange is returned when a root evaluates to a value that does
	// not round to a byte and the decrypt policy is to fail.
	ErrByteOutOfRange = errors.New("decrypted value out of byte range")

	// ErrInvalidPolynomial is returned for a key without coefficients.
	ErrInvalidPolynomial = polynomial.ErrInvalidPolynomial

	// ErrZeroDerivative is returned when a root search hits a stationary point.
	ErrZeroDerivative = newton.ErrZeroDerivative

	// ErrIterationLimitExceeded is returned when a root search does not converge.
	ErrIterationLimitExceeded = newton.ErrIterationLimitExceeded
)
