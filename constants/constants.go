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

// Package constants contains values shared between the client library and its binaries.
package constants

// DefaultX0 is the Newton starting guess used when none is configured.
const DefaultX0 int64 = 0

// DefaultEpsilon is the default convergence tolerance for root searches.
const DefaultEpsilon = 1e-10

// DefaultMaxIter is the default iteration cap for root searches.
const DefaultMaxIter uint64 = 1000

// KeyCoefficients is the number of coefficients in a generated key (degree 31).
const KeyCoefficients = 32

// HeaderBytes is the size of the ciphertext header: x0, epsilon and max_iter.
const HeaderBytes = 24

// RootBytes is the size of one encoded root value.
const RootBytes = 8

// EncryptedSuffix is appended to an input path to name its ciphertext.
const EncryptedSuffix = ".enc"

// DecryptedSuffix is appended to an input path to name its recovered plaintext.
const DecryptedSuffix = ".dec"

// DefaultConfigName is the file name of the configuration under the user config directory.
const DefaultConfigName = "polycipher.yaml"

// MetricsNamespace is the Prometheus namespace for all exported metrics.
const MetricsNamespace = "polycipher"
