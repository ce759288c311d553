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

// Package client is the client library for polycipher.
//
// Each plaintext byte b is encrypted as a real root of K(x) - b, where K is
// the secret key polynomial, found with Newton's method. Decryption
// evaluates K at each root and rounds to the nearest byte.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/GoogleCloudPlatform/polycipher/client/internal/newton"
	"github.com/GoogleCloudPlatform/polycipher/client/internal/polynomial"
	"github.com/GoogleCloudPlatform/polycipher/client/metrics"
	glog "github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of consecutive bytes handled by one worker task.
const chunkSize = 4096

// EncryptedMetadata describes data encrypted by the client.
type EncryptedMetadata struct {
	Header CipherHeader
	Bytes  int
}

// DecryptedMetadata describes data decrypted by the client.
type DecryptedMetadata struct {
	// Header is the header read from the encrypted data. Its parameters are
	// informational; decryption does not search for roots.
	Header CipherHeader
	Bytes  int
}

// PolyClient provides encryption and decryption with a polynomial key.
// A PolyClient is safe for concurrent use once its fields are set.
type PolyClient struct {
	// Key is the secret polynomial. Required for Encrypt and Decrypt.
	Key *Key

	// Config holds root search parameters and decryption policy. A nil
	// Config means DefaultConfig().
	Config *Config

	// Metrics receives instrumentation. Optional.
	Metrics *metrics.Metrics
}

func (c *PolyClient) config() *Config {
	if c.Config == nil {
		return DefaultConfig()
	}
	return c.Config
}

func (c *PolyClient) encryptConfig() *EncryptConfig {
	if ec := c.config().EncryptConfig; ec != nil {
		return ec
	}
	return DefaultEncryptConfig()
}

func (c *PolyClient) outOfRangePolicy() OutOfRangePolicy {
	if dc := c.config().DecryptConfig; dc != nil && dc.OutOfRange != "" {
		return dc.OutOfRange
	}
	return OutOfRangeFail
}

// failureReason maps an error to a metrics reason label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, newton.ErrZeroDerivative):
		return metrics.ReasonZeroDerivative
	case errors.Is(err, newton.ErrIterationLimitExceeded):
		return metrics.ReasonIterationLimit
	case errors.Is(err, ErrByteOutOfRange):
		return metrics.ReasonOutOfRange
	case errors.Is(err, ErrMalformedCipherFile):
		return metrics.ReasonMalformed
	case errors.Is(err, ErrMissingKey):
		return metrics.ReasonMissingKey
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonCanceled
	default:
		return metrics.ReasonOther
	}
}

// forEachChunk calls fn on consecutive [start, end) ranges covering [0, n),
// running at most `workers` calls at a time. It returns the first error.
func forEachChunk(ctx context.Context, n, workers int, fn func(start, end int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}

	return g.Wait()
}

// EncryptBytes returns one root per byte of `plaintext`, in order. Any byte
// whose root search fails aborts the whole call.
func (c *PolyClient) EncryptBytes(ctx context.Context, plaintext []byte) ([]float64, error) {
	if !c.Key.loaded() {
		return nil, ErrMissingKey
	}

	params := c.encryptConfig().header().params()
	key := c.Key.poly
	// Subtracting a constant leaves the derivative unchanged, so every
	// shifted polynomial shares the key's derivative.
	deriv := key.Derivative()

	glog.V(1).Infof("Encrypting %d bytes with degree %d key (x0=%v, epsilon=%v, max_iter=%d, workers=%d)",
		len(plaintext), key.Degree(), params.X0, params.Epsilon, params.MaxIter, c.config().workers())

	roots := make([]float64, len(plaintext))
	err := forEachChunk(ctx, len(plaintext), c.config().workers(), func(start, end int) error {
		for i := start; i < end; i++ {
			b := plaintext[i]
			shifted := key.Subtract(polynomial.Constant(float64(b)))
			res, err := newton.FindRoot(shifted, deriv, params)
			if err != nil {
				return fmt.Errorf("failed to encrypt byte %d (0x%02x): %w", i, b, err)
			}
			c.Metrics.RecordIterations(res.Iterations)
			roots[i] = res.Root
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return roots, nil
}

// toByte rounds v half to even and converts it to a byte under policy.
func toByte(v float64, policy OutOfRangePolicy) (byte, error) {
	r := math.RoundToEven(v)
	switch {
	case math.IsNaN(r):
		return 0, fmt.Errorf("%w: evaluated to NaN", ErrByteOutOfRange)
	case r >= 0 && r <= math.MaxUint8:
		return byte(r), nil
	case policy == OutOfRangeClamp && r < 0:
		return 0, nil
	case policy == OutOfRangeClamp:
		return math.MaxUint8, nil
	default:
		return 0, fmt.Errorf("%w: evaluated to %v", ErrByteOutOfRange, v)
	}
}

// DecryptRoots evaluates the key at each root and returns the recovered bytes, in order.
func (c *PolyClient) DecryptRoots(ctx context.Context, roots []float64) ([]byte, error) {
	if !c.Key.loaded() {
		return nil, ErrMissingKey
	}

	key := c.Key.poly
	policy := c.outOfRangePolicy()

	glog.V(1).Infof("Decrypting %d roots with degree %d key (out of range policy %q, workers=%d)",
		len(roots), key.Degree(), policy, c.config().workers())

	plaintext := make([]byte, len(roots))
	err := forEachChunk(ctx, len(roots), c.config().workers(), func(start, end int) error {
		for i := start; i < end; i++ {
			b, err := toByte(key.Evaluate(roots[i]), policy)
			if err != nil {
				return fmt.Errorf("failed to decrypt root %d (%v): %w", i, roots[i], err)
			}
			plaintext[i] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

// Encrypt reads all of `input`, encrypts it, and writes the encrypted file to
// `output`. Nothing is written to `output` unless every byte encrypts.
func (c *PolyClient) Encrypt(ctx context.Context, input io.Reader, output io.Writer) (*EncryptedMetadata, error) {
	start := time.Now()
	md, err := c.encrypt(ctx, input, output)
	if err != nil {
		c.Metrics.RecordFailure(metrics.OpEncrypt, failureReason(err))
		return nil, err
	}

	c.Metrics.RecordBytes(metrics.OpEncrypt, md.Bytes)
	c.Metrics.ObserveDuration(metrics.OpEncrypt, time.Since(start))
	return md, nil
}

func (c *PolyClient) encrypt(ctx context.Context, input io.Reader, output io.Writer) (*EncryptedMetadata, error) {
	if !c.Key.loaded() {
		return nil, ErrMissingKey
	}

	plaintext, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read plaintext: %v", err)
	}

	roots, err := c.EncryptBytes(ctx, plaintext)
	if err != nil {
		return nil, err
	}

	header := c.encryptConfig().header()
	var buf bytes.Buffer
	if err := WriteCipherFile(&buf, header, roots); err != nil {
		return nil, err
	}

	if _, err := buf.WriteTo(output); err != nil {
		return nil, fmt.Errorf("failed to write encrypted data: %v", err)
	}

	return &EncryptedMetadata{Header: header, Bytes: len(plaintext)}, nil
}

// Decrypt reads an encrypted file from `input` and writes the recovered
// plaintext to `output`. Nothing is written to `output` unless every root
// decrypts.
func (c *PolyClient) Decrypt(ctx context.Context, input io.Reader, output io.Writer) (*DecryptedMetadata, error) {
	start := time.Now()
	md, err := c.decrypt(ctx, input, output)
	if err != nil {
		c.Metrics.RecordFailure(metrics.OpDecrypt, failureReason(err))
		return nil, err
	}

	c.Metrics.RecordBytes(metrics.OpDecrypt, md.Bytes)
	c.Metrics.ObserveDuration(metrics.OpDecrypt, time.Since(start))
	return md, nil
}

func (c *PolyClient) decrypt(ctx context.Context, input io.Reader, output io.Writer) (*DecryptedMetadata, error) {
	if !c.Key.loaded() {
		return nil, ErrMissingKey
	}

	header, roots, err := ReadCipherFile(input)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.DecryptRoots(ctx, roots)
	if err != nil {
		return nil, err
	}

	if _, err := output.Write(plaintext); err != nil {
		return nil, fmt.Errorf("failed to write plaintext: %v", err)
	}

	return &DecryptedMetadata{Header: *header, Bytes: len(plaintext)}, nil
}
