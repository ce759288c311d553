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

// Binary to check that the cipher behaves as documented on this machine.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/polycipher/client"
	"github.com/alecthomas/colour"
)

var (
	samples = flag.Int("samples", 4096, "Number of random plaintext bytes used by the round-trip checks")
)

type selfTest struct {
	testName string
	run      func(ctx context.Context) error
}

func mustKey(coefficients ...byte) *client.Key {
	key, err := client.NewKey(coefficients)
	if err != nil {
		panic(err)
	}
	return key
}

func roundTrip(ctx context.Context, c *client.PolyClient, plaintext []byte) error {
	var ciphertext bytes.Buffer
	if _, err := c.Encrypt(ctx, bytes.NewReader(plaintext), &ciphertext); err != nil {
		return err
	}

	if want := 24 + 8*len(plaintext); ciphertext.Len() != want {
		return fmt.Errorf("ciphertext has %d bytes, want %d", ciphertext.Len(), want)
	}

	var output bytes.Buffer
	if _, err := c.Decrypt(ctx, &ciphertext, &output); err != nil {
		return err
	}

	if !bytes.Equal(output.Bytes(), plaintext) {
		return fmt.Errorf("round trip did not restore the plaintext")
	}
	return nil
}

func linearKeyScenario(ctx context.Context) error {
	c := &client.PolyClient{Key: mustKey(3, 1)}
	roots, err := c.EncryptBytes(ctx, []byte{5})
	if err != nil {
		return err
	}
	if roots[0] != 2 {
		return fmt.Errorf("root of 3 + x - 5 is %v, want 2", roots[0])
	}
	return roundTrip(ctx, c, []byte{5})
}

func quadraticRoundTrip(ctx context.Context) error {
	plaintext := make([]byte, *samples)
	for i := range plaintext {
		plaintext[i] = byte(i * 31)
	}
	return roundTrip(ctx, &client.PolyClient{Key: mustKey(0, 1, 1)}, plaintext)
}

func generatedKeyRoundTrip(ctx context.Context) error {
	c := &client.PolyClient{Key: client.GenerateKey()}

	var convergent []byte
	for b := 0; b < 256; b++ {
		if _, err := c.EncryptBytes(ctx, []byte{byte(b)}); err == nil {
			convergent = append(convergent, byte(b))
		}
	}
	return roundTrip(ctx, c, convergent)
}

func determinism(ctx context.Context) error {
	c := &client.PolyClient{Key: mustKey(17, 3, 250, 9, 4, 1)}
	roots, err := c.EncryptBytes(ctx, []byte{200, 200, 200})
	if err != nil {
		return err
	}
	if roots[0] != roots[1] || roots[1] != roots[2] {
		return fmt.Errorf("roots for the same byte differ: %v", roots)
	}
	return nil
}

func zeroIterations(ctx context.Context) error {
	c := &client.PolyClient{
		Key:    mustKey(3, 1),
		Config: &client.Config{EncryptConfig: &client.EncryptConfig{Epsilon: 1e-10, MaxIter: 0}},
	}
	_, err := c.EncryptBytes(ctx, []byte{5})
	if !errors.Is(err, client.ErrIterationLimitExceeded) {
		return fmt.Errorf("got %v, want %v", err, client.ErrIterationLimitExceeded)
	}
	return nil
}

func emptyKey(context.Context) error {
	if _, err := client.NewKey(nil); !errors.Is(err, client.ErrInvalidPolynomial) {
		return fmt.Errorf("got %v, want %v", err, client.ErrInvalidPolynomial)
	}
	return nil
}

func framing(ctx context.Context) error {
	c := &client.PolyClient{Key: mustKey(3, 1)}
	for _, size := range []int{0, 23, 25, 39} {
		_, err := c.Decrypt(ctx, bytes.NewReader(make([]byte, size)), &bytes.Buffer{})
		if !errors.Is(err, client.ErrMalformedCipherFile) {
			return fmt.Errorf("%d byte file: got %v, want %v", size, err, client.ErrMalformedCipherFile)
		}
	}
	return nil
}

func main() {
	flag.Parse()

	fmt.Println("Running self tests...")

	testCases := []selfTest{
		{testName: "Key 3 + x encrypts byte 5 to root 2", run: linearKeyScenario},
		{testName: "Key x + x^2 round-trips every byte", run: quadraticRoundTrip},
		{testName: "Generated key round-trips convergent bytes", run: generatedKeyRoundTrip},
		{testName: "Equal bytes encrypt to identical roots", run: determinism},
		{testName: "Zero iterations exceeds the iteration limit", run: zeroIterations},
		{testName: "Empty key is an invalid polynomial", run: emptyKey},
		{testName: "Files not sized 24 + 8N are malformed", run: framing},
	}

	ctx := context.Background()
	failed := 0
	for _, testCase := range testCases {
		if err := testCase.run(ctx); err != nil {
			failed++
			colour.Printf("^1 - %v: %v^R\n", testCase.testName, err)
		} else {
			colour.Printf("^2 - %v^R\n", testCase.testName)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
