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

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flag"
	"github.com/google/subcommands"
)

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("Parse(%v) returned error: %v", args, err)
	}
	return cmd.Execute(context.Background(), f)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("os.WriteFile(%q) returned error: %v", path, err)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile(%q) returned error: %v", path, err)
	}
	return data
}

func TestEncryptDecryptFiles(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")
	cfgPath := filepath.Join(dir, "config.yaml")
	inPath := filepath.Join(dir, "message.txt")
	metricsPath := filepath.Join(dir, "metrics.prom")

	// K(x) = x + x^2 converges for every byte from x0 = 0.
	writeFile(t, keyPath, []byte{0, 1, 1})
	writeFile(t, cfgPath, []byte("encryptConfig:\n  maxIter: 500\nworkers: 2\n"))
	plaintext := []byte("Newton would be proud.")
	writeFile(t, inPath, plaintext)

	if got := execute(t, &encryptCmd{}, "--quiet", "--key-file", keyPath, "--config-file", cfgPath, "--metrics-file", metricsPath, inPath); got != subcommands.ExitSuccess {
		t.Fatalf("encrypt returned %v, want %v", got, subcommands.ExitSuccess)
	}

	encPath := inPath + ".enc"
	if got, want := len(readFile(t, encPath)), 24+8*len(plaintext); got != want {
		t.Errorf("%s has %d bytes, want %d", encPath, got, want)
	}
	if !strings.Contains(string(readFile(t, metricsPath)), "polycipher_bytes_total") {
		t.Errorf("%s does not contain polycipher_bytes_total", metricsPath)
	}

	if got := execute(t, &decryptCmd{}, "--quiet", "--key-file", keyPath, "--config-file", cfgPath, encPath); got != subcommands.ExitSuccess {
		t.Fatalf("decrypt returned %v, want %v", got, subcommands.ExitSuccess)
	}

	if got := readFile(t, encPath+".dec"); !bytes.Equal(got, plaintext) {
		t.Errorf("decrypted %q, want %q", got, plaintext)
	}
}

func TestEncryptFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")
	cfgPath := filepath.Join(dir, "config.yaml")
	inPath := filepath.Join(dir, "message.txt")

	// K(x) = x^2 has a stationary point at x0 = 0.
	writeFile(t, keyPath, []byte{0, 0, 1})
	writeFile(t, cfgPath, nil)
	writeFile(t, inPath, []byte("abc"))

	if got := execute(t, &encryptCmd{}, "--quiet", "--key-file", keyPath, "--config-file", cfgPath, inPath); got != subcommands.ExitFailure {
		t.Fatalf("encrypt returned %v, want %v", got, subcommands.ExitFailure)
	}

	if _, err := os.Stat(inPath + ".enc"); !os.IsNotExist(err) {
		t.Errorf("os.Stat(%q) = %v, want not exist", inPath+".enc", err)
	}
}

func TestDecryptMalformedFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")
	cfgPath := filepath.Join(dir, "config.yaml")
	inPath := filepath.Join(dir, "bogus.enc")

	writeFile(t, keyPath, []byte{3, 1})
	writeFile(t, cfgPath, nil)
	writeFile(t, inPath, make([]byte, 30))

	if got := execute(t, &decryptCmd{}, "--quiet", "--key-file", keyPath, "--config-file", cfgPath, inPath); got != subcommands.ExitFailure {
		t.Fatalf("decrypt returned %v, want %v", got, subcommands.ExitFailure)
	}
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")
	writeFile(t, keyPath, []byte{3, 1})

	for _, tc := range []struct {
		name string
		cmd  subcommands.Command
		args []string
	}{
		{name: "encrypt without key", cmd: &encryptCmd{}, args: []string{"input"}},
		{name: "decrypt without key", cmd: &decryptCmd{}, args: []string{"input"}},
		{name: "encrypt without input", cmd: &encryptCmd{}, args: []string{"--key-file", keyPath}},
		{name: "genkey without path", cmd: &genkeyCmd{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := execute(t, tc.cmd, tc.args...); got != subcommands.ExitUsageError {
				t.Errorf("Execute(%v) = %v, want %v", tc.args, got, subcommands.ExitUsageError)
			}
		})
	}
}

func TestGenkey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "new.key")

	if got := execute(t, &genkeyCmd{}, "--quiet", keyPath); got != subcommands.ExitSuccess {
		t.Fatalf("genkey returned %v, want %v", got, subcommands.ExitSuccess)
	}
	first := readFile(t, keyPath)
	if len(first) != 32 {
		t.Fatalf("genkey wrote %d bytes, want 32", len(first))
	}

	if got := execute(t, &genkeyCmd{}, "--quiet", keyPath); got != subcommands.ExitFailure {
		t.Errorf("genkey over existing key returned %v, want %v", got, subcommands.ExitFailure)
	}
	if !bytes.Equal(readFile(t, keyPath), first) {
		t.Errorf("genkey without --force modified the existing key")
	}

	if got := execute(t, &genkeyCmd{}, "--quiet", "--force", keyPath); got != subcommands.ExitSuccess {
		t.Fatalf("genkey --force returned %v, want %v", got, subcommands.ExitSuccess)
	}
}

func TestConfigPathIn(t *testing.T) {
	if got, want := configPathIn("/home/user/.config", nil), filepath.Join("/home/user/.config", "polycipher.yaml"); got != want {
		t.Errorf("configPathIn(dir, nil) = %q, want %q", got, want)
	}

	// Without a config directory no default file is consulted, not even one
	// in the working directory.
	if got := configPathIn("", errors.New("no home directory")); got != "" {
		t.Errorf("configPathIn(\"\", err) = %q, want \"\"", got)
	}
}

func TestDefaultConfigPathIsStable(t *testing.T) {
	if first, second := defaultConfigPath(), defaultConfigPath(); first != second {
		t.Errorf("defaultConfigPath() = %q then %q, want identical values", first, second)
	}
}

func TestQuietFlagUsage(t *testing.T) {
	for _, cmd := range []subcommands.Command{&genkeyCmd{}, &encryptCmd{}, &decryptCmd{}} {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		if got, want := f.Lookup("quiet").Usage, "Suppress status output."; got != want {
			t.Errorf("%s --quiet usage = %q, want %q", cmd.Name(), got, want)
		}
	}
}
