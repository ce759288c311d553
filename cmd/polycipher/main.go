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

// This binary is the main entrypoint for the polycipher command line tool.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"flag"
	"github.com/GoogleCloudPlatform/polycipher/client"
	"github.com/GoogleCloudPlatform/polycipher/client/metrics"
	"github.com/GoogleCloudPlatform/polycipher/constants"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

const (
	// The current version, displayed via the `version` subcommand.
	polycipherVersion string = "0.1.0"

	// Output files hold secret material.
	outputPerm os.FileMode = 0600
)

// defaultConfigPath is the optional config file under the user's config
// directory, or "" when that directory cannot be determined.
var defaultConfigPath = sync.OnceValue(func() string {
	return configPathIn(os.UserConfigDir())
})

func configPathIn(cfgDir string, err error) string {
	if err != nil {
		glog.Errorf("Failed to get config directory location: %v", err.Error())
		return ""
	}

	return filepath.Join(cfgDir, constants.DefaultConfigName)
}

// configHint describes the default configuration source for usage text.
func configHint() string {
	if p := defaultConfigPath(); p != "" {
		return p
	}
	return "built-in defaults"
}

// genkeyCmd handles CLI options for the key generation command.
type genkeyCmd struct {
	force bool
	quiet bool
}

func (*genkeyCmd) Name() string { return "genkey" }
func (*genkeyCmd) Synopsis() string {
	return "generates a new random polynomial key"
}
func (*genkeyCmd) Usage() string {
	return `Usage: polycipher genkey [--force] <key_file>

Example:
  Generate a key of 32 random coefficients:
    $ polycipher genkey my.key

Flags:
`
}
func (g *genkeyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&g.force, "force", false, "Overwrite an existing key file.")
	f.BoolVar(&g.quiet, "quiet", false, "Suppress status output.")
}

func (g *genkeyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected key file)")
		return subcommands.ExitUsageError
	}
	keyPath := f.Arg(0)

	if !g.force {
		if _, err := os.Stat(keyPath); err == nil {
			glog.Errorf("Key file %s already exists (use --force to overwrite)", keyPath)
			return subcommands.ExitFailure
		}
	}

	var keyBuf bytes.Buffer
	if err := client.WriteKey(&keyBuf, client.GenerateKey()); err != nil {
		glog.Errorf("Failed to serialize key: %v", err.Error())
		return subcommands.ExitFailure
	}

	if err := client.WriteFileAtomic(keyPath, keyBuf.Bytes(), outputPerm); err != nil {
		glog.Errorf("Failed to write key file: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !g.quiet {
		fmt.Println("Wrote key to", keyPath)
	}

	return subcommands.ExitSuccess
}

// codecFlags holds the options shared by the encrypt and decrypt commands.
type codecFlags struct {
	keyFile     string
	configFile  string
	metricsFile string
	quiet       bool
}

func (c *codecFlags) setFlags(f *flag.FlagSet, verb string) {
	f.StringVar(&c.keyFile, "key-file", "", fmt.Sprintf("Path to the key file to %s with. Required.", verb))
	f.StringVar(&c.configFile, "config-file", defaultConfigPath(), "Path to a polycipher YAML config file. Optional.")
	f.StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics for this run to the given file. Optional.")
	f.BoolVar(&c.quiet, "quiet", false, "Suppress status output.")
}

// newClient loads the key and configuration named by the flags.
func (c *codecFlags) newClient() (*client.PolyClient, error) {
	keyFile, err := os.Open(c.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %v", err)
	}
	defer keyFile.Close()

	key, err := client.ReadKey(keyFile)
	if err != nil {
		return nil, err
	}

	// The default config file is optional; an explicitly named one is not.
	cfg, err := client.LoadConfig(c.configFile, c.configFile == defaultConfigPath())
	if err != nil {
		return nil, err
	}

	glog.V(1).Infof("Loaded degree %d key from %s", key.Degree(), c.keyFile)

	return &client.PolyClient{Key: key, Config: cfg, Metrics: metrics.New()}, nil
}

type codecFunc func(ctx context.Context, c *client.PolyClient, input io.Reader, output io.Writer) (int, error)

// run executes op on the input named by the first argument and commits the
// result to the output named by the second argument, or the input path plus
// `suffix`. Output is only written once op has fully succeeded.
func (c *codecFlags) run(ctx context.Context, f *flag.FlagSet, suffix string, op codecFunc) subcommands.ExitStatus {
	if c.keyFile == "" {
		glog.Errorf("No key file given (expected --key-file)")
		return subcommands.ExitUsageError
	}

	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected input file)")
		return subcommands.ExitUsageError
	}

	pc, err := c.newClient()
	if err != nil {
		glog.Errorf("Failed to initialize client: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer c.writeMetrics(pc.Metrics)

	var inFile io.Reader
	inPath := f.Arg(0)

	if inPath == "-" {
		// Read input from stdin.
		inFile = os.Stdin
	} else {
		file, err := os.Open(inPath)
		if err != nil {
			glog.Errorf("Failed to open input file: %v", err.Error())
			return subcommands.ExitFailure
		}
		defer file.Close()
		inFile = file
	}

	outPath := inPath + suffix
	switch {
	case f.NArg() >= 2:
		outPath = f.Arg(1)
	case inPath == "-":
		outPath = "-"
	}

	var outBuf bytes.Buffer
	n, err := op(ctx, pc, inFile, &outBuf)
	if err != nil {
		glog.Errorf("Failed to process %s: %v", inPath, err.Error())
		return subcommands.ExitFailure
	}

	logFile := os.Stdout
	if outPath == "-" {
		// Output to stdout and log to stderr.
		logFile = os.Stderr
		if _, err := outBuf.WriteTo(os.Stdout); err != nil {
			glog.Errorf("Failed to write output: %v", err.Error())
			return subcommands.ExitFailure
		}
	} else if err := client.WriteFileAtomic(outPath, outBuf.Bytes(), outputPerm); err != nil {
		glog.Errorf("Failed to write output file: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !c.quiet {
		if outPath == "-" {
			logFile.WriteString("Wrote output to stdout.\n")
		} else {
			logFile.WriteString(fmt.Sprintln("Wrote output to", outPath))
		}
		logFile.WriteString(fmt.Sprintln("Bytes of plaintext:", n))
	}

	return subcommands.ExitSuccess
}

func (c *codecFlags) writeMetrics(m *metrics.Metrics) {
	if c.metricsFile == "" {
		return
	}
	if err := m.WriteTextfile(c.metricsFile); err != nil {
		glog.Errorf("Failed to write metrics file: %v", err.Error())
	}
}

// encryptCmd handles CLI options for the encryption command.
type encryptCmd struct {
	codecFlags
}

func (*encryptCmd) Name() string { return "encrypt" }
func (*encryptCmd) Synopsis() string {
	return "encrypts plaintext with the given key"
}
func (*encryptCmd) Usage() string {
	return fmt.Sprintf(`Usage: polycipher encrypt --key-file=<key_file> [--config-file=<config_file>] <plaintext_file> [<encrypted_file>]

Examples:
  Encrypt a file, writing plaintext.txt%[1]s and using %[2]s for configuration:
    $ polycipher encrypt --key-file=my.key plaintext.txt

  Encrypt with a specific configuration file and output name:
    $ polycipher encrypt --key-file=my.key --config-file="my_config.yaml" plaintext.txt ciphertext.bin

  Encrypt with input from stdin and output to stdout:
    $ my-application | polycipher encrypt --key-file=my.key - | my-other-application

Flags:
`, constants.EncryptedSuffix, configHint())
}
func (e *encryptCmd) SetFlags(f *flag.FlagSet) {
	e.setFlags(f, "encrypt")
}

func (e *encryptCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return e.run(ctx, f, constants.EncryptedSuffix, func(ctx context.Context, c *client.PolyClient, input io.Reader, output io.Writer) (int, error) {
		md, err := c.Encrypt(ctx, input, output)
		if err != nil {
			return 0, err
		}
		glog.V(1).Infof("Encrypted with x0=%d epsilon=%v max_iter=%d", md.Header.X0, md.Header.Epsilon, md.Header.MaxIter)
		return md.Bytes, nil
	})
}

// decryptCmd handles CLI options for the decryption command.
type decryptCmd struct {
	codecFlags
}

func (*decryptCmd) Name() string { return "decrypt" }
func (*decryptCmd) Synopsis() string {
	return "decrypts an encrypted file with the given key"
}
func (*decryptCmd) Usage() string {
	return fmt.Sprintf(`Usage: polycipher decrypt --key-file=<key_file> [--config-file=<config_file>] <encrypted_file> [<plaintext_file>]

Examples:
  Decrypt a file, writing ciphertext%[1]s and using %[2]s for configuration:
    $ polycipher decrypt --key-file=my.key ciphertext
    Wrote output to ciphertext%[1]s
    Bytes of plaintext: ...

  Decrypt with plaintext outputted to stdout:
    $ polycipher decrypt --key-file=my.key ciphertext.bin - > plaintext.txt
    Wrote output to stdout.
    Bytes of plaintext: ...

Flags:
`, constants.DecryptedSuffix, configHint())
}
func (d *decryptCmd) SetFlags(f *flag.FlagSet) {
	d.setFlags(f, "decrypt")
}

func (d *decryptCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return d.run(ctx, f, constants.DecryptedSuffix, func(ctx context.Context, c *client.PolyClient, input io.Reader, output io.Writer) (int, error) {
		md, err := c.Decrypt(ctx, input, output)
		if err != nil {
			if errors.Is(err, client.ErrMalformedCipherFile) {
				glog.Errorf("Input is not a polycipher encrypted file")
			}
			return 0, err
		}
		return md.Bytes, nil
	})
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: polycipher version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("polycipher Version %s\n", polycipherVersion)
	return subcommands.ExitSuccess
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&genkeyCmd{}, "")
	subcommands.Register(&encryptCmd{}, "")
	subcommands.Register(&decryptCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
