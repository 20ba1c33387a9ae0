// Package main provides the CLI tool for the wisp compiler.
//
// Usage:
//
//	wispc generate [path...]    Compile .wisp files to .jsx modules
//	wispc check [path...]       Validate .wisp files without writing output
//	wispc help                  Show help
//
// Examples:
//
//	wispc generate ./...        Recursively find and compile all .wisp files
//	wispc generate ./pages      Process a specific directory
//	wispc generate app.wisp     Process a specific file
//	wispc check app.wisp        Validate without writing output
package main

import (
	"fmt"
	"os"

	"github.com/wisplang/wisp"
)

const version = "0.1.0"

const usage = `wispc - compiler from wisp UI sources to JSX modules

Usage:
  wispc <command> [options] [path...]

Commands:
  generate    Compile .wisp files to .jsx modules
  check       Validate .wisp files without writing output
  version     Print version information
  help        Show this help message

Options:
  -v          Verbose output
  -strict     Abort on the first validation failure
  -config     Path to a configuration file (default: .wispc.yaml if present)

Examples:
  wispc generate ./...              Recursively process all .wisp files
  wispc generate ./pages            Process files in a directory
  wispc generate app.wisp           Process a specific file
  wispc generate -v ./...           Verbose output during generation
  wispc generate -config ci.yaml .  Use an explicit configuration file
  wispc check -strict app.wisp      Fail on the first validation error

For more information, see https://github.com/wisplang/wisp
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "generate":
		if err := runGenerate(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("wispc version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// newCompiler builds a compiler from the configuration file (if any)
// plus command-line overrides. The -strict flag can only tighten what
// the file configures.
func newCompiler(configPath string, strict bool) (*wisp.Compiler, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(wisp.ConfigFile); err == nil {
			path = wisp.ConfigFile
		}
	}

	var opts []wisp.Option
	if path != "" {
		cfg, err := wisp.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if opts, err = cfg.Options(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if strict {
		opts = append(opts, wisp.WithStrict(true))
	}
	return wisp.New(opts...), nil
}
