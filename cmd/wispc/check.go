package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wisplang/wisp/internal/log"
)

// runCheck implements the check subcommand.
// It compiles .wisp files without writing output, reporting diagnostics
// only. Useful for CI and editor integration.
func runCheck(args []string) error {
	flags := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := flags.Bool("v", false, "Verbose output")
	strict := flags.Bool("strict", false, "Abort on the first validation failure")
	configPath := flags.String("config", "", "Path to a configuration file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Default to current directory if no paths specified
	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if *verbose {
		log.SetOutput(os.Stderr)
	}

	comp, err := newCompiler(*configPath, *strict)
	if err != nil {
		return err
	}

	files, err := collectWispFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .wisp files found")
	}
	if *verbose {
		fmt.Printf("Checking %d .wisp file(s)\n", len(files))
	}

	results := compileAll(comp, files)

	var errorCount int
	for i := range files {
		res := results[i]
		for _, w := range res.warnings {
			fmt.Fprintf(os.Stderr, "%s\n", w)
		}
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", res.err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}

	if *verbose {
		fmt.Printf("All %d file(s) passed checks\n", len(files))
	}

	return nil
}
