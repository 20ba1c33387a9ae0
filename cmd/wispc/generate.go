package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wisplang/wisp"
	"github.com/wisplang/wisp/internal/log"
)

// runGenerate implements the generate subcommand.
// It compiles .wisp files and writes a .jsx module next to each source.
func runGenerate(args []string) error {
	flags := flag.NewFlagSet("generate", flag.ExitOnError)
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
		fmt.Printf("Found %d .wisp file(s)\n", len(files))
	}

	results := compileAll(comp, files)

	var errorCount int
	for i, inputPath := range files {
		res := results[i]
		for _, w := range res.warnings {
			fmt.Fprintf(os.Stderr, "%s\n", w)
		}
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inputPath, res.err)
			errorCount++
			continue
		}

		outputPath := outputFileName(inputPath)
		if *verbose {
			fmt.Printf("Processing %s -> %s\n", inputPath, outputPath)
		}
		if err := os.WriteFile(outputPath, []byte(res.code), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inputPath, err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}

	if *verbose {
		fmt.Printf("Successfully generated %d file(s)\n", len(files))
	}

	return nil
}

type compileResult struct {
	code     string
	warnings []string
	err      error
}

// compileAll compiles every file concurrently, bounded by the CPU
// count. Per-file failures are recorded in the result slice rather than
// cancelling the group, so one bad file never hides diagnostics for the
// others.
func compileAll(comp *wisp.Compiler, files []string) []compileResult {
	results := make([]compileResult, len(files))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, inputPath := range files {
		i, inputPath := i, inputPath
		g.Go(func() error {
			results[i] = compileFile(ctx, comp, inputPath)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// compileFile runs the pipeline over one source file.
func compileFile(ctx context.Context, comp *wisp.Compiler, inputPath string) compileResult {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return compileResult{err: fmt.Errorf("reading file: %w", err)}
	}

	// Just the filename for error messages and the header comment
	filename := filepath.Base(inputPath)

	res, err := comp.CompileSource(ctx, filename, string(source))
	if err != nil {
		return compileResult{err: err}
	}
	return compileResult{code: res.Code, warnings: res.Warnings}
}

// collectWispFiles finds all .wisp files from the given paths.
// Supports:
//   - Direct file paths: "app.wisp"
//   - Directory paths: "./pages"
//   - Recursive pattern: "./..."
func collectWispFiles(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		// Handle ./... recursive pattern
		if strings.HasSuffix(path, "/...") {
			root := strings.TrimSuffix(path, "/...")
			if root == "" {
				root = "."
			}

			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.HasSuffix(p, ".wisp") {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", root, err)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			// Collect all .wisp files in directory (non-recursive)
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", path, err)
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".wisp") {
					files = append(files, filepath.Join(path, entry.Name()))
				}
			}
		} else if strings.HasSuffix(path, ".wisp") {
			files = append(files, path)
		}
	}

	return files, nil
}

// outputFileName converts a .wisp filename to its output .jsx filename.
// Examples:
//
//	app.wisp     -> app.jsx
//	sign-up.wisp -> sign-up.jsx
func outputFileName(inputPath string) string {
	dir := filepath.Dir(inputPath)
	name := strings.TrimSuffix(filepath.Base(inputPath), ".wisp")
	return filepath.Join(dir, name+".jsx")
}
