// Package pkg provides the core libraries for databroom data cleaning.
//
// # Overview
//
// Databroom loads a table from a file, applies named cleaning operations
// while keeping an undoable history, and turns that history into an
// equivalent Python or R script. The pkg directory is organized into four
// main areas:
//
//  1. [table] and [io] - The in-memory table and its file formats
//  2. [ops] and [history] - The operation catalog and the call records
//  3. [pipeline] - Orchestration (load → clean → write) with undo
//  4. [codegen] and [recipe] - Exporting a history as code or as a recipe
//
// # Architecture
//
// The typical data flow through databroom:
//
//	CSV / TSV / XLSX / JSON file
//	         ↓
//	    [io] package (decode, infer column types; [cache] skips re-decoding)
//	         ↓
//	    [pipeline] package (apply [ops] operations, record [history])
//	         ↓
//	    [io] + [codegen] + [recipe] (cleaned data, script, replayable recipe)
//
// # Quick Start
//
// Clean a file and generate the pandas script that does the same:
//
//	import (
//	    "github.com/databroom/databroom/pkg/codegen"
//	    "github.com/databroom/databroom/pkg/history"
//	    "github.com/databroom/databroom/pkg/io"
//	    "github.com/databroom/databroom/pkg/ops"
//	    "github.com/databroom/databroom/pkg/pipeline"
//	)
//
//	t, _ := io.Read("customers.csv", io.ReadOptions{})
//	p := pipeline.New(t, ops.Default())
//	p.Execute("clean_all", history.Args{})
//	p.Execute("drop_duplicates", history.Args{})
//
//	io.Write("customers_clean.csv", p.Current())
//	codegen.WriteFile("clean.py", codegen.Options{
//	    Lang:   codegen.Python,
//	    Input:  "customers.csv",
//	    Output: "customers_clean.csv",
//	}, p.History())
//
// # Main Packages
//
// [table] - Rectangular table of typed cells (string, int64, float64, bool,
// or nil for missing values). Operations never modify their input table.
//
// [io] - Readers and writers for CSV, TSV, XLSX and JSON with column type
// inference, plus the split JSON encoding used by the cache.
//
// [ops] - The registry of cleaning operations with declared parameters,
// argument binding and the descriptors the CLI derives its flags from.
//
// [history] - Call records and the Recordable contract.
//
// [pipeline] - The undoable Pipeline and the Runner used by the CLI.
//
// [codegen] - Python (pandas) and R (dplyr) script generation.
//
// [recipe] - TOML and YAML recipe files for replaying a history.
//
// [cache] - File and null caches for decoded tables.
//
// [observability] - Hooks for pipeline steps and cache lookups.
//
// [errors] - Coded errors and input validation helpers.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/pipeline/...    # Specific package
//
// [table]: https://pkg.go.dev/github.com/databroom/databroom/pkg/table
// [io]: https://pkg.go.dev/github.com/databroom/databroom/pkg/io
// [ops]: https://pkg.go.dev/github.com/databroom/databroom/pkg/ops
// [history]: https://pkg.go.dev/github.com/databroom/databroom/pkg/history
// [pipeline]: https://pkg.go.dev/github.com/databroom/databroom/pkg/pipeline
// [codegen]: https://pkg.go.dev/github.com/databroom/databroom/pkg/codegen
// [recipe]: https://pkg.go.dev/github.com/databroom/databroom/pkg/recipe
// [cache]: https://pkg.go.dev/github.com/databroom/databroom/pkg/cache
// [observability]: https://pkg.go.dev/github.com/databroom/databroom/pkg/observability
// [errors]: https://pkg.go.dev/github.com/databroom/databroom/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/databroom/databroom/pkg/buildinfo
package pkg
