// =============================================================================
// SEPA Batch Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the SEPA Batch Generator CLI. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   sepagen generate IN OUT  - Build a pain.001 batch from a bank export
//   sepagen validate [TMPL]  - Preflight a template document
//   sepagen version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/jhartog/sepagen/cmd"
)

// main simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
