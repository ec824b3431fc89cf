// =============================================================================
// SEPA Batch Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sepagen)
//   ├── generateCmd (sepagen generate)
//   ├── validateCmd (sepagen validate)
//   └── versionCmd (sepagen version)
//
// The root command owns the persistent flags (--config, --verbose) and the
// logger: diagnostics go to stderr as JSON via slog, Info by default, Debug
// with --verbose. Stdout is reserved for command output, so summaries stay
// pipeable.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhartog/sepagen/internal/config"
)

// cfgFile holds the path to the profile configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// defaultTemplate is the template document used when neither a flag nor a
// profile names one.
const defaultTemplate = "sepa-template.xml"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sepagen",
	Short: "SEPA Batch Generator - Turn bank-export records into pain.001 batches",
	Long: `SEPA Batch Generator reads a row-oriented bank export (CSV or XLSX) and
populates a pain.001.001.03 credit-transfer template with one transaction
per row, producing a batch document ready for bank upload.

The template carries the document structure; the generator only fills in
the message header, the debtor identity and the per-transaction fields.
Amounts and IBANs travel into the document exactly as exported.

Example Usage:
  sepagen generate payments.csv batch.xml --profile acme
  sepagen generate payments.xlsx batch.xml --debtor-iban NL00RABO0000000001 ...
  sepagen validate my-template.xml      # preflight a custom template`,

	SilenceUsage:  true,
	SilenceErrors: true,

	// Logging is configured here so every subcommand inherits it once the
	// persistent flags are parsed.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the profile configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadConfigFile loads the profile file named by --config. A missing file at
// the default path just means no configuration; a missing file the user
// named explicitly is an error.
func loadConfigFile() (*config.File, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
			return nil, nil
		}
		return nil, err
	}
	slog.Debug("config loaded", "path", cfgFile, "profiles", len(cfg.Profiles))
	return cfg, nil
}
