// =============================================================================
// SEPA Batch Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, a preflight for template
// documents. It checks that every node the builder fills is present and that
// the document carries exactly one payment block with a single sample
// transaction, without building anything.
//
// COMMAND USAGE:
//   sepagen validate [TEMPLATE]
//
// Issues print one per line with their severity. The command exits non-zero
// when the template has at least one error; warnings alone pass.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhartog/sepagen/internal/sepa"
	"github.com/jhartog/sepagen/internal/xmltree"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [TEMPLATE]",
	Short: "Preflight a template document",
	Long: `The validate command loads a pain.001.001.03 template and checks it has
everything a build needs: the group header leaves, the debtor fields, one
payment block and one sample transaction block with its transaction leaves.

Run it after editing a template, before the template is used in anger.`,

	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate checks one template and reports its issues.
func runValidate(cmd *cobra.Command, args []string) error {
	path := defaultTemplate
	if len(args) == 1 {
		path = args[0]
	}

	doc, err := xmltree.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to load template %s: %w", path, err)
	}

	result := sepa.CheckTemplate(doc)
	out := cmd.OutOrStdout()
	for _, issue := range result.Issues {
		fmt.Fprintln(out, issue.String())
	}

	if !result.OK() {
		return fmt.Errorf("template %s has %d error(s)", path, result.Errors)
	}
	if result.Warnings > 0 {
		fmt.Fprintf(out, "%s: usable, %d warning(s)\n", path, result.Warnings)
	} else {
		fmt.Fprintf(out, "%s: ok\n", path)
	}
	return nil
}
