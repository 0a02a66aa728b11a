package cmd

import (
	"alertscope/threat"

	"github.com/spf13/cobra"
)

func newTaxonomyCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "taxonomy",
		Aliases: []string{"rules"},
		Short:   "Print the classification rules in evaluation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax := threat.DefaultTaxonomy()
			if global.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), tax.Rules())
			}
			renderTaxonomy(cmd.OutOrStdout(), tax)
			return nil
		},
	}
}
