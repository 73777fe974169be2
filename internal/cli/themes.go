package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/workcard/pkg/theme"
)

// themesCommand lists the theme variants.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List theme variants and their palettes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, StyleTitle.Render("Themes"))
			for _, th := range theme.All() {
				fmt.Fprintf(w, "  %s%s%s %s %s\n",
					swatch(theme.Hex(th.Primary)),
					swatch(theme.Hex(th.Secondary)),
					swatch(theme.Hex(th.Accent)),
					StyleHighlight.Width(10).Render(th.Name),
					StyleDim.Render(th.Pattern.String()+" pattern"))
			}
			printDetail("Pass a name with --variant, or leave it empty to pick by category.")
		},
	}
}
