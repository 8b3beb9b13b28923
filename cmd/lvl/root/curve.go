package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newCurveCmd() *cobra.Command {
	var levels int

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the XP needed per level",
		RunE: func(cmd *cobra.Command, args []string) error {
			if levels < 1 {
				return fmt.Errorf("levels must be >= 1, got %d", levels)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", ui.Key.Render(fmt.Sprintf("%-6s %10s %12s", "level", "span", "cumulative")))
			for l := 1; l <= levels; l++ {
				span, err := engine.RequiredXPForLevel(l)
				if err != nil {
					return err
				}
				total, err := engine.TotalXPForLevel(l)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-6d %10d %12s\n", l, span, ui.Muted.Render(fmt.Sprint(total)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&levels, "levels", "n", 10, "Number of levels to print")
	return cmd
}
