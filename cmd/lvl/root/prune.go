package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/ui"
)

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove daily tasks older than a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.PruneExpiredDaily(ctx, cfg.User)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d daily task(s)\n", ui.Muted.Render(ui.IconBroom+" Pruned"), n)
			return nil
		},
	}

	return cmd
}
