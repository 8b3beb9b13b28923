package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <id>",
		Short: "Mark a completed task as pending again",
		Long: `Put a completed task back to pending.

XP already awarded is kept. Completing the task again awards its XP again.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			_, err := parseID(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := parseID(args[0])
			before, err := svc.TaskRepo().Get(ctx, cfg.User, id)
			if err != nil {
				return err
			}
			res, err := svc.UncompleteTask(ctx, cfg.User, id)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("#%d", res.TaskID)
			if before != nil {
				name = fmt.Sprintf("%s #%d %s", ui.KindIcon(before.Kind), res.TaskID, before.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Warn.Render(ui.IconUndo+" Reopened"), name,
				ui.Muted.Render(fmt.Sprintf("(XP kept, total %d)", res.TotalXP)))
			return nil
		},
	}

	return cmd
}
