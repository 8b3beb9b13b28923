package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id> [id...]",
		Short: "Complete one or more tasks",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("id is required")
			}
			for _, a := range args {
				if _, err := parseID(a); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, _ := parseID(a)
				ids = append(ids, id)
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := svc.CompleteTasks(ctx, cfg.User, ids)
			if n := printCompletions(cmd, results); err != nil && n > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" Some tasks were not completed; XP above was credited"))
			}
			return err
		},
	}

	return cmd
}

// printCompletions prints each committed completion and the latest level,
// and returns how many it printed. Nil entries are ids that failed.
func printCompletions(cmd *cobra.Command, results []*engine.CompleteResult) int {
	out := cmd.OutOrStdout()
	var latest *engine.CompleteResult
	n := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		n++
		fmt.Fprintf(out, "%s #%d %s\n",
			ui.Good.Render(ui.IconDone+" Completed"), res.TaskID,
			ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPAwarded)))
		if res.LevelUp {
			fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
		}
		if latest == nil || res.TotalXP > latest.TotalXP {
			latest = res
		}
	}
	if latest == nil {
		return 0
	}
	fmt.Fprintf(out, "%s %s\n",
		ui.LabelValue("Level", latest.State.Level),
		ui.Muted.Render(fmt.Sprintf("(%d/%d XP, total %d)", latest.State.CurrentLevelXP, latest.State.NextLevelXP, latest.TotalXP)))
	return n
}
