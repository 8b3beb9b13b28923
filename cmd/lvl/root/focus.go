package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newFocusCmd() *cobra.Command {
	var taskID int64
	var eventID string

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Record a finished focus session",
		Long: fmt.Sprintf(`Record a finished focus session and earn %d XP.

The optional --task names what you worked on; it stays pending. Pass
--event with a UUID to make a retried call count once.`, engine.FocusSessionXP),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CompleteFocusSession(ctx, cfg.User, engine.FocusInput{TaskID: taskID, EventID: eventID})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n",
				ui.Good.Render(ui.IconBolt+" Focus session"),
				ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPAwarded)),
				ui.Muted.Render(fmt.Sprintf("(session %d)", res.Sessions)))
			if res.LevelUp {
				fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", res.State.Level))
			}
			if res.LongBreakDue() {
				fmt.Fprintln(out, ui.Muted.Render("Cycle done, take a long break."))
			} else {
				fmt.Fprintln(out, ui.Muted.Render("Take a short break."))
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&taskID, "task", "t", 0, "Task worked on (optional)")
	cmd.Flags().StringVar(&eventID, "event", "", "Event UUID for idempotent retries")
	return cmd
}
