package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newListCmd() *cobra.Command {
	var showDone bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := svc.ListTasks(ctx, cfg.User)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			now := time.Now().UTC()
			shown := 0
			for _, kind := range []engine.TaskKind{engine.TaskKindDaily, engine.TaskKindCalendar, engine.TaskKindCustom} {
				header := false
				for _, t := range tasks {
					if t.Kind != string(kind) || (!showDone && t.Status == "done") {
						continue
					}
					if !header {
						fmt.Fprintln(out, ui.H2.Render(ui.KindIcon(t.Kind)+" "+string(kind)))
						header = true
					}
					xp, _ := engine.ComputeTaskXP(kind, engine.ParsePriority(t.Priority))
					line := fmt.Sprintf("  #%d %s  %s  %s  %s", t.ID, t.Title,
						ui.StatusText(t.Status, engine.IsExpired(t, now)),
						ui.PriorityText(t.Priority),
						ui.Muted.Render(fmt.Sprintf("+%d XP", xp)))
					if d, ok := engine.Deadline(t); ok {
						line += ui.Muted.Render("  due " + d.Local().Format("2006-01-02 15:04"))
					}
					fmt.Fprintln(out, line)
					shown++
				}
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no tasks)"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showDone, "all", "a", false, "Include completed tasks")
	return cmd
}
