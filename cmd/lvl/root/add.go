package root

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newAddCmd() *cobra.Command {
	var kind string
	var priority string
	var color string
	var date string
	var at string
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a daily task, calendar event or task card",
		Example: `  lvl add "Stretch" --kind daily
  lvl add "Dentist" --kind calendar --date 2026-11-02 --time 09:30 --color red
  lvl add "Ship release" --priority high --due 2026-11-05T17:00:00Z`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			k, err := engine.ParseTaskKind(kind)
			if err != nil {
				return err
			}
			in := engine.CreateTaskInput{
				Kind:  k,
				Title: args[0],
				Color: color,
				Date:  date,
				Time:  at,
			}
			if strings.TrimSpace(priority) != "" {
				in.Priority = engine.ParsePriority(priority)
			}
			if due != "" {
				t, err := time.Parse(time.RFC3339, due)
				if err != nil {
					return fmt.Errorf("due must be RFC3339: %w", err)
				}
				in.DueAt = &t
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CreateTask(ctx, cfg.User, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s #%d %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"),
				ui.KindIcon(string(k)), res.TaskID, args[0],
				ui.PriorityText(string(res.Priority)),
				ui.Muted.Render(fmt.Sprintf("(+%d XP)", res.XPValue)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(engine.TaskKindCustom), "Task kind (daily|calendar|custom)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (low|medium|high); calendar events default from --color")
	cmd.Flags().StringVar(&color, "color", "", "Calendar color label (red|purple|yellow|green|blue|indigo)")
	cmd.Flags().StringVar(&date, "date", "", "Calendar date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&at, "time", "", "Calendar time (HH:MM)")
	cmd.Flags().StringVar(&due, "due", "", "Task card due time (RFC3339)")

	return cmd
}
