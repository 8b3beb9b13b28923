package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed vs failed tasks and the last week of XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := svc.Stats(ctx, cfg.User)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "Performance"))
			for _, kind := range []engine.TaskKind{engine.TaskKindDaily, engine.TaskKindCalendar, engine.TaskKindCustom} {
				ks := st.ByKind[kind]
				fmt.Fprintf(out, "- %s %-9s %s %s %s\n", ui.KindIcon(string(kind)), kind,
					ui.Good.Render(fmt.Sprintf("%d done", ks.Completed)),
					ui.Bad.Render(fmt.Sprintf("%d failed", ks.Failed)),
					ui.Muted.Render(fmt.Sprintf("%d pending", ks.Pending)))
			}
			fmt.Fprintln(out, ui.LabelValue("Completion rate", fmt.Sprintf("%.0f%%", st.CompletionRate*100)))
			fmt.Fprintln(out, ui.LabelValue("Focus sessions", st.FocusSessions))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("XP, last %d days", engine.StatsWindowDays)))
			peak := 0
			for _, d := range st.Week {
				if d.XP > peak {
					peak = d.XP
				}
			}
			for _, d := range st.Week {
				bar := ""
				if peak > 0 {
					bar = strings.Repeat("█", d.XP*20/peak)
				}
				fmt.Fprintf(out, "%s %s %s\n", ui.Muted.Render(d.Date), ui.Gold.Render(fmt.Sprintf("%-20s", bar)),
					fmt.Sprintf("%d XP (%d)", d.XP, d.Completions))
			}
			return nil
		},
	}

	return cmd
}
