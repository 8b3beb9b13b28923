package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"levelup/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP progress and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			total, st, err := svc.Progress(ctx, cfg.User)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status: "+cfg.User))
			level := strings.Join([]string{
				ui.LabelValue("Level", st.Level),
				ui.ProgressBar(st.Progress, 30) + " " +
					ui.Muted.Render(fmt.Sprintf("%d/%d XP (%.0f%%)", st.CurrentLevelXP, st.NextLevelXP, st.Progress*100)),
				ui.LabelValue("Total XP", fmt.Sprintf("%d (%d to level %d)", total, st.XPToNext(), st.Level+1)),
			}, "\n")
			fmt.Fprintln(out, ui.Panel.Render(level))
			fmt.Fprintln(out, "")

			achievements, err := svc.Achievements(ctx, cfg.User)
			if err != nil {
				return err
			}
			earned := 0
			for _, a := range achievements {
				if a.Earned {
					earned++
				}
			}
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, earned, len(achievements))))
			for _, a := range achievements {
				if a.Earned {
					fmt.Fprintf(out, "- %s %s %s\n", a.Icon, ui.Good.Render(a.Name), ui.Muted.Render(a.Description))
				} else {
					fmt.Fprintf(out, "- %s %s\n", ui.Muted.Render("🔒 "+a.Name), ui.Muted.Render(a.Description))
				}
			}
			return nil
		},
	}

	return cmd
}
