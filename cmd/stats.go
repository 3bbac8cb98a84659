package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/store"
	"github.com/boostup/folio/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show visit statistics from the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := loadContent(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		stats, err := st.EventRepo().Stats(ctx)
		if err != nil {
			return err
		}

		n, _ := cmd.Flags().GetInt("recent")
		var recent []store.VisitEvent
		if n > 0 {
			recent, err = st.EventRepo().Recent(ctx, store.QueryOpts{Limit: n})
			if err != nil {
				return err
			}
		}

		writeStats(cmd.OutOrStdout(), stats, recent, c)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("recent", 0, "Also list the N most recent events")
}

func writeStats(w io.Writer, stats store.VisitStats, recent []store.VisitEvent, c *content.Content) {
	if stats.Events == 0 {
		fmt.Fprintln(w, "No visits recorded yet.")
		return
	}

	fmt.Fprintf(w, "%d events across %d sessions\n\n", stats.Events, stats.Sessions)

	kinds := newTable("Event", "Count")
	for _, k := range store.Kinds() {
		if n := stats.ByKind[k]; n > 0 {
			kinds.Row(string(k), strconv.Itoa(n))
		}
	}
	fmt.Fprintln(w, kinds.Render())

	if len(stats.ProjectViews) > 0 {
		ids := make([]string, 0, len(stats.ProjectViews))
		for id := range stats.ProjectViews {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := stats.ProjectViews[ids[i]], stats.ProjectViews[ids[j]]
			if a != b {
				return a > b
			}
			return ids[i] < ids[j]
		})

		views := newTable("Project", "Views")
		for _, id := range ids {
			views.Row(projectLabel(c, id), strconv.Itoa(stats.ProjectViews[id]))
		}
		fmt.Fprintln(w, views.Render())
	}

	if len(recent) > 0 {
		events := newTable("#", "Time", "Session", "Event", "Subject")
		for _, ev := range recent {
			events.Row(
				strconv.FormatInt(ev.Sequence, 10),
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				shortSession(ev.SessionID),
				string(ev.Kind),
				ev.Subject,
			)
		}
		fmt.Fprintln(w, events.Render())
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.Primary)
			}
			return s
		})
}

// projectLabel prefers the project title over its raw id.
func projectLabel(c *content.Content, id string) string {
	n, err := strconv.Atoi(id)
	if err != nil || c == nil {
		return id
	}
	p, err := c.Project(n)
	if err != nil {
		return id
	}
	return fmt.Sprintf("%d. %s", p.ID, p.Title)
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
