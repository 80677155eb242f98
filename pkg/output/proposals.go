package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/tally"
	"github.com/fatih/color"
)

// RelativeTime renders the age of t the way the feed shows it: "now",
// "12min", "3h" or "5d".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dmin", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
}

// PrintProposals prints a feed page in the configured format
func PrintProposals(items []models.Proposal) error {
	return printProposals(GetOutputFormat(), items, time.Now())
}

func printProposals(format OutputFormat, items []models.Proposal, now time.Time) error {
	switch format {
	case FormatJSON:
		if items == nil {
			items = []models.Proposal{}
		}
		return printJSON(map[string]interface{}{"proposals": items})
	case FormatTable:
		rows := make([][]string, 0, len(items))
		for _, p := range items {
			rows = append(rows, []string{
				p.ID,
				truncate(p.Title, 40),
				p.Author.Name,
				string(p.Author.Species),
				strconv.Itoa(p.LikeCount()),
				strconv.Itoa(p.DislikeCount()),
				strconv.Itoa(len(p.Comments)),
				RelativeTime(p.CreatedAt, now),
			})
		}
		printTable([]string{"ID", "TITLE", "AUTHOR", "SPECIES", "UP", "DOWN", "COMMENTS", "AGE"}, rows)
		return nil
	default:
		if len(items) == 0 {
			PrintInfo("No proposals match this feed.")
			return nil
		}
		for i, p := range items {
			if i > 0 {
				fmt.Fprintln(Out)
			}
			printProposalText(p, now)
		}
		return nil
	}
}

func printProposalText(p models.Proposal, now time.Time) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintln(Out, p.Title)
	faint.Fprintf(Out, "%s · %s (%s) · %s\n", p.ID, p.Author.Name, p.Author.Species, RelativeTime(p.CreatedAt, now))
	if p.Body != "" {
		fmt.Fprintln(Out, p.Body)
	}
	for _, m := range []struct {
		label, url string
	}{
		{"image", p.Media.Image},
		{"video", p.Media.Video},
		{"link", p.Media.Link},
		{"file", p.Media.File},
	} {
		if m.url != "" {
			faint.Fprintf(Out, "  %s: %s\n", m.label, m.url)
		}
	}
	fmt.Fprintf(Out, "  %s %d  %s %d  comments %d\n",
		color.GreenString("▲"), p.LikeCount(),
		color.RedString("▼"), p.DislikeCount(),
		len(p.Comments))
}

// PrintTally prints a species breakdown and decision
func PrintTally(b tally.Breakdown, d tally.Decision) error {
	return printTally(GetOutputFormat(), b, d)
}

func printTally(format OutputFormat, b tally.Breakdown, d tally.Decision) error {
	if format == FormatJSON {
		return printJSON(map[string]interface{}{"breakdown": b, "decision": d})
	}

	rows := make([][]string, 0, len(models.AllSpecies))
	for _, sp := range models.AllSpecies {
		c := b.BySpecies[sp]
		rows = append(rows, []string{string(sp), strconv.Itoa(c.Likes), strconv.Itoa(c.Dislikes)})
	}
	printTable([]string{"SPECIES", "UP", "DOWN"}, rows)

	fmt.Fprintf(Out, "Approval: %d%%\n", b.Approval)
	status := color.RedString(strings.ToUpper(d.Status))
	if d.Accepted() {
		status = color.GreenString(strings.ToUpper(d.Status))
	}
	fmt.Fprintf(Out, "Decision (%s, threshold %.0f%%): %s  up %.2f / down %.2f\n",
		d.Level, d.Threshold*100, status, d.Up, d.Down)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
