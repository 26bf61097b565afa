package cli

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/iudanet/tallykeeper/internal/models"
)

func (c *Cli) runList(ctx context.Context, all bool) error {
	prefs, err := c.counters.Preferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	list, err := c.counters.List(ctx, all || prefs.ShowArchived)
	if err != nil {
		return fmt.Errorf("failed to list counters: %w", err)
	}

	if len(list) == 0 {
		c.io.Println("No counters yet. Add one with: tallykeeper add <name>")
		return nil
	}

	c.io.Println(RenderTitle("Counters"))
	for i, counter := range list {
		line := fmt.Sprintf("%2d. %s  %s  %s", i+1, countStyle.Render(fmt.Sprint(counter.Count)), counter.Name, RenderMuted(shortID(counter.ID)))
		if counter.Archived {
			line += " " + RenderMuted("(archived)")
		}
		c.io.Println(line)
	}
	return nil
}

func (c *Cli) runHistory(ctx context.Context, ref string, limit int) error {
	counter, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}

	tmpl, err := template.New("counter").Parse(counterTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, counter); err != nil {
		return fmt.Errorf("failed to render counter: %w", err)
	}
	c.io.Println(sb.String())

	if len(counter.Records) == 0 {
		c.io.Println("No records.")
		return nil
	}

	records := counter.Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	c.io.Println("History:")
	for i, r := range records {
		c.io.Println(formatRecord(i+1, r))
	}
	if len(records) < len(counter.Records) {
		c.io.Printf("  ... %d more\n", len(counter.Records)-len(records))
	}
	return nil
}

func formatRecord(n int, r models.Record) string {
	delta := RenderMuted("note")
	if r.Delta > 0 {
		delta = RenderPass(fmt.Sprintf("+%d", r.Delta))
	}
	line := fmt.Sprintf("  %3d  %s  %s", n, r.TS.Local().Format("2006-01-02 15:04:05"), delta)
	if r.Note != "" {
		line += "  " + r.Note
	}
	return line
}
