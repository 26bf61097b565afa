package cli

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

func (c *Cli) runStatus(ctx context.Context) error {
	st, err := c.status(ctx)
	if err != nil {
		return fmt.Errorf("failed to load status: %w", err)
	}

	view := *st
	if !view.Config.IsConfigured() {
		view.Config = nil
	}

	tmpl, err := template.New("status").Parse(statusTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, view); err != nil {
		return fmt.Errorf("failed to render status: %w", err)
	}
	c.io.Println(sb.String())

	if view.Config != nil && view.Meta.Pending {
		c.io.Printf("%s Local changes not synced yet, run: tallykeeper sync\n", RenderWarn("⚠"))
	}
	return nil
}
