package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iudanet/tallykeeper/internal/document"
)

func (c *Cli) runExport(ctx context.Context, path, format string) error {
	format, err := document.NormalizeFormat(formatFor(path, format))
	if err != nil {
		return err
	}
	data, err := c.counters.Export(ctx, format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if path == "" || path == "-" {
		_, err := c.io.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	c.io.Printf("%s Exported to %s (%s)\n", RenderPass("✓"), path, format)
	return nil
}

func (c *Cli) runImport(ctx context.Context, path, format string, replace bool) error {
	format, err := document.NormalizeFormat(formatFor(path, format))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if replace {
		ok, err := c.io.Confirm("Replace ALL local counters with the contents of " + path + "?")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			c.io.Println("Import cancelled.")
			return nil
		}
	}

	result, err := c.counters.Import(ctx, data, format, replace)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	c.io.Printf("%s Imported %d counters\n", RenderPass("✓"), result.Imported)
	if result.Replaced {
		c.io.Println("Local data replaced.")
	} else {
		c.io.Printf("New counters:   %d\n", result.Added)
	}
	c.io.Printf("Total counters: %d\n", result.Total)
	return nil
}

// formatFor возвращает явно заданный формат или формат по расширению файла
func formatFor(path, format string) string {
	if format != "" {
		return format
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(ext) {
	case document.FormatYAML, "yml", document.FormatTOML:
		return ext
	default:
		return document.FormatJSON
	}
}
