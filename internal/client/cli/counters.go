package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/counters"
	"github.com/iudanet/tallykeeper/internal/models"
)

func (c *Cli) runAdd(ctx context.Context, name string) error {
	counter, err := c.counters.Add(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to add counter: %w", err)
	}
	c.io.Printf("%s Counter %s added (id %s)\n", RenderPass("✓"), RenderAccent(counter.Name), shortID(counter.ID))
	return nil
}

func (c *Cli) runIncrement(ctx context.Context, ref string, delta int, note string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	counter, err := c.counters.Increment(ctx, target.ID, delta, note)
	if err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}
	c.io.Printf("%s %s: %d (+%d)\n", RenderPass("✓"), counter.Name, counter.Count, delta)
	return nil
}

func (c *Cli) runNote(ctx context.Context, ref, note string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	if _, err := c.counters.AddNote(ctx, target.ID, note); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	c.io.Printf("%s Note added to %s\n", RenderPass("✓"), target.Name)
	return nil
}

func (c *Cli) runUndo(ctx context.Context, ref string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	counter, undone, err := c.counters.Undo(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("failed to undo: %w", err)
	}
	if !undone {
		c.io.Printf("%s Nothing to undo for %s\n", RenderWarn("⚠"), target.Name)
		return nil
	}
	c.io.Printf("%s %s: %d\n", RenderPass("✓"), counter.Name, counter.Count)
	return nil
}

func (c *Cli) runEditNote(ctx context.Context, ref, recordRef, note string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	ts, err := parseRecordRef(target, recordRef)
	if err != nil {
		return err
	}
	if _, err := c.counters.EditNote(ctx, target.ID, ts, note); err != nil {
		return fmt.Errorf("failed to edit note: %w", err)
	}
	c.io.Printf("%s Note updated\n", RenderPass("✓"))
	return nil
}

func (c *Cli) runDeleteRecord(ctx context.Context, ref, recordRef string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	ts, err := parseRecordRef(target, recordRef)
	if err != nil {
		return err
	}
	counter, err := c.counters.DeleteRecord(ctx, target.ID, ts)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	c.io.Printf("%s Record deleted, %s: %d\n", RenderPass("✓"), counter.Name, counter.Count)
	return nil
}

func (c *Cli) runRename(ctx context.Context, ref, name string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	counter, err := c.counters.Rename(ctx, target.ID, name)
	if err != nil {
		return fmt.Errorf("failed to rename counter: %w", err)
	}
	c.io.Printf("%s Renamed %s to %s\n", RenderPass("✓"), target.Name, RenderAccent(counter.Name))
	return nil
}

func (c *Cli) runArchive(ctx context.Context, ref string, archived bool) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	if _, err := c.counters.SetArchived(ctx, target.ID, archived); err != nil {
		return fmt.Errorf("failed to update counter: %w", err)
	}
	if archived {
		c.io.Printf("%s %s archived\n", RenderPass("✓"), target.Name)
	} else {
		c.io.Printf("%s %s restored from archive\n", RenderPass("✓"), target.Name)
	}
	return nil
}

func (c *Cli) runMove(ctx context.Context, ref, direction string) error {
	dir, err := counters.ParseDirection(direction)
	if err != nil {
		return err
	}
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	counter, err := c.counters.Move(ctx, target.ID, dir)
	if err != nil {
		return fmt.Errorf("failed to move counter: %w", err)
	}
	c.io.Printf("%s %s is now at position %d\n", RenderPass("✓"), counter.Name, counter.Order+1)
	return nil
}

func (c *Cli) runReorder(ctx context.Context, ref string, position int) error {
	if position < 1 {
		return fmt.Errorf("position must be 1 or greater")
	}
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	counter, err := c.counters.Reorder(ctx, target.ID, position-1)
	if err != nil {
		return fmt.Errorf("failed to reorder counter: %w", err)
	}
	c.io.Printf("%s %s is now at position %d\n", RenderPass("✓"), counter.Name, counter.Order+1)
	return nil
}

func (c *Cli) runReset(ctx context.Context, ref string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}
	ok, err := c.io.Confirm(fmt.Sprintf("Reset %s (%d records)?", target.Name, len(target.Records)))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		c.io.Println("Reset cancelled.")
		return nil
	}
	if _, err := c.counters.Reset(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to reset counter: %w", err)
	}
	c.io.Printf("%s %s reset to 0\n", RenderPass("✓"), target.Name)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, ref string) error {
	target, err := c.counters.Resolve(ctx, ref)
	if err != nil {
		return resolveError(ref, err)
	}

	c.io.Println("About to delete:")
	c.io.Printf("  Name:    %s\n", target.Name)
	c.io.Printf("  Count:   %d\n", target.Count)
	c.io.Printf("  Records: %d\n", len(target.Records))
	c.io.Println()

	ok, err := c.io.Confirm("Are you sure you want to delete this counter?")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		c.io.Println("Deletion cancelled.")
		return nil
	}
	if err := c.counters.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to delete counter: %w", err)
	}
	c.io.Printf("%s Counter %s deleted\n", RenderPass("✓"), target.Name)
	return nil
}

func (c *Cli) runClear(ctx context.Context) error {
	ok, err := c.io.Confirm("Delete ALL counters on every synced device?")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		c.io.Println("Clear cancelled.")
		return nil
	}
	n, err := c.counters.ClearAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear counters: %w", err)
	}
	c.io.Printf("%s %d counters deleted\n", RenderPass("✓"), n)
	return nil
}

// parseRecordRef принимает номер записи из history (1 - самая свежая)
// или точное время записи в RFC3339Nano.
func parseRecordRef(counter *models.Counter, ref string) (time.Time, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(counter.Records) {
			return time.Time{}, fmt.Errorf("record #%d not found (counter has %d records)", n, len(counter.Records))
		}
		return counter.Records[n-1].TS, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, ref)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid record reference %q: use a number from history or an RFC3339 timestamp", ref)
	}
	return ts, nil
}

func resolveError(ref string, err error) error {
	switch {
	case errors.Is(err, counters.ErrCounterNotFound):
		return fmt.Errorf("counter not found: %s", ref)
	case errors.Is(err, counters.ErrAmbiguousRef):
		return fmt.Errorf("%q matches several counters, use a longer id", ref)
	default:
		return fmt.Errorf("failed to find counter: %w", err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
