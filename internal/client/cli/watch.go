package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/connectivity"
	"github.com/iudanet/tallykeeper/internal/client/sync"
)

func (c *Cli) runWatch(ctx context.Context) error {
	if c.session == nil {
		return fmt.Errorf("watch requires an open session")
	}

	c.io.Println("=== Watching ===")
	c.io.Println("Syncing on local and remote changes. Press Ctrl+C to stop.")
	c.io.Println()

	c.session.OnSync(c.printSyncEvent)
	err := c.session.Watch(ctx, c.printConnectivity)
	if err != nil {
		return syncFailed(err)
	}
	c.io.Println()
	c.io.Println("Stopped.")
	return nil
}

func (c *Cli) printSyncEvent(result *sync.Result, err error) {
	at := RenderMuted(time.Now().Format("15:04:05"))
	switch {
	case err != nil:
		c.io.Printf("%s %s %s\n", at, RenderFail("✗"), explain(err))
	case result.UpToDate:
		return
	case result.Outcome == sync.OutcomeCreatedRemote:
		c.io.Printf("%s %s remote document created (revision %d)\n", at, RenderPass("✓"), result.Revision)
	case result.Wrote && result.Pulled:
		c.io.Printf("%s %s merged with remote (revision %d)\n", at, RenderPass("✓"), result.Revision)
	case result.Wrote:
		c.io.Printf("%s %s pushed (revision %d)\n", at, RenderPass("✓"), result.Revision)
	case result.Pulled:
		c.io.Printf("%s %s pulled (revision %d)\n", at, RenderPass("✓"), result.Revision)
	}
}

func (c *Cli) printConnectivity(event connectivity.Event) {
	at := RenderMuted(event.At.Local().Format("15:04:05"))
	if event.Online {
		c.io.Printf("%s %s back online\n", at, RenderPass("●"))
		return
	}
	c.io.Printf("%s %s offline: %v\n", at, RenderWarn("●"), event.Err)
}
