package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/tallykeeper/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context, force bool) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	result, err := c.syncService.Sync(ctx, force)
	if err != nil {
		return syncFailed(err)
	}

	switch {
	case result.Outcome == sync.OutcomeCancelled:
		c.io.Println("Synchronization cancelled.")
		return nil
	case result.Outcome == sync.OutcomeCreatedRemote:
		c.io.Printf("%s Remote document created from local data\n", RenderPass("✓"))
	case result.UpToDate:
		c.io.Printf("%s Already up to date\n", RenderPass("✓"))
	default:
		c.io.Printf("%s Synchronization completed successfully!\n", RenderPass("✓"))
	}

	c.io.Println()
	c.io.Printf("Revision:           %d\n", result.Revision)
	c.io.Printf("Pulled from remote: %s\n", yesNo(result.Pulled))
	c.io.Printf("Pushed to remote:   %s\n", yesNo(result.Wrote))
	if result.Retried {
		c.io.Println("Conflict resolved:  yes")
	}
	if result.Pending {
		c.io.Println()
		c.io.Printf("%s Local changes were made during sync, run sync again\n", RenderWarn("⚠"))
	}
	return nil
}

func (c *Cli) runPush(ctx context.Context) error {
	c.io.Println("=== Push ===")
	c.io.Println()

	result, err := c.syncService.Push(ctx)
	if err != nil {
		return syncFailed(err)
	}
	if result.Outcome == sync.OutcomeCancelled {
		c.io.Println("Push cancelled.")
		return nil
	}
	c.io.Printf("%s Remote document replaced with local data (revision %d)\n", RenderPass("✓"), result.Revision)
	return nil
}

func (c *Cli) runPull(ctx context.Context) error {
	c.io.Println("=== Pull ===")
	c.io.Println()

	result, err := c.syncService.Pull(ctx)
	if err != nil {
		return syncFailed(err)
	}
	if result.Outcome == sync.OutcomeCancelled {
		c.io.Println("Pull cancelled.")
		return nil
	}
	c.io.Printf("%s Local data replaced with remote document (revision %d)\n", RenderPass("✓"), result.Revision)
	return nil
}

func syncFailed(err error) error {
	return fmt.Errorf("synchronization failed: %s", explain(err))
}

// explain переводит ошибку синхронизации в понятное пользователю сообщение
func explain(err error) string {
	var syncErr *sync.Error
	if !errors.As(err, &syncErr) {
		return err.Error()
	}
	switch syncErr.Code {
	case sync.CodeConfigurationRequired:
		return "remote is not configured, run `tallykeeper remote set`"
	case sync.CodeUnauthorized:
		return "access denied, check the token or credentials of the remote"
	case sync.CodeNotFound:
		return "remote document does not exist, run `tallykeeper sync` to create it"
	case sync.CodeRateLimited:
		return "remote is rate limiting requests, try again later"
	case sync.CodeConflictUnresolved:
		return "another device kept changing the document, try again"
	case sync.CodeNetworkError:
		return "remote is unreachable, local changes are kept and will be sent later"
	case sync.CodeMalformedRemoteDocument:
		return fmt.Sprintf("remote document can not be read: %v", syncErr.Err)
	default:
		return syncErr.Error()
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
