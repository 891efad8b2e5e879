package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/frecency"
)

// Committer performs the side effect of choosing an item.
type Committer interface {
	Commit(ctx context.Context, item desktop.Item) error
}

// DmenuCommitter prints the chosen item's raw line. Only the first commit
// is written.
type DmenuCommitter struct {
	W io.Writer

	once sync.Once
}

// Commit writes item.Exec followed by a newline.
func (c *DmenuCommitter) Commit(_ context.Context, item desktop.Item) error {
	var err error
	c.once.Do(func() {
		_, err = fmt.Fprintln(c.W, item.Exec)
	})
	return err
}

// Spawner starts an item's command without waiting for it.
type Spawner interface {
	Spawn(item desktop.Item) error
}

// DrunCommitter records the launch in the frecency map, persists the map
// and spawns the command. Persistence and spawn failures are logged and
// otherwise ignored.
type DrunCommitter struct {
	Frecency frecency.Map
	Store    frecency.Store
	Spawner  Spawner
	Logger   *slog.Logger
	Now      func() time.Time
}

// Commit never returns an error; launching is best effort.
func (c *DrunCommitter) Commit(ctx context.Context, item desktop.Item) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	if c.Frecency != nil {
		c.Frecency.Touch(item.ID, now())
		if c.Store != nil {
			if err := c.Store.Save(ctx, c.Frecency); err != nil {
				logger.Warn("failed to save frecency state", "error", err)
			}
		}
	}

	if c.Spawner != nil {
		if err := c.Spawner.Spawn(item); err != nil {
			logger.Warn("failed to launch", "item", item.Name, "error", err)
		}
	}
	return nil
}
