package diskcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"golang.org/x/sync/errgroup"
)

// defaultRehydrateWorkers bounds parallel record decoding during startup.
const defaultRehydrateWorkers = 4

// rehydratedRecord pairs a decoded record with its on-disk identity.
type rehydratedRecord struct {
	locator   string
	key       string
	expiresAt time.Time
	size      int64
}

// rehydrate rebuilds the index from records already in storage. Records
// that cannot be read or decoded are dropped and their files deleted;
// expired records are removed. Only failure to enumerate the storage
// location itself aborts startup.
func (c *Cache) rehydrate(ctx context.Context, workers int) error {
	start := c.now()
	logger := c.logger.WithOperation(OpRehydrate)

	locators, err := c.store.List(ctx)
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeUnavailable, "cannot enumerate cache storage")
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	var mu sync.Mutex
	decoded := make([]rehydratedRecord, 0, len(locators))
	var corrupt int

	for _, locator := range locators {
		eg.Go(func() error {
			data, err := c.store.Read(egCtx, locator)
			if err != nil {
				if errors.Is(err, errRecordNotFound) {
					return nil
				}
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				logger.Warn(egCtx, "dropping unreadable record", "locator", locator, "error", err)
				c.dropRecord(egCtx, logger, locator)
				return nil
			}
			rec, err := c.codec.Decode(data)
			if err != nil {
				logger.Warn(egCtx, "dropping corrupt record", "locator", locator, "error", err)
				c.dropRecord(egCtx, logger, locator)
				mu.Lock()
				corrupt++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			decoded = append(decoded, rehydratedRecord{
				locator:   locator,
				key:       rec.Key,
				expiresAt: rec.Expiry(),
				size:      int64(len(data)),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("rehydration interrupted: %w", err)
	}

	var expired, strays int
	now := c.now()
	for _, rec := range decoded {
		if now.After(rec.expiresAt) {
			c.dropRecord(ctx, logger, rec.locator)
			expired++
			continue
		}
		// Two records with the same key mean a replace was interrupted
		// before the old file was deleted. Keep the later expiry; the
		// locator breaks ties so the survivor does not depend on decode
		// order.
		if existing, ok := c.index.Get(rec.key); ok {
			keepExisting := existing.ExpiresAt.After(rec.expiresAt) ||
				(existing.ExpiresAt.Equal(rec.expiresAt) && existing.Locator > rec.locator)
			if keepExisting {
				c.dropRecord(ctx, logger, rec.locator)
				strays++
				continue
			}
		}
		prev, replaced := c.index.Put(rec.key, Descriptor{
			Locator:   rec.locator,
			ExpiresAt: rec.expiresAt,
			Size:      rec.size,
		})
		if replaced {
			c.dropRecord(ctx, logger, prev.Locator)
			strays++
		}
	}

	logger.Info(ctx, "cache rehydrated",
		"entries", c.index.Len(),
		"size", c.index.Size(),
		"corrupt", corrupt,
		"expired", expired,
		"strays", strays,
		"duration_ms", c.now().Sub(start).Milliseconds(),
	)
	return nil
}

// dropRecord deletes a record that will not be indexed. Failures are logged
// only; a leftover file is swept by the next full Reset.
func (c *Cache) dropRecord(ctx context.Context, logger *Logger, locator string) {
	if err := c.store.Delete(ctx, locator); err != nil {
		logger.Warn(ctx, "failed to delete dropped record", "locator", locator, "error", err)
	}
}
