package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scholarship-workflow/internal/common/logger"
)

const (
	committeeKeyFormat = "scholarship:%s:committee"
	reviewerKeyFormat  = "scholarship:%s:reviewers"

	// Unknown scholarship ids are cached as an empty marker so repeated
	// lookups do not hammer the database.
	notFoundMarker = "__not_found__"
)

// Cached wraps a directory with a redis cache-aside layer. Cache failures
// are logged and the call falls through to the underlying directory.
type Cached struct {
	next   ScholarshipDirectory
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewCached(next ScholarshipDirectory, client *redis.Client, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: next, client: client, ttl: ttl, log: log}
}

func (c *Cached) AssignedCommitteeIDs(ctx context.Context, scholarshipID string) ([]string, error) {
	key := fmt.Sprintf(committeeKeyFormat, scholarshipID)
	return c.lookup(ctx, key, scholarshipID, c.next.AssignedCommitteeIDs)
}

func (c *Cached) AssignedReviewerIDs(ctx context.Context, scholarshipID string) ([]string, error) {
	key := fmt.Sprintf(reviewerKeyFormat, scholarshipID)
	return c.lookup(ctx, key, scholarshipID, c.next.AssignedReviewerIDs)
}

func (c *Cached) lookup(ctx context.Context, key, scholarshipID string,
	fetch func(context.Context, string) ([]string, error)) ([]string, error) {

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == notFoundMarker {
			return nil, ErrScholarshipNotFound
		}
		var ids []string
		if jsonErr := json.Unmarshal([]byte(cached), &ids); jsonErr == nil {
			return ids, nil
		}
		c.log.Warn("corrupt directory cache entry, refetching", map[string]interface{}{
			"key": key,
		})
	case err != redis.Nil:
		c.log.Warn("directory cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	ids, err := fetch(ctx, scholarshipID)
	if err == ErrScholarshipNotFound {
		c.set(ctx, key, notFoundMarker)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	payload, jsonErr := json.Marshal(ids)
	if jsonErr == nil {
		c.set(ctx, key, string(payload))
	}
	return ids, nil
}

func (c *Cached) set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("directory cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Invalidate drops cached assignment sets for a scholarship. Called when
// assignments change out of band.
func (c *Cached) Invalidate(ctx context.Context, scholarshipID string) {
	keys := []string{
		fmt.Sprintf(committeeKeyFormat, scholarshipID),
		fmt.Sprintf(reviewerKeyFormat, scholarshipID),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("directory cache invalidation failed", map[string]interface{}{
			"scholarship_id": scholarshipID,
			"error":          err.Error(),
		})
	}
}
