package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scholarship-workflow/internal/models"
)

func TestMemory_RecordsInOrder(t *testing.T) {
	rec := &Memory{}
	ctx := context.Background()

	for _, to := range []models.ApplicationStatus{
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusPendingApproval,
		models.StatusApproved,
	} {
		err := rec.Record(ctx, TransitionEvent{
			ApplicationID: "app-1",
			To:            to,
			At:            time.Now(),
		})
		assert.NoError(t, err)
	}

	events := rec.Events()
	assert.Len(t, events, 4)
	assert.Equal(t, models.StatusSubmitted, events[0].To)
	assert.Equal(t, models.StatusApproved, events[3].To)
}

func TestMemory_ConcurrentRecord(t *testing.T) {
	rec := &Memory{}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rec.Record(ctx, TransitionEvent{ApplicationID: "app-1"})
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Events(), 16)
}
