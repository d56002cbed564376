package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/joshu-sajeev/stepform/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func queued(url, status string, sendAt time.Time) *models.QueuedWebhook {
	return &models.QueuedWebhook{
		WebhookURL: url,
		Payload:    datatypes.JSON([]byte(`{"event":"lead.created"}`)),
		Status:     status,
		SendAt:     sendAt,
	}
}

func TestWebhookRepository_CreateAndGet(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	item := queued("https://hooks.example.com/a", string(config.WebhookStatusPending), now)
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/a", got.WebhookURL)
	assert.Equal(t, string(config.WebhookStatusPending), got.Status)
	assert.Equal(t, 0, got.Attempts)
	assert.Nil(t, got.SentAt)
	assert.Nil(t, got.ErrorMessage)
	assert.JSONEq(t, `{"event":"lead.created"}`, string(got.Payload))

	_, err = repo.Get(ctx, 9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Contains(t, err.Error(), "queued webhook not found")
}

func TestWebhookRepository_Create_ClosedDB(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)

	sqlDB, _ := db.DB()
	sqlDB.Close()

	err := repo.Create(context.Background(), queued("https://x", "pending", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create queued webhook")
}

func TestWebhookRepository_ListDue(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	older := queued("https://a", string(config.WebhookStatusRetrying), now.Add(-10*time.Minute))
	newer := queued("https://a", string(config.WebhookStatusPending), now.Add(-1*time.Minute))
	future := queued("https://a", string(config.WebhookStatusRetrying), now.Add(5*time.Minute))
	sent := queued("https://a", string(config.WebhookStatusSent), now.Add(-20*time.Minute))
	failed := queued("https://a", string(config.WebhookStatusFailed), now.Add(-20*time.Minute))

	for _, it := range []*models.QueuedWebhook{newer, future, sent, older, failed} {
		require.NoError(t, repo.Create(ctx, it))
	}

	due, err := repo.ListDue(ctx, now, config.ProcessBatchSize)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, older.ID, due[0].ID)
	assert.Equal(t, newer.ID, due[1].ID)
}

func TestWebhookRepository_ListDue_Limit(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 25; i++ {
		it := queued("https://a", string(config.WebhookStatusPending), now.Add(-time.Duration(25-i)*time.Minute))
		require.NoError(t, repo.Create(ctx, it))
	}

	due, err := repo.ListDue(ctx, now, config.ProcessBatchSize)
	require.NoError(t, err)
	assert.Len(t, due, config.ProcessBatchSize)
	for i := 1; i < len(due); i++ {
		assert.False(t, due[i].SendAt.Before(due[i-1].SendAt))
	}
}

func TestWebhookRepository_LastSentAt(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	last, err := repo.LastSentAt(ctx, "https://a")
	require.NoError(t, err)
	assert.Nil(t, last)

	early := now.Add(-2 * time.Hour)
	late := now.Add(-30 * time.Second)
	for _, sentAt := range []time.Time{early, late} {
		it := queued("https://a", string(config.WebhookStatusSent), sentAt)
		it.Attempts = 1
		it.SentAt = &sentAt
		require.NoError(t, repo.Create(ctx, it))
	}
	other := now.Add(-time.Second)
	it := queued("https://b", string(config.WebhookStatusSent), other)
	it.SentAt = &other
	require.NoError(t, repo.Create(ctx, it))

	last, err = repo.LastSentAt(ctx, "https://a")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.WithinDuration(t, late, *last, time.Millisecond)
}

func TestWebhookRepository_SaveAttempt(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	item := queued("https://a", string(config.WebhookStatusPending), now)
	require.NoError(t, repo.Create(ctx, item))

	msg := "HTTP 500: boom"
	item.Status = string(config.WebhookStatusRetrying)
	item.Attempts = 1
	item.SendAt = now.Add(time.Minute)
	item.ErrorMessage = &msg
	require.NoError(t, repo.SaveAttempt(ctx, item, 0))

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.WebhookStatusRetrying), got.Status)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, msg, *got.ErrorMessage)
	assert.WithinDuration(t, now.Add(time.Minute), got.SendAt, time.Millisecond)

	// a stale writer still believing attempts == 0 must not overwrite
	stale := *item
	stale.Status = string(config.WebhookStatusSent)
	stale.Attempts = 1
	err = repo.SaveAttempt(ctx, &stale, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, webhook.ErrConcurrentUpdate)

	got, err = repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.WebhookStatusRetrying), got.Status)
}

func TestWebhookRepository_List(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewWebhookRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, status := range []string{"pending", "sent", "failed", "pending"} {
		require.NoError(t, repo.Create(ctx, queued("https://a", status, now)))
	}

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Greater(t, all[0].ID, all[1].ID)

	pending, err := repo.List(ctx, "pending", 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	limited, err := repo.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
