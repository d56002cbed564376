package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/models"
)

// ErrConcurrentUpdate is returned by SaveAttempt when the stored row no
// longer matches the attempt count the caller started from.
var ErrConcurrentUpdate = errors.New("queued webhook modified concurrently")

// RepoInterface defines the queue store consumed by the processor and service.
type RepoInterface interface {
	Create(ctx context.Context, item *models.QueuedWebhook) error
	Get(ctx context.Context, id uint) (*models.QueuedWebhook, error)
	List(ctx context.Context, status string, limit int) ([]models.QueuedWebhook, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.QueuedWebhook, error)
	LastSentAt(ctx context.Context, url string) (*time.Time, error)
	SaveAttempt(ctx context.Context, item *models.QueuedWebhook, prevAttempts int) error
}

// Sender delivers one payload to one URL. A nil error means a 2xx response.
type Sender interface {
	Send(ctx context.Context, url string, payload []byte) error
}

// QueueProcessor runs a single drain pass over the queue.
type QueueProcessor interface {
	ProcessQueue(ctx context.Context) (dto.ProcessResultDTO, error)
}

// ServiceInterface defines queue inspection and enqueue operations.
type ServiceInterface interface {
	Enqueue(ctx context.Context, url string, payload []byte) (*dto.QueuedWebhookResponseDTO, error)
	Get(ctx context.Context, id uint) (*dto.QueuedWebhookResponseDTO, error)
	List(ctx context.Context, status string) ([]dto.QueuedWebhookResponseDTO, error)
	Process(ctx context.Context) (dto.ProcessResultDTO, error)
}

// HandlerInterface defines the admin HTTP handlers for the queue.
type HandlerInterface interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Process(c *gin.Context)
}
