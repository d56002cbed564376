package lead

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/models"
)

// RepoInterface defines lead persistence. CreateWithWebhook stores the lead
// and the queue item built for it atomically.
type RepoInterface interface {
	CreateWithWebhook(
		ctx context.Context,
		l *models.Lead,
		build func(*models.Lead) (*models.QueuedWebhook, error),
	) (*models.QueuedWebhook, error)
	Get(ctx context.Context, id uint) (*models.Lead, error)
}

// SettingsReader resolves the lead webhook destination; "" means none.
type SettingsReader interface {
	WebhookURL(ctx context.Context) (string, error)
}

type ServiceInterface interface {
	Submit(ctx context.Context, req *dto.LeadCreateDTO) (*dto.LeadResponseDTO, error)
	Get(ctx context.Context, id uint) (*dto.LeadResponseDTO, error)
}

type HandlerInterface interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Inbound(c *gin.Context)
	NormalizePhone(c *gin.Context)
}
