package settings

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/models"
)

type RepoInterface interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key, value string) (*models.Setting, error)
}

type ServiceInterface interface {
	Get(ctx context.Context, key string) (*dto.SettingResponseDTO, error)
	Set(ctx context.Context, key string, req *dto.SettingUpdateDTO) (*dto.SettingResponseDTO, error)
	WebhookURL(ctx context.Context) (string, error)
}

type HandlerInterface interface {
	Get(c *gin.Context)
	Put(c *gin.Context)
}
