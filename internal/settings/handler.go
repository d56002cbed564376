package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/middleware"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

var _ HandlerInterface = (*Handler)(nil)

func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Put(c *gin.Context) {
	var req dto.SettingUpdateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Set(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
