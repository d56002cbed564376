package lead

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/common"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/phone"
	"github.com/joshu-sajeev/stepform/middleware"
)

const maxInboundSourceLen = 50

type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

var _ HandlerInterface = (*Handler)(nil)

// Create handles StepForm submissions and returns HTTP 201 with the stored
// lead.
func (h *Handler) Create(c *gin.Context) {
	var req dto.LeadCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}
	req.Source = SourceStepForm

	resp, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return
	}

	resp, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Inbound receives leads posted by external form tools. A body that is not
// a JSON object is rejected before anything is stored.
func (h *Handler) Inbound(c *gin.Context) {
	source := c.Param("source")
	if source == "" || len(source) > maxInboundSourceLen {
		c.Error(common.Errf(http.StatusBadRequest, "invalid source"))
		return
	}

	raw, err := c.GetRawData()
	if err != nil || !json.Valid(raw) {
		c.Error(common.Errf(http.StatusBadRequest, "malformed JSON"))
		return
	}

	var in dto.InboundLeadDTO
	if err := json.Unmarshal(raw, &in); err != nil {
		c.Error(common.Errf(http.StatusBadRequest, "malformed JSON"))
		return
	}

	req := in.ToLeadCreate(source, raw)
	if !middleware.Validate(c, &req) {
		return
	}
	req.Source = SourceInbound

	resp, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// NormalizePhone lets the form preview the number it will submit.
func (h *Handler) NormalizePhone(c *gin.Context) {
	var req dto.PhoneNormalizeDTO
	if !middleware.Bind(c, &req) {
		return
	}

	c.JSON(http.StatusOK, DescribePhone(req.Value))
}

// DescribePhone reports every normalized form of raw.
func DescribePhone(raw string) dto.PhoneResponseDTO {
	digits := phone.Normalize9thDigit(phone.ExtractDigits(raw))
	return dto.PhoneResponseDTO{
		Digits:    digits,
		Canonical: phone.Canonical(raw),
		Display:   phone.Format(digits),
		Valid:     phone.IsValid(digits),
	}
}
