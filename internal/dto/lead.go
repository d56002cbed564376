package dto

import (
	"encoding/json"
	"time"
)

// LeadCreateDTO is a StepForm submission. EventID lets the browser pixel and
// the server relays report the same conversion once; it is generated when
// absent.
type LeadCreateDTO struct {
	Name    string          `json:"name" validate:"required,max=255"`
	Email   string          `json:"email" validate:"omitempty,email,max=255"`
	Phone   string          `json:"phone" validate:"required,max=40"`
	FormID  string          `json:"form_id" validate:"required,max=100"`
	Answers json.RawMessage `json:"answers,omitempty"`
	EventID string          `json:"event_id" validate:"omitempty,max=100"`
	Source  string          `json:"-"`
}

type LeadResponseDTO struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone"`
	PhoneDisplay  string          `json:"phone_display"`
	FormID        string          `json:"form_id"`
	Source        string          `json:"source"`
	Answers       json.RawMessage `json:"answers,omitempty"`
	WebhookQueued bool            `json:"webhook_queued"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LeadWebhookPayload is the document stored in the queue and delivered
// verbatim to the configured webhook URL.
type LeadWebhookPayload struct {
	Event       string          `json:"event"`
	Lead        LeadResponseDTO `json:"lead"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// InboundLeadDTO is the lenient shape accepted from third-party form
// senders, which use either English or Portuguese field names.
type InboundLeadDTO struct {
	Name     string `json:"name"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Telefone string `json:"telefone"`
	WhatsApp string `json:"whatsapp"`
	FormID   string `json:"form_id"`
	EventID  string `json:"event_id"`
}

// ToLeadCreate maps the inbound document onto a submission. raw is kept as
// the answers so nothing the sender posted is lost.
func (in InboundLeadDTO) ToLeadCreate(source string, raw json.RawMessage) LeadCreateDTO {
	return LeadCreateDTO{
		Name:    firstNonEmpty(in.Name, in.Nome),
		Email:   in.Email,
		Phone:   firstNonEmpty(in.Phone, in.Telefone, in.WhatsApp),
		FormID:  firstNonEmpty(in.FormID, "inbound:"+source),
		Answers: raw,
		EventID: in.EventID,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
