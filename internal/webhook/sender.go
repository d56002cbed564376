package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/joshu-sajeev/stepform/internal/config"
)

// maxErrorBody bounds how much of a failed response is kept for the error text.
const maxErrorBody = 1024

// DeliveryError is a non-2xx response from a webhook destination.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

type executeFunc func(ctx context.Context, fn func(context.Context) (struct{}, error)) (struct{}, error)

// HTTPSender posts stored payloads verbatim as JSON.
type HTTPSender struct {
	client  *http.Client
	execute executeFunc
}

var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender builds a sender. A zero requestTimeout leaves the request
// bounded only by ctx and the client defaults.
func NewHTTPSender(client *http.Client, requestTimeout time.Duration) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}

	s := &HTTPSender{client: client}
	if requestTimeout > 0 {
		t := timeout.New[struct{}](timeout.Config{DefaultTimeout: requestTimeout})
		s.execute = func(ctx context.Context, fn func(context.Context) (struct{}, error)) (struct{}, error) {
			return t.Execute(ctx, requestTimeout, fn)
		}
	}
	return s
}

func (s *HTTPSender) Send(ctx context.Context, url string, payload []byte) error {
	if s.execute == nil {
		return s.post(ctx, url, payload)
	}

	_, err := s.execute(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.post(ctx, url, payload)
	})
	return err
}

func (s *HTTPSender) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", config.WebhookUserAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &DeliveryError{
			StatusCode: res.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxErrorBody))
	return nil
}
