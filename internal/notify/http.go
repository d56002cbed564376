package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultNotifyTimeout = 5 * time.Second

// HTTPNotifier POSTs events as JSON from a background goroutine.
type HTTPNotifier struct {
	name     string
	endpoint string
	client   *http.Client
	timeout  time.Duration
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewHTTPNotifier(name, endpoint string, client *http.Client, log *zap.Logger) *HTTPNotifier {
	if client == nil {
		client = &http.Client{Timeout: defaultNotifyTimeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPNotifier{
		name:     name,
		endpoint: endpoint,
		client:   client,
		timeout:  defaultNotifyTimeout,
		log:      log.With(zap.String("notifier", name)),
	}
}

// Notify returns immediately. The request outlives ctx cancellation but not
// the notifier timeout.
func (n *HTTPNotifier) Notify(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		n.log.Error("encode notification", zap.String("event_id", e.ID), zap.Error(err))
		return
	}

	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.log.Error("notifier panic", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()

		if err := n.post(ctx, body); err != nil {
			n.log.Warn("notification failed",
				zap.String("event", e.Name),
				zap.String("event_id", e.ID),
				zap.Error(err),
			)
			return
		}
		n.log.Debug("notification sent", zap.String("event", e.Name), zap.String("event_id", e.ID))
	}()
}

func (n *HTTPNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("notifier=%s status=%d", n.name, res.StatusCode)
	}
	return nil
}

// Wait blocks until in-flight notifications finish. Used on shutdown.
func (n *HTTPNotifier) Wait() {
	n.wg.Wait()
}
