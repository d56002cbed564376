package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("", "lead.created", "trabalhista", nil)
	assert.Len(t, e.ID, 36)
	assert.Equal(t, "lead.created", e.Name)
	assert.False(t, e.OccurredAt.IsZero())

	fixed := NewEvent("evt-1", "lead.created", "trabalhista", nil)
	assert.Equal(t, "evt-1", fixed.ID)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, nil, Noop{}, b}.Notify(context.Background(), NewEvent("", "lead.created", "f", nil))

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestHTTPNotifier_PostsEvent(t *testing.T) {
	var (
		mu   sync.Mutex
		got  Event
		ct   string
		hits int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		hits++
		ct = r.Header.Get("Content-Type")
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewHTTPNotifier("email", srv.URL, srv.Client(), nil)
	n.Notify(context.Background(), NewEvent("evt-9", "lead.created", "civel", map[string]any{"name": "Ana"}))
	n.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
	assert.Equal(t, "application/json", ct)
	assert.Equal(t, "evt-9", got.ID)
	assert.Equal(t, "civel", got.FormID)
	assert.Equal(t, "Ana", got.Data["name"])
}

func TestHTTPNotifier_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	n := NewHTTPNotifier("tracking", srv.URL, srv.Client(), nil)

	start := time.Now()
	n.Notify(context.Background(), NewEvent("", "lead.created", "f", nil))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	close(release)
	n.Wait()
}

func TestHTTPNotifier_FailureIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	n := NewHTTPNotifier("email", srv.URL, srv.Client(), zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, NewEvent("evt-1", "lead.created", "f", nil))
	cancel()
	n.Wait()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "notification failed", entry.Message)
	assert.Equal(t, "email", entry.ContextMap()["notifier"])
	assert.Contains(t, entry.ContextMap()["error"], "status=500")
}

func TestHTTPNotifier_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	n := NewHTTPNotifier("tracking", url, nil, zap.New(core))
	n.Notify(context.Background(), NewEvent("", "lead.created", "f", nil))
	n.Wait()

	assert.Equal(t, 1, logs.Len())
}

func TestRegistry_MarkOnce(t *testing.T) {
	r := NewRegistry(0)

	assert.True(t, r.MarkOnce("form-a", "pixel-1", "evt-1"))
	assert.False(t, r.MarkOnce("form-a", "pixel-1", "evt-1"))
	assert.True(t, r.MarkOnce("form-a", "pixel-2", "evt-1"))
	assert.True(t, r.MarkOnce("form-b", "pixel-1", "evt-1"))
	assert.True(t, r.MarkOnce("form-a", "pixel-1", "evt-2"))
	assert.Equal(t, 4, r.Len())
}

func TestRegistry_EvictsOldest(t *testing.T) {
	r := NewRegistry(2)

	r.MarkOnce("f", "p", "1")
	r.MarkOnce("f", "p", "2")
	r.MarkOnce("f", "p", "3")

	assert.Equal(t, 2, r.Len())
	assert.True(t, r.MarkOnce("f", "p", "1"), "evicted key is new again")
	assert.False(t, r.MarkOnce("f", "p", "3"))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry(0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.MarkOnce("f", "p", "same") {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, firsts)
}

func TestDedupe(t *testing.T) {
	reg := NewRegistry(0)
	email, pixel := &recorder{}, &recorder{}
	n := Multi{Dedupe(email, reg, "email"), Dedupe(pixel, reg, "fb-pixel")}

	e := NewEvent("evt-1", "lead.created", "trabalhista", nil)
	n.Notify(context.Background(), e)
	n.Notify(context.Background(), e)
	n.Notify(context.Background(), NewEvent("evt-2", "lead.created", "trabalhista", nil))

	assert.Equal(t, 2, email.count())
	assert.Equal(t, 2, pixel.count())
}
