package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// slowProcessor records how many passes ran at the same time.
type slowProcessor struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (p *slowProcessor) ProcessQueue(ctx context.Context) (dto.ProcessResultDTO, error) {
	p.calls.Add(1)
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		seen := p.maxSeen.Load()
		if n <= seen || p.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return dto.ProcessResultDTO{}, ctx.Err()
	}
	return dto.ProcessResultDTO{}, nil
}

func TestWorker_RunsImmediatelyThenOnInterval(t *testing.T) {
	p := &slowProcessor{}
	w := NewWorker(p, 10*time.Millisecond, nil)

	w.Start(context.Background())
	assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Stop()

	calls := p.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, p.calls.Load(), "no passes after Stop")
}

func TestWorker_PassesNeverOverlap(t *testing.T) {
	p := &slowProcessor{delay: 25 * time.Millisecond}
	w := NewWorker(p, time.Millisecond, nil)

	w.Start(context.Background())
	assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()

	assert.Equal(t, int32(1), p.maxSeen.Load())
}

func TestWorker_StopsWhenParentContextDone(t *testing.T) {
	p := &slowProcessor{}
	w := NewWorker(p, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	assert.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_RunOnce(t *testing.T) {
	tests := []struct {
		name      string
		result    dto.ProcessResultDTO
		err       error
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "pass with work is logged",
			result:    dto.ProcessResultDTO{Processed: 2, Skipped: 1, Total: 3},
			wantLevel: "info",
			wantMsg:   "queue pass finished",
		},
		{
			name:      "store error is logged",
			err:       errors.New("select due webhooks: connection refused"),
			wantLevel: "error",
			wantMsg:   "queue pass failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			p := new(mocks.QueueProcessorMock)
			p.On("ProcessQueue", mock.Anything).Return(tt.result, tt.err).Once()

			w := NewWorker(p, time.Minute, zap.New(core))
			w.RunOnce(context.Background())

			p.AssertExpectations(t)
			entries := logs.FilterMessage(tt.wantMsg).All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.wantLevel, entries[0].Level.String())
			}
		})
	}
}

func TestWorker_RunOnce_EmptyPassIsQuiet(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := new(mocks.QueueProcessorMock)
	p.On("ProcessQueue", mock.Anything).Return(dto.ProcessResultDTO{}, nil).Once()

	NewWorker(p, time.Minute, zap.New(core)).RunOnce(context.Background())

	assert.Zero(t, logs.Len())
}
