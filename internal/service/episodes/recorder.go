// Package episodes records accepted retrievals off the request path.
package episodes

import (
	"context"
	"sync"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/pkg/log"
	"github.com/sandevgo/mimic/pkg/retry"
)

const DefaultBufferSize = 64

// Recorder wraps a ConversationMemory so that AppendMemory never blocks the
// caller. Episodes are written by the Start loop; Shutdown flushes whatever
// is still queued.
type Recorder struct {
	memory  core.ConversationMemory
	queue   chan core.Episode
	retrier *retry.Retrier

	stop chan struct{}
	done chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
}

var _ core.ConversationMemory = (*Recorder)(nil)

func NewRecorder(memory core.ConversationMemory, bufferSize int, retryCfg *retry.Config) *Recorder {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if retryCfg == nil {
		retryCfg = retry.NewLocalConfig()
	}

	return &Recorder{
		memory:  memory,
		queue:   make(chan core.Episode, bufferSize),
		retrier: retry.NewRetrier(retryCfg),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (r *Recorder) GetContext(ctx context.Context, conversationID string, limit int) ([]core.Turn, error) {
	return r.memory.GetContext(ctx, conversationID, limit)
}

// AppendMemory enqueues ep. A full buffer or a stopped recorder drops it.
func (r *Recorder) AppendMemory(ctx context.Context, ep core.Episode) error {
	logger := log.Component(ctx, "episode_recorder")

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		logger.Debug().Str("conversation", ep.ConversationID).Msg("recorder stopped, episode dropped")
		return nil
	}

	select {
	case r.queue <- ep:
	default:
		logger.Warn().Str("conversation", ep.ConversationID).Msg("episode buffer full, episode dropped")
	}
	return nil
}

func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped || r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	defer close(r.done)

	logger := log.Component(ctx, "episode_recorder")
	logger.Debug().Msg("starting episode recorder")

	for {
		select {
		case ep := <-r.queue:
			r.write(ctx, ep)
		case <-r.stop:
			r.drain(ctx)
			return nil
		case <-ctx.Done():
			r.drain(context.WithoutCancel(ctx))
			return nil
		}
	}
}

// Shutdown stops accepting episodes and waits until the queue is written.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	running := r.running
	r.mu.Unlock()

	close(r.stop)

	if !running {
		r.drain(ctx)
		return nil
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case ep := <-r.queue:
			r.write(ctx, ep)
		default:
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, ep core.Episode) {
	err := r.retrier.Do(ctx, func() error {
		return r.memory.AppendMemory(ctx, ep)
	})
	if err != nil {
		log.Component(ctx, "episode_recorder").Debug().Err(err).
			Str("conversation", ep.ConversationID).
			Msg("failed to record episode")
	}
}
