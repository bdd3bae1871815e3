package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/metrics"
)

var (
	ErrQueueFull        = errors.New("mail queue is full")
	ErrDispatcherClosed = errors.New("mail dispatcher is closed")
)

const sendTimeout = 30 * time.Second

// Dispatcher delivers messages on background workers so request handlers
// never wait on the mail provider.
type Dispatcher struct {
	sender  Sender
	workers int
	queue   chan *Message

	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		sender:  sender,
		workers: workers,
		queue:   make(chan *Message, queueSize),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.loop(ctx)
	}
}

// Enqueue never blocks; a full queue is reported to the caller.
func (d *Dispatcher) Enqueue(msg *Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for queued messages to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(ctx, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg *Message) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()
	err := d.sender.Send(sendCtx, msg)
	metrics.MailDispatchTotal.WithLabelValues(d.sender.Name(), metrics.Result(err)).Inc()
	logger := logutil.GetLogger(ctx).With(
		zap.String("provider", d.sender.Name()),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	if err != nil {
		logger.Error("send mail failed", zap.Error(err))
		return
	}
	logger.Debug("mail sent")
}
