// internal/mailer/worker.go
package mailer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	queueSize   = 64
	maxAttempts = 3
)

// Worker delivers messages off the request path. Enqueue never blocks; when
// the queue is full the message is dropped with a warning. Delivery failures
// are retried with doubling backoff and only ever logged.
type Worker struct {
	sender  Sender
	logger  *zap.Logger
	queue   chan Message
	done    chan struct{}
	backoff time.Duration
}

func NewWorker(sender Sender, logger *zap.Logger) *Worker {
	w := &Worker{
		sender:  sender,
		logger:  logger,
		queue:   make(chan Message, queueSize),
		done:    make(chan struct{}),
		backoff: time.Second,
	}
	go w.run()
	return w
}

// Enqueue hands a message to the worker without blocking the caller.
func (w *Worker) Enqueue(msg Message) {
	select {
	case w.queue <- msg:
	default:
		w.logger.Warn("mail queue full, dropping message",
			zap.String("recipient", msg.To),
			zap.String("subject", msg.Subject))
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (w *Worker) Close() {
	close(w.queue)
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	for msg := range w.queue {
		w.deliver(msg)
	}
}

func (w *Worker) deliver(msg Message) {
	delay := w.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := w.sender.SendEmail(ctx, msg)
		cancel()
		if err == nil {
			return
		}

		w.logger.Error("email delivery failed",
			zap.String("recipient", msg.To),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < maxAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
}
