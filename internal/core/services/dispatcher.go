package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"eac-registry/internal/adapters/notify"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
)

// Dispatcher defaults
const (
	DispatchBatchSize   = 50
	DispatchSendTimeout = 5 * time.Second
	DispatchMaxAttempts = 6
	dispatchBaseBackoff = 30 * time.Second
	dispatchMaxBackoff  = time.Hour
	dispatchStuckAfter  = 10 * time.Minute
)

// Dispatcher delivers queued outbox emails after the business change commits
type Dispatcher struct {
	outbox  repositories.OutboxRepository
	sender  notify.Sender
	metrics *Metrics
	now     func() time.Time
	wake    chan struct{}

	// life guards stop/done; both are nil while the loop is not running
	life sync.Mutex
	stop chan struct{}
	done chan struct{}

	mu sync.Mutex
}

// NewDispatcher creates a new outbox dispatcher
func NewDispatcher(outbox repositories.OutboxRepository, sender notify.Sender, metrics *Metrics) *Dispatcher {
	return &Dispatcher{
		outbox:  outbox,
		sender:  sender,
		metrics: metrics,
		now:     time.Now,
		wake:    make(chan struct{}, 1),
	}
}

// Wake asks the background loop to drain soon. It never blocks.
func (d *Dispatcher) Wake() {
	if d == nil {
		return
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Start launches the background loop. A stopped dispatcher can be started again.
func (d *Dispatcher) Start() {
	d.life.Lock()
	defer d.life.Unlock()
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	log.Println("🚀 Notification dispatcher started")
	go d.run(d.stop, d.done)
}

// Stop waits for the current drain to finish
func (d *Dispatcher) Stop() {
	d.life.Lock()
	defer d.life.Unlock()
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop, d.done = nil, nil
	log.Println("🛑 Notification dispatcher stopped")
}

func (d *Dispatcher) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-d.wake:
			d.Drain(context.Background())
		case <-stop:
			return
		}
	}
}

// Drain sends every due message and returns how many were delivered and
// how many were given up on.
func (d *Dispatcher) Drain(ctx context.Context) (sent, failed int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, err := d.outbox.ReleaseStuck(ctx, d.now().Add(-dispatchStuckAfter)); err != nil {
		log.Printf("❌ Outbox release error: %v", err)
	} else if n > 0 {
		log.Printf("⚠️ Released %d stuck outbox messages", n)
	}

	for {
		rows, err := d.outbox.ClaimDue(ctx, d.now(), DispatchBatchSize)
		if err != nil {
			log.Printf("❌ Outbox claim error: %v", err)
			return sent, failed
		}
		if len(rows) == 0 {
			return sent, failed
		}
		for _, row := range rows {
			switch d.deliver(ctx, row) {
			case models.OutboxSent:
				sent++
			case models.OutboxFailed:
				failed++
			}
		}
		if len(rows) < DispatchBatchSize {
			return sent, failed
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, row *models.NotificationOutbox) string {
	sendCtx, cancel := context.WithTimeout(ctx, DispatchSendTimeout)
	err := d.sender.Send(sendCtx, toMessage(row))
	cancel()

	attempts := row.Attempts + 1
	if err == nil {
		if markErr := d.outbox.MarkSent(ctx, row.ID, d.now()); markErr != nil {
			log.Printf("❌ Outbox mark-sent error (id=%d): %v", row.ID, markErr)
		}
		d.metrics.notification("sent")
		log.Printf("📧 Sent %s to %s (%s)", row.Template, row.Recipient, row.ApplicationID)
		return models.OutboxSent
	}

	if errors.Is(err, notify.ErrPermanent) || attempts >= DispatchMaxAttempts {
		if markErr := d.outbox.MarkFailed(ctx, row.ID, attempts, err.Error()); markErr != nil {
			log.Printf("❌ Outbox mark-failed error (id=%d): %v", row.ID, markErr)
		}
		d.metrics.notification("failed")
		log.Printf("❌ Giving up on %s to %s after %d attempts: %v", row.Template, row.Recipient, attempts, err)
		return models.OutboxFailed
	}

	next := d.now().Add(Backoff(attempts))
	if markErr := d.outbox.MarkRetry(ctx, row.ID, attempts, next, err.Error()); markErr != nil {
		log.Printf("❌ Outbox mark-retry error (id=%d): %v", row.ID, markErr)
	}
	d.metrics.notification("retry")
	log.Printf("⚠️ Email %s to %s failed (attempt %d), retrying at %s: %v",
		row.Template, row.Recipient, attempts, next.Format(time.RFC3339), err)
	return models.OutboxPending
}

// Backoff returns the delay before the next attempt: 30s, 1m, 2m, ... capped at 1h
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := dispatchBaseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= dispatchMaxBackoff {
			return dispatchMaxBackoff
		}
	}
	return delay
}

func toMessage(row *models.NotificationOutbox) notify.Message {
	msg := notify.Message{
		To:      row.Recipient,
		Subject: row.Subject,
		HTML:    row.HTMLBody,
		Text:    row.TextBody,
	}
	for _, a := range row.Attachments.Data() {
		msg.Attachments = append(msg.Attachments, notify.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		})
	}
	return msg
}
