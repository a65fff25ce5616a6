package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eac-registry/internal/adapters/notify"
	"eac-registry/internal/adapters/notify/mocks"
	"eac-registry/internal/adapters/persistence/models"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
)

func queueMail(t *testing.T, e *testEnv, n int) {
	t.Helper()
	rows := make([]*models.NotificationOutbox, n)
	for i := range rows {
		rows[i] = &models.NotificationOutbox{
			Template:      TplSubmitted,
			Recipient:     fmt.Sprintf("user%d@example.com", i),
			ApplicationID: "APL-IND-0001",
			Subject:       "Application APL-IND-0001 received",
			HTMLBody:      "<p>hello</p>",
			TextBody:      "hello",
			Attachments:   datatypes.NewJSONType([]models.OutboxAttachment{}),
		}
	}
	require.NoError(t, e.outbox.Enqueue(context.Background(), rows...))
}

func outboxRow(t *testing.T, e *testEnv, recipient string) *models.NotificationOutbox {
	t.Helper()
	var row models.NotificationOutbox
	require.NoError(t, e.db.Where("recipient = ?", recipient).First(&row).Error)
	return &row
}

func TestDispatcher_DeliversPending(t *testing.T) {
	e := newTestEnv(t)
	queueMail(t, e, 2)

	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg notify.Message) error {
			assert.Equal(t, "hello", msg.Text)
			assert.Empty(t, msg.Attachments)
			return nil
		}).
		Times(2)

	metrics := NewMetrics(prometheus.NewRegistry())
	d := NewDispatcher(e.outbox, sender, metrics)
	sent, failed := d.Drain(context.Background())
	assert.Equal(t, 2, sent)
	assert.Zero(t, failed)

	row := outboxRow(t, e, "user0@example.com")
	assert.Equal(t, models.OutboxSent, row.Status)
	assert.NotNil(t, row.SentAt)
	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.Notifications.WithLabelValues("sent")))

	// nothing left to claim
	sent, failed = d.Drain(context.Background())
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}

func TestDispatcher_TransientFailureIsRetriedLater(t *testing.T) {
	e := newTestEnv(t)
	queueMail(t, e, 1)

	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("503 from provider"))

	now := time.Now().Add(time.Minute)
	d := NewDispatcher(e.outbox, sender, nil)
	d.now = func() time.Time { return now }

	sent, failed := d.Drain(context.Background())
	assert.Zero(t, sent)
	assert.Zero(t, failed)

	row := outboxRow(t, e, "user0@example.com")
	assert.Equal(t, models.OutboxPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	assert.Contains(t, row.LastError, "503")
	assert.WithinDuration(t, now.Add(Backoff(1)), row.NextAttemptAt, time.Second)

	// not due yet, so the mock sees no second call
	sent, _ = d.Drain(context.Background())
	assert.Zero(t, sent)
}

func TestDispatcher_PermanentFailureGivesUp(t *testing.T) {
	e := newTestEnv(t)
	queueMail(t, e, 1)

	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: invalid recipient", notify.ErrPermanent))

	d := NewDispatcher(e.outbox, sender, nil)
	sent, failed := d.Drain(context.Background())
	assert.Zero(t, sent)
	assert.Equal(t, 1, failed)

	row := outboxRow(t, e, "user0@example.com")
	assert.Equal(t, models.OutboxFailed, row.Status)
	assert.Equal(t, 1, row.Attempts)
}

func TestDispatcher_StartStop(t *testing.T) {
	e := newTestEnv(t)
	queueMail(t, e, 1)

	delivered := make(chan struct{})
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg notify.Message) error {
			close(delivered)
			return nil
		})

	d := NewDispatcher(e.outbox, sender, nil)
	d.Start()
	d.Wake()

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not drain after wake")
	}
	d.Stop()
	d.Stop()
}

func TestDispatcher_RestartAfterStop(t *testing.T) {
	e := newTestEnv(t)

	delivered := make(chan struct{}, 2)
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg notify.Message) error {
			delivered <- struct{}{}
			return nil
		}).
		Times(2)

	d := NewDispatcher(e.outbox, sender, nil)
	for round := 0; round < 2; round++ {
		queueMail(t, e, 1)
		d.Start()
		d.Start()
		d.Wake()

		select {
		case <-delivered:
		case <-time.After(5 * time.Second):
			t.Fatalf("round %d: dispatcher did not drain after wake", round)
		}
		d.Stop()
	}
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 30*time.Second, Backoff(0))
	assert.Equal(t, 30*time.Second, Backoff(1))
	assert.Equal(t, time.Minute, Backoff(2))
	assert.Equal(t, 4*time.Minute, Backoff(4))
	assert.Equal(t, time.Hour, Backoff(20))
}
