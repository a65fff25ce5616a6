package repositories

import (
	"context"
	"time"

	"eac-registry/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// outboxRepository implements OutboxRepository interface
type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// Enqueue inserts pending messages; callers pass a transactional context so
// messages only exist once the business change commits.
func (r *outboxRepository) Enqueue(ctx context.Context, rows ...*models.NotificationOutbox) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now()
	for _, row := range rows {
		row.Status = models.OutboxPending
		if row.NextAttemptAt.IsZero() {
			row.NextAttemptAt = now
		}
	}
	return conn(ctx, r.db).Create(&rows).Error
}

// ClaimDue moves up to limit due rows from pending to sending. A row claimed
// by another dispatcher first is skipped.
func (r *outboxRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.NotificationOutbox, error) {
	var due []*models.NotificationOutbox
	err := conn(ctx, r.db).
		Where("status = ? AND next_attempt_at <= ?", models.OutboxPending, now).
		Order("next_attempt_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&due).Error
	if err != nil {
		return nil, err
	}

	claimed := make([]*models.NotificationOutbox, 0, len(due))
	for _, row := range due {
		result := conn(ctx, r.db).Model(&models.NotificationOutbox{}).
			Where("id = ? AND status = ?", row.ID, models.OutboxPending).
			Updates(map[string]interface{}{"status": models.OutboxSending})
		if result.Error != nil {
			return claimed, result.Error
		}
		if result.RowsAffected == 1 {
			row.Status = models.OutboxSending
			claimed = append(claimed, row)
		}
	}
	return claimed, nil
}

// MarkSent records a successful delivery
func (r *outboxRepository) MarkSent(ctx context.Context, id uint, at time.Time) error {
	return conn(ctx, r.db).Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OutboxSent,
			"sent_at":    &at,
			"last_error": "",
		}).Error
}

// MarkRetry puts a message back in the queue for a later attempt
func (r *outboxRepository) MarkRetry(ctx context.Context, id uint, attempts int, next time.Time, lastErr string) error {
	return conn(ctx, r.db).Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          models.OutboxPending,
			"attempts":        attempts,
			"next_attempt_at": next,
			"last_error":      truncate(lastErr, 1000),
		}).Error
}

// MarkFailed gives up on a message
func (r *outboxRepository) MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error {
	return conn(ctx, r.db).Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OutboxFailed,
			"attempts":   attempts,
			"last_error": truncate(lastErr, 1000),
		}).Error
}

// ReleaseStuck returns rows left in sending by a crashed dispatcher
func (r *outboxRepository) ReleaseStuck(ctx context.Context, claimedBefore time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.NotificationOutbox{}).
		Where("status = ? AND updated_at < ?", models.OutboxSending, claimedBefore).
		Updates(map[string]interface{}{"status": models.OutboxPending})
	return result.RowsAffected, result.Error
}

// CountByStatus counts outbox rows per status
func (r *outboxRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := conn(ctx, r.db).Model(&models.NotificationOutbox{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
