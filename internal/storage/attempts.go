package storage

import (
	"context"

	"github.com/localnerve/jam-build-landing/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// AttemptLog keeps the webhook delivery history of leads
type AttemptLog struct {
	db *gorm.DB
}

// NewAttemptLog creates an AttemptLog
func NewAttemptLog(db *gorm.DB) *AttemptLog {
	return &AttemptLog{db: db}
}

// Record appends one attempt
func (l *AttemptLog) Record(ctx context.Context, attempt *models.DeliveryAttempt) error {
	return l.db.WithContext(ctx).Create(attempt).Error
}

// ListByLead returns the attempts for a lead, oldest first
func (l *AttemptLog) ListByLead(ctx context.Context, leadID string) ([]models.DeliveryAttempt, error) {
	var attempts []models.DeliveryAttempt
	err := l.db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "landing:attempts")).
		Where("lead_id = ?", leadID).
		Order("attempt_id").
		Find(&attempts).Error
	return attempts, err
}

// DeleteByLead drops the history of a deleted lead
func (l *AttemptLog) DeleteByLead(ctx context.Context, leadID string) error {
	return l.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Delete(&models.DeliveryAttempt{}).Error
}
