package models

import (
	"time"
)

// DeliveryAttempt records one webhook POST made for a lead
type DeliveryAttempt struct {
	AttemptID  uint64    `gorm:"primaryKey;autoIncrement" json:"attempt_id"`
	LeadID     string    `gorm:"index;size:64;not null" json:"lead_id"`
	Attempt    int       `gorm:"not null" json:"attempt"`
	Outcome    string    `gorm:"size:32;not null" json:"outcome"`
	HTTPStatus int       `json:"http_status"`
	Error      string    `gorm:"size:1024" json:"error,omitempty"`
	Response   JSON      `json:"response"`
	DurationMs int64     `json:"duration_ms"`
	TimedOut   bool      `json:"timed_out"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the table name for DeliveryAttempt
func (DeliveryAttempt) TableName() string {
	return "webhook_delivery_attempts"
}
