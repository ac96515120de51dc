package models

import (
	"time"
)

// Document is one named JSON document of the landing page substrate
type Document struct {
	DocumentID      uint64 `gorm:"primaryKey;autoIncrement"`
	DocumentKey     string `gorm:"uniqueIndex;size:64;not null"`
	DocumentValue   JSON
	DocumentVersion uint64 `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "landing_documents"
}
