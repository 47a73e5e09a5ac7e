package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Email log statuses.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records each attempt to email a certificate PDF, with the
// request payload kept as JSON for auditing.
type EmailLog struct {
	EmailLogID    uuid.UUID      `gorm:"column:email_log_id;type:uuid;primaryKey" json:"email_log_id"`
	CertificateID uuid.UUID      `gorm:"column:certificate_id;type:uuid;not null;index" json:"certificate_id"`
	Recipient     string         `gorm:"column:recipient;not null" json:"recipient"`
	Subject       string         `gorm:"column:subject" json:"subject"`
	Status        string         `gorm:"column:status;not null" json:"status"`
	Payload       datatypes.JSON `gorm:"column:payload;type:json" json:"payload"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (EmailLog) TableName() string {
	return "EmailLogs"
}

func (e *EmailLog) BeforeCreate(tx *gorm.DB) error {
	if e.EmailLogID == uuid.Nil {
		e.EmailLogID = uuid.New()
	}
	return nil
}
