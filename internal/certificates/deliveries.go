package certificates

import (
	"context"
	"encoding/json"

	"sjwi-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LogEmail records one delivery attempt for the audit trail. Logging
// failures are reported to the caller but the email itself has already
// been sent (or not) by then.
func (s *Service) LogEmail(ctx context.Context, certificateID uuid.UUID, recipient, subject, status string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	entry := models.EmailLog{
		CertificateID: certificateID,
		Recipient:     recipient,
		Subject:       subject,
		Status:        status,
		Payload:       datatypes.JSON(raw),
	}
	return s.DB.WithContext(ctx).Create(&entry).Error
}

// EmailHistory returns the delivery attempts for one certificate,
// newest first.
func (s *Service) EmailHistory(ctx context.Context, certificateID uuid.UUID) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	err := s.DB.WithContext(ctx).
		Where("certificate_id = ?", certificateID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
