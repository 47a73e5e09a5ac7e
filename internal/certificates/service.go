package certificates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sjwi-backend/internal/customers"
	"sjwi-backend/internal/fiscalyear"
	"sjwi-backend/internal/items"
	"sjwi-backend/internal/models"
	"sjwi-backend/internal/numbering"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxNumberingAttempts bounds the retry loop around the read-then-write
// suffix assignment. Each attempt recomputes the suffix, so a retry only
// loses to another concurrent create, never to itself.
const maxNumberingAttempts = 3

// Service persists certificates with numbering applied exactly once.
type Service struct {
	DB        *gorm.DB
	Items     *items.Service
	Customers *customers.Service
	Engine    *numbering.Engine

	// DefaultPrefix is used when a request does not name one. Empty
	// falls back to models.DefaultCertificatePrefix.
	DefaultPrefix string
}

func (s *Service) defaultPrefix() string {
	if s.DefaultPrefix != "" {
		return s.DefaultPrefix
	}
	return models.DefaultCertificatePrefix
}

// ItemEntryInput references an item by id or by code, with optional
// display overrides. Unknown codes create the item on first use.
type ItemEntryInput struct {
	Item             string `json:"item"`
	MaterialOverride string `json:"materialOverride"`
	SizeOverride     string `json:"sizeOverride"`
}

// CreateInput carries certificate fields from the client. Dates arrive
// as strings so validation stays in one place.
type CreateInput struct {
	CertificateNoPrefix     string           `json:"certificateNoPrefix"`
	Suffix                  string           `json:"suffix"`
	CertificateDate         string           `json:"certificateDate"`
	DateOfTreatment         string           `json:"dateOfTreatment"`
	CustomerName            string           `json:"customerName"`
	CustomerAddress         string           `json:"customerAddress"`
	TruckNo                 string           `json:"truckNo"`
	ContainerNumber         string           `json:"containerNumber"`
	BatchNumber             string           `json:"batchNumber"`
	SoNumber                string           `json:"soNumber"`
	QtyTreated              string           `json:"qtyTreated"`
	Country                 string           `json:"country"`
	AttainingTimeMins       int              `json:"attainingTimeMins"`
	TotalTreatmentTimeMins  int              `json:"totalTreatmentTimeMins"`
	MoistureBeforeTreatment float64          `json:"moistureBeforeTreatment"`
	MoistureAfterTreatment  float64          `json:"moistureAfterTreatment"`
	Note                    string           `json:"note"`
	Items                   []ItemEntryInput `json:"items"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "02/01/2006"}

// ParseDate accepts the date formats the client sends.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Create resolves item references, assigns the next certificate number
// for the fiscal year of the certificate date, and persists the record.
// Numbering races are retried a bounded number of times before
// ErrDuplicateNumber is surfaced.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Certificate, error) {
	prefix := strings.TrimSpace(in.CertificateNoPrefix)
	if prefix == "" {
		prefix = s.defaultPrefix()
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, ErrCustomerNameRequired
	}
	if strings.TrimSpace(in.CertificateDate) == "" {
		return nil, ErrCertificateDateRequired
	}
	certDate, err := ParseDate(in.CertificateDate)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.DateOfTreatment) == "" {
		return nil, ErrTreatmentDateRequired
	}
	treatDate, err := ParseDate(in.DateOfTreatment)
	if err != nil {
		return nil, err
	}

	entries, err := s.resolveItemEntries(ctx, s.DB, in.Items)
	if err != nil {
		return nil, err
	}

	// A failed customer upsert aborts creation: the address may be
	// needed downstream for the PDF.
	customer, err := s.Customers.FindOrCreate(ctx, in.CustomerName, in.CustomerAddress)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(in.CustomerAddress)
	if address == "" {
		address = customer.Address
	}

	build := func(fy int, suffix string) *models.Certificate {
		cert := &models.Certificate{
			CertificateNoPrefix:     prefix,
			FiscalYear:              fy,
			YearLabel:               fiscalyear.Label(fy),
			Suffix:                  suffix,
			CertificateDate:         certDate,
			DateOfTreatment:         treatDate,
			CustomerName:            customer.Name,
			CustomerAddress:         address,
			TruckNo:                 in.TruckNo,
			ContainerNumber:         in.ContainerNumber,
			BatchNumber:             in.BatchNumber,
			SoNumber:                in.SoNumber,
			QtyTreated:              in.QtyTreated,
			Country:                 in.Country,
			AttainingTimeMins:       in.AttainingTimeMins,
			TotalTreatmentTimeMins:  in.TotalTreatmentTimeMins,
			MoistureBeforeTreatment: in.MoistureBeforeTreatment,
			MoistureAfterTreatment:  in.MoistureAfterTreatment,
			Note:                    in.Note,
		}
		for i, e := range entries {
			cert.Items = append(cert.Items, models.CertificateItem{
				ItemID:           e.itemID,
				MaterialOverride: e.materialOverride,
				SizeOverride:     e.sizeOverride,
				Position:         i,
			})
		}
		return cert
	}

	// Explicit suffix: single insert, collision is the caller's error.
	if suffix := strings.TrimSpace(in.Suffix); suffix != "" {
		cert := build(fiscalyear.Start(certDate), suffix)
		if err := s.DB.WithContext(ctx).Create(cert).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateNumber
			}
			return nil, fmt.Errorf("Certificate creation failed: %w", err)
		}
		return s.GetByID(ctx, cert.CertificateID)
	}

	for attempt := 1; attempt <= maxNumberingAttempts; attempt++ {
		suffix, fy, err := s.Engine.NextSuffix(ctx, prefix, certDate)
		if err != nil {
			return nil, err
		}
		cert := build(fy, suffix)
		err = s.DB.WithContext(ctx).Create(cert).Error
		if err == nil {
			return s.GetByID(ctx, cert.CertificateID)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("Certificate creation failed: %w", err)
		}
		log.Warn().Str("prefix", prefix).Int("fiscal_year", fy).Str("suffix", suffix).
			Int("attempt", attempt).Msg("certificate number taken, retrying")
	}
	return nil, ErrDuplicateNumber
}

type resolvedEntry struct {
	itemID           uuid.UUID
	materialOverride string
	sizeOverride     string
}

// resolveItemEntries maps each entry to an item id: an id of an existing
// item is used as-is, anything else is treated as an item code and
// upserted with the overrides as initial material/size.
func (s *Service) resolveItemEntries(ctx context.Context, db *gorm.DB, entries []ItemEntryInput) ([]resolvedEntry, error) {
	itemsSvc := &items.Service{DB: db}
	out := make([]resolvedEntry, 0, len(entries))
	for _, e := range entries {
		ref := strings.TrimSpace(e.Item)
		if ref == "" {
			return nil, ErrInvalidItemRef
		}
		var item *models.Item
		if id, err := uuid.Parse(ref); err == nil {
			existing, err := itemsSvc.GetByID(ctx, id)
			if err == nil {
				item = existing
			} else if !errors.Is(err, items.ErrItemNotFound) {
				return nil, err
			}
		}
		if item == nil {
			created, err := itemsSvc.FindOrCreateByCode(ctx, ref, e.MaterialOverride, e.SizeOverride)
			if err != nil {
				return nil, err
			}
			item = created
		}
		out = append(out, resolvedEntry{
			itemID:           item.ItemID,
			materialOverride: strings.TrimSpace(e.MaterialOverride),
			sizeOverride:     strings.TrimSpace(e.SizeOverride),
		})
	}
	return out, nil
}

// UpdateInput applies partial field changes. Numbering identity
// (prefix, fiscal year, label, suffix) is deliberately absent: a
// certificate's official number never changes once issued, even when
// the certificate date is edited.
type UpdateInput struct {
	CertificateDate         *string          `json:"certificateDate"`
	DateOfTreatment         *string          `json:"dateOfTreatment"`
	CustomerName            *string          `json:"customerName"`
	CustomerAddress         *string          `json:"customerAddress"`
	TruckNo                 *string          `json:"truckNo"`
	ContainerNumber         *string          `json:"containerNumber"`
	BatchNumber             *string          `json:"batchNumber"`
	SoNumber                *string          `json:"soNumber"`
	QtyTreated              *string          `json:"qtyTreated"`
	Country                 *string          `json:"country"`
	AttainingTimeMins       *int             `json:"attainingTimeMins"`
	TotalTreatmentTimeMins  *int             `json:"totalTreatmentTimeMins"`
	MoistureBeforeTreatment *float64         `json:"moistureBeforeTreatment"`
	MoistureAfterTreatment  *float64         `json:"moistureAfterTreatment"`
	Note                    *string          `json:"note"`
	Items                   []ItemEntryInput `json:"items"`
}

// Update applies the supplied fields to an existing certificate. A nil
// Items slice leaves the item list alone; a non-nil one replaces it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Certificate, error) {
	var cert models.Certificate
	if err := s.DB.WithContext(ctx).Where("certificate_id = ?", id).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.CertificateDate != nil {
		d, err := ParseDate(*in.CertificateDate)
		if err != nil {
			return nil, err
		}
		updates["certificate_date"] = d
	}
	if in.DateOfTreatment != nil {
		d, err := ParseDate(*in.DateOfTreatment)
		if err != nil {
			return nil, err
		}
		updates["date_of_treatment"] = d
	}
	if in.CustomerName != nil {
		if strings.TrimSpace(*in.CustomerName) == "" {
			return nil, ErrCustomerNameRequired
		}
		updates["customer_name"] = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerAddress != nil {
		updates["customer_address"] = *in.CustomerAddress
	}
	if in.TruckNo != nil {
		updates["truck_no"] = *in.TruckNo
	}
	if in.ContainerNumber != nil {
		updates["container_number"] = *in.ContainerNumber
	}
	if in.BatchNumber != nil {
		updates["batch_number"] = *in.BatchNumber
	}
	if in.SoNumber != nil {
		updates["so_number"] = *in.SoNumber
	}
	if in.QtyTreated != nil {
		updates["qty_treated"] = *in.QtyTreated
	}
	if in.Country != nil {
		updates["country"] = *in.Country
	}
	if in.AttainingTimeMins != nil {
		updates["attaining_time_mins"] = *in.AttainingTimeMins
	}
	if in.TotalTreatmentTimeMins != nil {
		updates["total_treatment_time_mins"] = *in.TotalTreatmentTimeMins
	}
	if in.MoistureBeforeTreatment != nil {
		updates["moisture_before_treatment"] = *in.MoistureBeforeTreatment
	}
	if in.MoistureAfterTreatment != nil {
		updates["moisture_after_treatment"] = *in.MoistureAfterTreatment
	}
	if in.Note != nil {
		updates["note"] = *in.Note
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&cert).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Items != nil {
			entries, err := s.resolveItemEntries(ctx, tx, in.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("certificate_id = ?", id).Delete(&models.CertificateItem{}).Error; err != nil {
				return err
			}
			for i, e := range entries {
				row := models.CertificateItem{
					CertificateID:    id,
					ItemID:           e.itemID,
					MaterialOverride: e.materialOverride,
					SizeOverride:     e.sizeOverride,
					Position:         i,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a certificate and its item rows. Surrounding suffixes
// are not compacted; the number is retired for good.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("certificate_id = ?", id).Delete(&models.Certificate{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCertificateNotFound
		}
		return tx.Where("certificate_id = ?", id).Delete(&models.CertificateItem{}).Error
	})
}

func (s *Service) withItems(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Items.Item")
}

// GetByID returns one certificate with its items resolved.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error) {
	var cert models.Certificate
	err := s.withItems(s.DB.WithContext(ctx)).Where("certificate_id = ?", id).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// GetAll returns all certificates, newest first, items resolved.
func (s *Service) GetAll(ctx context.Context) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := s.withItems(s.DB.WithContext(ctx)).Order("created_at DESC").Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("Error fetching certificates: %w", err)
	}
	return certs, nil
}

// NextSuffix is the advisory preview for the form: the value is not
// reserved and may be stale by the time the certificate is created.
func (s *Service) NextSuffix(ctx context.Context, refDate string) (string, error) {
	ref := time.Now()
	if strings.TrimSpace(refDate) != "" {
		parsed, err := ParseDate(refDate)
		if err != nil {
			return "", err
		}
		ref = parsed
	}
	suffix, _, err := s.Engine.NextSuffix(ctx, s.defaultPrefix(), ref)
	return suffix, err
}
