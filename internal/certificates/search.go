package certificates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sjwi-backend/internal/models"
)

// searchDateLayouts are the formats a search query is probed against to
// decide whether it is a calendar-day search.
var searchDateLayouts = []string{"2006-01-02", "02/01/2006"}

// Search returns certificates matching the free-text query with a
// case-insensitive substring match across the composed certificate
// number, the scalar shipping fields, customer name/address, country,
// and the joined item code/material/size plus both override fields.
// If the query parses as a date, certificates dated that calendar day
// (certificate date or treatment date) are included as well.
// An empty query returns an empty list, not all records.
func (s *Service) Search(ctx context.Context, query string) ([]models.Certificate, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.Certificate{}, nil
	}
	pattern := "%" + strings.ToLower(q) + "%"

	textCols := []string{
		`"Certificates".certificate_no_prefix || '/' || "Certificates".year_label || '/' || "Certificates".suffix`,
		`"Certificates".batch_number`,
		`"Certificates".so_number`,
		`"Certificates".truck_no`,
		`"Certificates".container_number`,
		`"Certificates".customer_name`,
		`"Certificates".customer_address`,
		`"Certificates".country`,
		`i.code`,
		`i.material`,
		`i.size`,
		`ci.material_override`,
		`ci.size_override`,
	}
	conds := make([]string, 0, len(textCols)+2)
	args := make([]interface{}, 0, len(textCols)+4)
	for _, col := range textCols {
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, pattern)
	}

	if day, ok := parseSearchDate(q); ok {
		next := day.AddDate(0, 0, 1)
		conds = append(conds,
			`("Certificates".certificate_date >= ? AND "Certificates".certificate_date < ?)`,
			`("Certificates".date_of_treatment >= ? AND "Certificates".date_of_treatment < ?)`)
		args = append(args, day, next, day, next)
	}

	var certs []models.Certificate
	err := s.withItems(s.DB.WithContext(ctx)).
		Distinct(`"Certificates".*`).
		Joins(`LEFT JOIN "CertificateItems" ci ON ci.certificate_id = "Certificates".certificate_id`).
		Joins(`LEFT JOIN "Items" i ON i.item_id = ci.item_id`).
		Where(strings.Join(conds, " OR "), args...).
		Order(`"Certificates".created_at DESC`).
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("Search failed: %w", err)
	}
	return certs, nil
}

func parseSearchDate(q string) (time.Time, bool) {
	for _, layout := range searchDateLayouts {
		if t, err := time.Parse(layout, q); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
