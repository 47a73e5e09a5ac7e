package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sjwi-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCodeRequired = errors.New("Item code is required")
	ErrItemNotFound = errors.New("Item not found")
)

type Service struct {
	DB *gorm.DB
}

// Create inserts an item, or returns the existing record when the code
// is already taken. The bool reports whether a new row was inserted.
func (s *Service) Create(ctx context.Context, code, material, size string) (*models.Item, bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false, ErrCodeRequired
	}
	var existing models.Item
	err := s.DB.WithContext(ctx).Where("code = ?", code).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	item, err := s.FindOrCreateByCode(ctx, code, material, size)
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// FindOrCreateByCode is the idempotent upsert used when a certificate
// references an item by code: existing items are reused untouched
// (immutable after creation), unknown codes are inserted with the
// supplied material/size. Safe under concurrent creates for one code.
func (s *Service) FindOrCreateByCode(ctx context.Context, code, material, size string) (*models.Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	var item models.Item
	err := s.DB.WithContext(ctx).Where("code = ?", code).First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = models.Item{Code: code, Material: strings.TrimSpace(material), Size: strings.TrimSpace(size)}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Item
			if ferr := s.DB.WithContext(ctx).Where("code = ?", code).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("Item creation failed: %v", err)
	}
	return &item, nil
}

// GetAll returns all items.
func (s *Service) GetAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("Error fetching items: %v", err)
	}
	return items, nil
}

// GetByCode looks up one item by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	if err := s.DB.WithContext(ctx).Where("code = ?", code).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetByID returns one item.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}
