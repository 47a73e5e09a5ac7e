package customers

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
	ErrNameRequired     = errors.New("Name and address are required")
	ErrCustomerNotFound = errors.New("Customer not found")
	ErrCustomerExists   = errors.New("Customer with this name already exists")
)

type Service struct {
	DB *gorm.DB
}

// Create inserts a new customer. If a customer with the same name
// already exists, ErrCustomerExists is returned together with the
// existing record so the handler can include it in the 409 response.
func (s *Service) Create(ctx context.Context, name, address string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(address) == "" {
		return nil, ErrNameRequired
	}

	var existing models.Customer
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err == nil {
		return &existing, ErrCustomerExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer := &models.Customer{Name: name, Address: strings.TrimSpace(address)}
	if err := s.DB.WithContext(ctx).Create(customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a create race; the winner is the customer of record.
			if ferr := s.DB.WithContext(ctx).Where("name = ?", name).First(&existing).Error; ferr == nil {
				return &existing, ErrCustomerExists
			}
		}
		return nil, fmt.Errorf("Customer creation failed: %v", err)
	}
	return customer, nil
}

// FindOrCreate is the idempotent upsert used by certificate creation:
// an existing name is reused as-is, a new name is inserted with the
// supplied address. Safe under concurrent creates for the same name.
func (s *Service) FindOrCreate(ctx context.Context, name, address string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var customer models.Customer
	err := s.DB.WithContext(ctx).Where("name = ?", name).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{Name: name, Address: strings.TrimSpace(address)}
	if err := s.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Customer
			if ferr := s.DB.WithContext(ctx).Where("name = ?", name).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("Customer creation failed: %v", err)
	}
	return &customer, nil
}

// GetAll returns all customers sorted by name.
func (s *Service) GetAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("Error fetching customers: %v", err)
	}
	return customers, nil
}

// GetByName looks up a customer by exact name (address auto-fill).
func (s *Service) GetByName(ctx context.Context, name string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// GetByID returns one customer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).Where("customer_id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}
