package customers

import (
	"errors"
	"net/url"

	"sjwi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles customer handlers.
type Handlers struct {
	Service *Service
}

type createCustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Create POST /api/v1/customers — strict create; an existing name is a
// 409 carrying the existing record so the form can offer reuse.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Name and address are required", fiber.StatusBadRequest, nil)
	}

	customer, err := h.Service.Create(c.Context(), req.Name, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrCustomerExists):
			return response.Error(c, err.Error(), fiber.StatusConflict, fiber.Map{"customer": customer})
		default:
			return response.Error(c, "Customer creation failed", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Customer created successfully", customer, nil)
}

// GetAll GET /api/v1/customers
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	data, err := h.Service.GetAll(c.Context())
	if err != nil {
		return response.Error(c, "Error fetching customers", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Customers fetched successfully", data, nil)
}

// GetByName GET /api/v1/customers/name/:name — address auto-fill.
func (h *Handlers) GetByName(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		name = c.Params("name")
	}
	customer, err := h.Service.GetByName(c.Context(), name)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching customer", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Customer fetched successfully", customer, nil)
}

// GetByID GET /api/v1/customers/:id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid customer ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	customer, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching customer", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Customer fetched successfully", customer, nil)
}
