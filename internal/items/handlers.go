package items

import (
	"errors"

	"sjwi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles item handlers.
type Handlers struct {
	Service *Service
}

type createItemRequest struct {
	Code     string `json:"code"`
	Material string `json:"material"`
	Size     string `json:"size"`
}

// Create POST /api/v1/items — an existing code returns the existing
// record with 200 rather than failing.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Item code is required", fiber.StatusBadRequest, nil)
	}

	item, created, err := h.Service.Create(c.Context(), req.Code, req.Material, req.Size)
	if err != nil {
		if errors.Is(err, ErrCodeRequired) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Item creation failed", fiber.StatusInternalServerError, nil)
	}
	if !created {
		return response.Success(c, "Item already exists", item, nil)
	}
	return response.SuccessCreated(c, "Item created successfully", item, nil)
}

// GetAll GET /api/v1/items
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	data, err := h.Service.GetAll(c.Context())
	if err != nil {
		return response.Error(c, "Error fetching items", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Items fetched successfully", data, nil)
}

// GetByCode GET /api/v1/items/code/:code
func (h *Handlers) GetByCode(c *fiber.Ctx) error {
	item, err := h.Service.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching item", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Item fetched successfully", item, nil)
}
