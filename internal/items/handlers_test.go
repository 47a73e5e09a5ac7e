package items

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *Service) {
	s := setupService(t)
	h := &Handlers{Service: s}
	app := fiber.New()
	app.Post("/api/v1/items/", h.Create)
	app.Get("/api/v1/items/", h.GetAll)
	app.Get("/api/v1/items/code/:code", h.GetByCode)
	return app, s
}

func TestCreateHandler_NewItem(t *testing.T) {
	app, _ := setupApp(t)

	body, _ := json.Marshal(map[string]string{"code": "PAL-01", "material": "Pine", "size": "1200x800"})
	req := httptest.NewRequest("POST", "/api/v1/items/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Item created successfully", out["message"])
}

func TestCreateHandler_ExistingCodeReturns200(t *testing.T) {
	app, s := setupApp(t)
	_, err := s.FindOrCreateByCode(context.Background(), "PAL-01", "Pine", "1200x800")
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"code": "PAL-01", "material": "Oak"})
	req := httptest.NewRequest("POST", "/api/v1/items/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Item already exists", out["message"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "Pine", data["material"])
}

func TestCreateHandler_MissingCode(t *testing.T) {
	app, _ := setupApp(t)

	body, _ := json.Marshal(map[string]string{"material": "Pine"})
	req := httptest.NewRequest("POST", "/api/v1/items/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetByCodeHandler(t *testing.T) {
	app, s := setupApp(t)
	_, err := s.FindOrCreateByCode(context.Background(), "PAL-01", "Pine", "1200x800")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/items/code/PAL-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/items/code/NOPE", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
