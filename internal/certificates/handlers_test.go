package certificates

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"sjwi-backend/internal/models"
	"sjwi-backend/internal/pdf"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConverter returns fixed PDF bytes without calling the external service.
type fakeConverter struct {
	lastHTML []byte
	fail     bool
}

func (f *fakeConverter) Convert(ctx context.Context, html []byte) ([]byte, error) {
	if f.fail {
		return nil, assert.AnError
	}
	f.lastHTML = html
	return []byte("%PDF-1.4 fake"), nil
}

// fakeMailer records sends instead of hitting Brevo.
type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) SendCertificate(ctx context.Context, toEmail, customerName, certificateNo string, pdfBytes []byte) error {
	if f.fail {
		return assert.AnError
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func setupApp(t *testing.T) (*fiber.App, *Service, *fakeConverter, *fakeMailer) {
	s := setupService(t)
	conv := &fakeConverter{}
	mailer := &fakeMailer{}
	h := &Handlers{
		Service:   s,
		Customers: s.Customers,
		PDF:       &pdf.Service{Converter: conv},
		Mailer:    mailer,
	}

	app := fiber.New()
	app.Post("/api/v1/certificates/", h.Create)
	app.Get("/api/v1/certificates/", h.GetAll)
	app.Get("/api/v1/certificates/search", h.Search)
	app.Get("/api/v1/certificates/next-suffix", h.NextSuffix)
	app.Post("/api/v1/certificates/preview", h.Preview)
	app.Get("/api/v1/certificates/:id", h.GetByID)
	app.Put("/api/v1/certificates/:id", h.Update)
	app.Delete("/api/v1/certificates/:id", h.Delete)
	app.Get("/api/v1/certificates/:id/pdf", h.DownloadPDF)
	app.Post("/api/v1/certificates/:id/email", h.SendEmail)
	app.Get("/api/v1/certificates/:id/emails", h.EmailHistory)
	return app, s, conv, mailer
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (map[string]interface{}, int) {
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return out, resp.StatusCode
}

func TestCreateHandler_Success(t *testing.T) {
	app, _, _, _ := setupApp(t)

	out, code := postJSON(t, app, "/api/v1/certificates/", basicInput())
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "Certificate created successfully", out["message"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "001", data["suffix"])
	assert.Equal(t, "2025-26", data["yearLabel"])
}

func TestCreateHandler_ValidationError(t *testing.T) {
	app, _, _, _ := setupApp(t)

	in := basicInput()
	in.CustomerName = ""
	out, code := postJSON(t, app, "/api/v1/certificates/", in)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "error", out["status"])
}

func TestCreateHandler_DuplicateSuffixConflict(t *testing.T) {
	app, _, _, _ := setupApp(t)

	in := basicInput()
	in.Suffix = "042"
	_, code := postJSON(t, app, "/api/v1/certificates/", in)
	require.Equal(t, fiber.StatusCreated, code)

	out, code := postJSON(t, app, "/api/v1/certificates/", in)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "error", out["status"])
}

func TestGetByIDHandler(t *testing.T) {
	app, s, _, _ := setupApp(t)
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/certificates/"+cert.CertificateID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Bad UUID
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/certificates/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNextSuffixHandler(t *testing.T) {
	app, _, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/certificates/next-suffix?date=2025-04-20", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "001", data["nextSuffix"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/certificates/next-suffix?date=garbage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSearchHandler(t *testing.T) {
	app, s, _, _ := setupApp(t)
	_, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/certificates/search?query=acme", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Len(t, out["data"], 1)

	// Empty query gives an empty array, not null
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/certificates/search", nil))
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &out))
	arr, ok := out["data"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, arr)
}

func TestDownloadPDFHandler(t *testing.T) {
	app, s, conv, _ := setupApp(t)
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/certificates/"+cert.CertificateID.String()+"/pdf", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.4 fake", string(body))
	// Letterhead is in the HTML by default
	assert.Contains(t, string(conv.lastHTML), cert.CertificateNo())

	// header=false renders without the letterhead block
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/certificates/"+cert.CertificateID.String()+"/pdf?header=false", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDownloadPDFHandler_ConverterDown(t *testing.T) {
	app, s, conv, _ := setupApp(t)
	conv.fail = true
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/certificates/"+cert.CertificateID.String()+"/pdf", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestPreviewHandler_NoSideEffects(t *testing.T) {
	app, s, _, _ := setupApp(t)

	in := basicInput()
	in.Items = []ItemEntryInput{{Item: "NEW-CODE", MaterialOverride: "Pine"}}
	b, _ := json.Marshal(in)
	req := httptest.NewRequest("POST", "/api/v1/certificates/preview", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inline")

	// Nothing was created
	var certCount, itemCount int64
	require.NoError(t, s.DB.Model(&models.Certificate{}).Count(&certCount).Error)
	require.NoError(t, s.DB.Model(&models.Item{}).Count(&itemCount).Error)
	assert.Zero(t, certCount)
	assert.Zero(t, itemCount)
}

func TestSendEmailHandler(t *testing.T) {
	app, s, _, mailer := setupApp(t)
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	out, code := postJSON(t, app, "/api/v1/certificates/"+cert.CertificateID.String()+"/email",
		map[string]interface{}{"email": "buyer@example.com"})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, []string{"buyer@example.com"}, mailer.sent)

	logs, err := s.EmailHistory(context.Background(), cert.CertificateID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.EmailStatusSent, logs[0].Status)
}

func TestSendEmailHandler_InvalidRecipient(t *testing.T) {
	app, s, _, _ := setupApp(t)
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	_, code := postJSON(t, app, "/api/v1/certificates/"+cert.CertificateID.String()+"/email",
		map[string]interface{}{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	_, code = postJSON(t, app, "/api/v1/certificates/"+cert.CertificateID.String()+"/email",
		map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestSendEmailHandler_MailerFailureIsLogged(t *testing.T) {
	app, s, _, mailer := setupApp(t)
	mailer.fail = true
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	_, code := postJSON(t, app, "/api/v1/certificates/"+cert.CertificateID.String()+"/email",
		map[string]interface{}{"email": "buyer@example.com"})
	assert.Equal(t, fiber.StatusBadGateway, code)

	logs, err := s.EmailHistory(context.Background(), cert.CertificateID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.EmailStatusFailed, logs[0].Status)
}

func TestDeleteHandler(t *testing.T) {
	app, s, _, _ := setupApp(t)
	cert, err := s.Create(context.Background(), basicInput())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/certificates/"+cert.CertificateID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/certificates/"+cert.CertificateID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
