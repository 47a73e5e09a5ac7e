package certificates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sjwi-backend/internal/customers"
	"sjwi-backend/internal/emails"
	"sjwi-backend/internal/fiscalyear"
	"sjwi-backend/internal/models"
	"sjwi-backend/internal/pdf"
	"sjwi-backend/internal/pkg/response"
	"sjwi-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers bundles certificate handlers with their collaborators.
type Handlers struct {
	Service   *Service
	Customers *customers.Service
	PDF       *pdf.Service
	Mailer    emails.Sender
}

func isValidationErr(err error) bool {
	switch {
	case errors.Is(err, ErrCertificateDateRequired),
		errors.Is(err, ErrTreatmentDateRequired),
		errors.Is(err, ErrCustomerNameRequired),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidItemRef):
		return true
	}
	return false
}

// Create POST /api/v1/certificates
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	cert, err := h.Service.Create(c.Context(), in)
	if err != nil {
		switch {
		case isValidationErr(err):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrDuplicateNumber):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			log.Error().Err(err).Msg("certificate creation failed")
			return response.Error(c, "Certificate creation failed", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Certificate created successfully", cert, nil)
}

// GetAll GET /api/v1/certificates
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	certs, err := h.Service.GetAll(c.Context())
	if err != nil {
		return response.Error(c, "Error fetching certificates", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Certificates fetched successfully", certs, nil)
}

// GetByID GET /api/v1/certificates/:id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid certificate ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	cert, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCertificateNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching certificate", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Certificate fetched successfully", cert, nil)
}

// Update PUT /api/v1/certificates/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid certificate ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	cert, err := h.Service.Update(c.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrCertificateNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case isValidationErr(err):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Error updating certificate", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Certificate updated successfully", cert, nil)
}

// Delete DELETE /api/v1/certificates/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid certificate ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, ErrCertificateNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error deleting certificate", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Certificate deleted", nil, nil)
}

// Search GET /api/v1/certificates/search?query=
func (h *Handlers) Search(c *fiber.Ctx) error {
	certs, err := h.Service.Search(c.Context(), c.Query("query"))
	if err != nil {
		return response.Error(c, "Search failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Search completed", certs, nil)
}

// NextSuffix GET /api/v1/certificates/next-suffix?date=
// Advisory preview for the form; the value is not reserved.
func (h *Handlers) NextSuffix(c *fiber.Ctx) error {
	suffix, err := h.Service.NextSuffix(c.Context(), c.Query("date"))
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Failed to get next suffix", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Next suffix computed", fiber.Map{"nextSuffix": suffix}, nil)
}

// buildView resolves the certificate into its print view, preferring
// the customer record's address over the denormalized copy.
func (h *Handlers) buildView(c *fiber.Ctx, cert *models.Certificate, includeHeader bool) pdf.CertificateView {
	customer, err := h.Customers.GetByName(c.Context(), cert.CustomerName)
	if err != nil {
		customer = nil
	}
	return pdf.BuildView(cert, customer, includeHeader)
}

// DownloadPDF GET /api/v1/certificates/:id/pdf?header=false
func (h *Handlers) DownloadPDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid certificate ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	cert, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCertificateNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching certificate", fiber.StatusInternalServerError, nil)
	}

	includeHeader := c.Query("header") != "false"
	buf, err := h.PDF.Render(c.Context(), h.buildView(c, cert, includeHeader))
	if err != nil {
		log.Error().Err(err).Str("certificate_id", id.String()).Msg("pdf download failed")
		return response.Error(c, "PDF download failed", fiber.StatusBadGateway, nil)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", cert.CertificateNo()+".pdf"))
	return c.Send(buf)
}

// previewRequest is CreateInput plus an optional fiscal-year label for
// unsaved data.
type previewRequest struct {
	CreateInput
	YearLabel string `json:"yearLabel"`
}

// Preview POST /api/v1/certificates/preview — renders inline data to a
// PDF without saving. Unknown item codes stay blank; nothing is
// created as a side effect of previewing.
func (h *Handlers) Preview(c *fiber.Ctx) error {
	var req previewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	certDate, _ := ParseDate(req.CertificateDate)
	treatDate, _ := ParseDate(req.DateOfTreatment)

	prefix := strings.TrimSpace(req.CertificateNoPrefix)
	if prefix == "" {
		prefix = models.DefaultCertificatePrefix
	}
	suffix := strings.TrimSpace(req.Suffix)
	if suffix == "" {
		suffix = "PREVIEW"
	}
	label := strings.TrimSpace(req.YearLabel)
	if label == "" {
		ref := certDate
		if ref.IsZero() {
			ref = time.Now()
		}
		label = fiscalyear.Label(fiscalyear.Start(ref))
	}

	view := pdf.CertificateView{
		CertificateNo:           prefix + "/" + label + "/" + suffix,
		CertificateDate:         pdf.FormatDate(certDate),
		Year:                    label,
		CustomerName:            req.CustomerName,
		CustomerAddress:         req.CustomerAddress,
		QtyTreated:              req.QtyTreated,
		TruckNo:                 req.TruckNo,
		BatchNumber:             req.BatchNumber,
		SoNumber:                req.SoNumber,
		ContainerNumber:         req.ContainerNumber,
		Country:                 req.Country,
		Note:                    req.Note,
		DateOfTreatment:         pdf.FormatDate(treatDate),
		AttainingTimeMins:       req.AttainingTimeMins,
		TotalTreatmentTimeMins:  req.TotalTreatmentTimeMins,
		MoistureBeforeTreatment: req.MoistureBeforeTreatment,
		MoistureAfterTreatment:  req.MoistureAfterTreatment,
		IncludeHeader:           true,
	}
	for _, entry := range req.Items {
		row := pdf.ItemView{Material: entry.MaterialOverride, Size: entry.SizeOverride}
		if id, err := uuid.Parse(strings.TrimSpace(entry.Item)); err == nil {
			if item, err := h.Service.Items.GetByID(c.Context(), id); err == nil {
				row.Code = item.Code
				if row.Material == "" {
					row.Material = item.Material
				}
				if row.Size == "" {
					row.Size = item.Size
				}
			}
		} else if item, err := h.Service.Items.GetByCode(c.Context(), strings.TrimSpace(entry.Item)); err == nil {
			row.Code = item.Code
			if row.Material == "" {
				row.Material = item.Material
			}
			if row.Size == "" {
				row.Size = item.Size
			}
		} else {
			row.Code = strings.TrimSpace(entry.Item)
		}
		view.Items = append(view.Items, row)
	}

	buf, err := h.PDF.Render(c.Context(), view)
	if err != nil {
		log.Error().Err(err).Msg("pdf preview failed")
		return response.Error(c, "PDF Preview failed", fiber.StatusBadGateway, nil)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline; filename=certificate-preview.pdf")
	return c.Send(buf)
}

type emailRequest struct {
	Email         string `json:"email"`
	IncludeHeader *bool  `json:"includeHeader"`
}

// SendEmail POST /api/v1/certificates/:id/email
func (h *Handlers) SendEmail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid certificate ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	var req emailRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidEmail(req.Email) {
		return response.Error(c, "Invalid email address", fiber.StatusBadRequest, nil)
	}
	includeHeader := true
	if req.IncludeHeader != nil {
		includeHeader = *req.IncludeHeader
	}

	cert, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCertificateNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching certificate", fiber.StatusInternalServerError, nil)
	}

	buf, err := h.PDF.Render(c.Context(), h.buildView(c, cert, includeHeader))
	if err != nil {
		log.Error().Err(err).Str("certificate_id", id.String()).Msg("pdf render for email failed")
		return response.Error(c, "Failed to send email", fiber.StatusBadGateway, nil)
	}

	subject := fmt.Sprintf("Heat Treatment Certificate – %s", cert.CertificateNo())
	payload := fiber.Map{"email": req.Email, "includeHeader": includeHeader, "certificateNo": cert.CertificateNo()}

	if err := h.Mailer.SendCertificate(c.Context(), req.Email, cert.CustomerName, cert.CertificateNo(), buf); err != nil {
		log.Error().Err(err).Str("certificate_id", id.String()).Msg("certificate email failed")
		if logErr := h.Service.LogEmail(c.Context(), id, req.Email, subject, models.EmailStatusFailed, payload); logErr != nil {
			log.Error().Err(logErr).Msg("email log write failed")
		}
		return response.Error(c, "Failed to send email", fiber.StatusBadGateway, nil)
	}
	if logErr := h.Service.LogEmail(c.Context(), id, req.Email, subject, models.EmailStatusSent, payload); logErr != nil {
		log.Error().Err(logErr).Msg("email log write failed")
	}

	return response.Success(c, fmt.Sprintf("Certificate sent to %s", req.Email), nil, nil)
}

// EmailHistory GET /api/v1/certificates/:id/emails
func (h *Handlers) EmailHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid certificate ID format (must be a valid UUID)", fiber.StatusBadRequest, nil)
	}
	logs, err := h.Service.EmailHistory(c.Context(), id)
	if err != nil {
		return response.Error(c, "Error fetching email history", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Email history fetched successfully", logs, nil)
}
