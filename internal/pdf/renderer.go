package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Converter turns rendered certificate HTML into a PDF document.
type Converter interface {
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

// HTTPConverter is a Converter backed by an external HTML-to-PDF
// service (PDF_SERVICE_URL): the HTML is posted as the request body and
// the service answers with the PDF bytes.
type HTTPConverter struct {
	BaseURL string
	Client  *http.Client
}

func (c *HTTPConverter) Convert(ctx context.Context, html []byte) ([]byte, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("pdf: PDF_SERVICE_URL is not set")
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/convert"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdf service request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pdf service response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pdf service error: status %d body: %s", resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

func truncateBody(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// Service renders certificate views to HTML and converts them to PDF.
type Service struct {
	Converter Converter
}

// RenderHTML executes the certificate template for the view.
func (s *Service) RenderHTML(view CertificateView) ([]byte, error) {
	var buf bytes.Buffer
	if err := certificateTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("certificate template: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces the final PDF for a certificate view.
func (s *Service) Render(ctx context.Context, view CertificateView) ([]byte, error) {
	html, err := s.RenderHTML(view)
	if err != nil {
		return nil, err
	}
	return s.Converter.Convert(ctx, html)
}
