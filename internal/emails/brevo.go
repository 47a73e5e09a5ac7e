package emails

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender       `json:"sender"`
	To          []BrevoTo         `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []BrevoAttachment `json:"attachment,omitempty"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoAttachment carries a base64-encoded file.
type BrevoAttachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

// Sender delivers certificate PDFs by email. Nil = no-op.
type Sender interface {
	SendCertificate(ctx context.Context, toEmail, customerName, certificateNo string, pdf []byte) error
}

// BrevoClient sends transactional email via the Brevo API
// (SENDINBLUE_API_KEY, MAIL_FROM). An empty key disables sending.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "certificates@sjwipallets.in"
}

func (c *BrevoClient) send(ctx context.Context, body BrevoSendRequest) error {
	if c.APIKey == "" {
		return nil
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendCertificate emails the certificate PDF to the recipient with the
// standard covering note.
func (c *BrevoClient) SendCertificate(ctx context.Context, toEmail, customerName, certificateNo string, pdf []byte) error {
	if c.APIKey == "" {
		return nil
	}
	if customerName == "" {
		customerName = "Sir/Madam"
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Shree Jalaram Wood Industries"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     fmt.Sprintf("Heat Treatment Certificate – %s", certificateNo),
		HTMLContent: certificateContent(customerName, certificateNo),
		Attachment: []BrevoAttachment{{
			Content: base64.StdEncoding.EncodeToString(pdf),
			Name:    certificateNo + ".pdf",
		}},
	}
	return c.send(ctx, body)
}

func certificateContent(customerName, certificateNo string) string {
	return fmt.Sprintf(`
    <p>Dear %s,</p>
    <p>Please find attached your Heat Treatment Certificate (<strong>%s</strong>).</p>
    <p>Regards,<br>Shree Jalaram Wood Industries</p>
`, EscapeHTML(customerName), EscapeHTML(certificateNo))
}
