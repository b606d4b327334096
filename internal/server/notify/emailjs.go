// Package notify forwards contact inquiries to the external notification
// service. The service is an opaque HTTP API (EmailJS); this package only
// assembles the payload and reports success or failure.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// kst renders inquiry timestamps in the studio's local time.
var kst = time.FixedZone("KST", 9*60*60)

// seam for tests
var nowFunc = time.Now

// Config identifies the notification-service account and template.
type Config struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	// ContactEmail is the inbox the inquiry is delivered to.
	ContactEmail string
}

// Missing returns the names of required settings that are absent.
func (c Config) Missing() []string {
	var m []string
	if c.ServiceID == "" {
		m = append(m, "EMAILJS_SERVICE_ID")
	}
	if c.TemplateID == "" {
		m = append(m, "EMAILJS_TEMPLATE_ID")
	}
	if c.PublicKey == "" {
		m = append(m, "EMAILJS_PUBLIC_KEY")
	}
	return m
}

// Complete reports whether the notification service can be used at all.
func (c Config) Complete() bool { return len(c.Missing()) == 0 }

// Inquiry is one contact-form submission, attachment URLs already
// resolved by the upload pipeline.
type Inquiry struct {
	CompanyName        string   `json:"companyName"`
	ContactPerson      string   `json:"contactPerson"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	Services           []string `json:"services"`
	Budget             string   `json:"budget"`
	Benchmarks         []string `json:"benchmarks"`
	ProjectDescription string   `json:"projectDescription"`
	FileURLs           []string `json:"fileUrls"`
}

// Client posts inquiries to the EmailJS send endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.emailjs.com"
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: 15 * time.Second}}
}

// Complete reports whether the client has everything it needs to send.
func (c *Client) Complete() bool { return c.cfg.Complete() }

// templateParams flattens an inquiry into the key set the mail template
// expects. Labels match the template, which is written in Korean.
func (c *Client) templateParams(inq Inquiry, clientIP string) map[string]any {
	fileLines := make([]string, 0, len(inq.FileURLs))
	for i, u := range inq.FileURLs {
		fileLines = append(fileLines, fmt.Sprintf("첨부파일 %d: %s", i+1, u))
	}
	fileURLs := "첨부파일 없음"
	if len(fileLines) > 0 {
		fileURLs = strings.Join(fileLines, "\n\n")
	}

	services := "선택된 서비스 없음"
	if len(inq.Services) > 0 {
		services = strings.Join(inq.Services, ", ")
	}

	budget := inq.Budget
	if budget == "" {
		budget = "예산 미선택"
	}

	benchmark := func(i int) string {
		if i < len(inq.Benchmarks) && inq.Benchmarks[i] != "" {
			return inq.Benchmarks[i]
		}
		return "없음"
	}

	return map[string]any{
		"company_name":        inq.CompanyName,
		"contact_person":      inq.ContactPerson,
		"phone":               inq.Phone,
		"email":               inq.Email,
		"services":            services,
		"budget":              budget,
		"benchmark1":          benchmark(0),
		"benchmark2":          benchmark(1),
		"benchmark3":          benchmark(2),
		"project_description": inq.ProjectDescription,
		"file_urls":           fileURLs,
		"file_count":          len(inq.FileURLs),
		"to_email":            c.cfg.ContactEmail,
		"sent_at":             nowFunc().In(kst).Format("2006-01-02 15:04:05"),
		"client_ip":           clientIP,
	}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams map[string]any `json:"template_params"`
}

// Send delivers the inquiry. It returns upload.ErrConfigIncomplete when
// the account settings are missing, and a TransportError-shaped failure
// otherwise; the response body text serves as message id on success.
func (c *Client) Send(ctx context.Context, inq Inquiry, clientIP string) (string, error) {
	if m := c.cfg.Missing(); len(m) > 0 {
		return "", fmt.Errorf("%w: %s", upload.ErrConfigIncomplete, strings.Join(m, ", "))
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: c.templateParams(inq, clientIP),
	})
	if err != nil {
		return "", fmt.Errorf("marshal send request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &upload.TransportError{Op: "send-email", Err: err}
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &upload.TransportError{Op: "send-email", StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return string(text), nil
}
