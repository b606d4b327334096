package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// Client talks to the inquiry endpoints of the API server.
type Client struct {
	BaseURL string
	// Origin is sent with inquiry requests; the server only accepts
	// origins on its allow list.
	Origin string
	HTTP   *http.Client
}

func NewClient(baseURL, origin string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Origin: origin, HTTP: httpClient}
}

type inquiryRequest struct {
	CompanyName        string   `json:"companyName"`
	ContactPerson      string   `json:"contactPerson"`
	Phone              string   `json:"phone,omitempty"`
	Email              string   `json:"email"`
	Services           []string `json:"services,omitempty"`
	Budget             string   `json:"budget,omitempty"`
	Benchmarks         []string `json:"benchmarks,omitempty"`
	ProjectDescription string   `json:"projectDescription"`
	FileURLs           []string `json:"fileUrls,omitempty"`
}

// SendEmail delivers a validated inquiry and returns the notification
// service's message id when available.
func (c *Client) SendEmail(ctx context.Context, form Form, fileURLs []string) (string, error) {
	payload, err := json.Marshal(inquiryRequest{
		CompanyName:        form.CompanyName,
		ContactPerson:      form.ContactPerson,
		Phone:              form.Phone,
		Email:              form.Email,
		Services:           form.Services,
		Budget:             form.Budget,
		Benchmarks:         form.Benchmarks,
		ProjectDescription: form.ProjectDescription,
		FileURLs:           fileURLs,
	})
	if err != nil {
		return "", fmt.Errorf("encoding inquiry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/send-email", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building inquiry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Origin != "" {
		req.Header.Set("Origin", c.Origin)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &upload.TransportError{Op: "send-email", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		te := &upload.TransportError{Op: "send-email", StatusCode: resp.StatusCode, Status: resp.Status}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body); err == nil && body.Error != "" {
			te.Err = fmt.Errorf("%s", body.Error)
		}
		return "", te
	}

	var out struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding inquiry response: %w", err)
	}
	return out.MessageID, nil
}

// CheckEmailConfig asks the server whether notification delivery is
// configured.
func (c *Client) CheckEmailConfig(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/check-email-config", nil)
	if err != nil {
		return false, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, &upload.TransportError{Op: "check-email-config", Err: err}
	}
	defer resp.Body.Close()

	var out struct {
		IsValid bool `json:"isValid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decoding config response: %w", err)
	}
	return out.IsValid, nil
}
