package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/CHJCOCO/ryuin/internal/server/notify"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type sendEmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
}

func (h *Handler) countInquiry(outcome string) {
	if h.metrics != nil {
		h.metrics.Inquiries.WithLabelValues(outcome).Inc()
	}
}

// SendEmail forwards a contact inquiry, with already-uploaded attachment
// URLs, to the notification service.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Browser submissions must come from the site itself.
	if len(h.allowedOrigins) > 0 {
		if _, ok := h.allowedOrigins[r.Header.Get("Origin")]; !ok {
			h.countInquiry("forbidden")
			writeError(w, http.StatusForbidden, "forbidden origin")
			return
		}
	}

	ip := clientIP(r)
	if h.limiter != nil && !h.limiter.Allow(ip) {
		h.countInquiry("throttled")
		h.log.Warn(ctx, "inquiry throttled", "ip", ip)
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var inq notify.Inquiry
	if err := json.NewDecoder(r.Body).Decode(&inq); err != nil {
		writeError(w, http.StatusBadRequest, "request body is invalid")
		return
	}

	if inq.CompanyName == "" || inq.ContactPerson == "" || inq.Email == "" || inq.ProjectDescription == "" {
		h.countInquiry("validation")
		writeError(w, http.StatusBadRequest, "required fields missing")
		return
	}
	if !emailRe.MatchString(inq.Email) {
		h.countInquiry("validation")
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}

	messageID, err := h.notifier.Send(ctx, inq, ip)
	if err != nil {
		if errors.Is(err, upload.ErrConfigIncomplete) {
			h.countInquiry("config")
			h.log.Error(ctx, "inquiry rejected: notification service not configured", "error", err)
			writeError(w, http.StatusInternalServerError, configErrorMessage)
			return
		}
		h.countInquiry("error")
		h.log.Error(ctx, "inquiry delivery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send email")
		return
	}

	h.countInquiry("success")
	h.log.Info(ctx, "inquiry delivered", "company", inq.CompanyName, "files", len(inq.FileURLs))

	writeJSON(w, http.StatusOK, sendEmailResponse{
		Success:   true,
		Message:   "email sent successfully",
		MessageID: messageID,
	})
}

// CheckEmailConfig reports whether the notification service is usable
// without exposing any of its settings.
func (h *Handler) CheckEmailConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"isValid": h.notifier != nil && h.notifier.Complete()})
}
