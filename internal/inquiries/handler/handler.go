package handler

import (
	"encoding/csv"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codemasters_backend/internal/inquiries/domain"
	"codemasters_backend/internal/inquiries/service"
	"codemasters_backend/internal/inquiries/transport"
	"codemasters_backend/platform/apperr"
	"codemasters_backend/platform/httpkit"
	"codemasters_backend/platform/metrics"
	"codemasters_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	jsonDefaultLimit = 50
	jsonMaxLimit     = 200
	csvDefaultLimit  = 200
	csvMaxLimit      = 2000

	dateLayout     = "2006-01-02"
	csvFilename    = "inquiries.csv"
	msgQueryFailed = "Unable to load inquiries right now."
	formatJSON     = "json"
	formatCSV      = "csv"
)

// Handler handles public submissions and the admin listing/export.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new inquiries handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit accepts a contact-form submission.
func (h *Handler) Submit(c *gin.Context) {
	sub, err := transport.DecodeSubmission(c.Request.Body)
	if err != nil {
		httpkit.Rejected(c, []string{transport.ErrInvalidBody.Error()})
		return
	}

	meta := domain.RequestMeta{
		IP:        httpkit.ClientIP(c.Request),
		UserAgent: c.GetHeader("User-Agent"),
	}

	outcome, err := h.svc.Submit(c.Request.Context(), sub, meta)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SubmitResponse{OK: true, Saved: outcome})
}

// List returns stored inquiries as JSON.
func (h *Handler) List(c *gin.Context) {
	defer func() { metrics.RecordAdminQuery(formatJSON, c.Writer.Status()) }()

	q := h.parseQuery(c, jsonDefaultLimit, jsonMaxLimit)
	items, err := h.svc.List(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.InquiryResponse, len(items))
	for i, item := range items {
		resp[i] = transport.ToInquiryResponse(item)
	}

	httpkit.OK(c, transport.ListResponse{OK: true, Count: len(resp), Items: resp})
}

// Export streams stored inquiries as a CSV attachment. Errors are plain text.
func (h *Handler) Export(c *gin.Context) {
	defer func() { metrics.RecordAdminQuery(formatCSV, c.Writer.Status()) }()

	q := h.parseQuery(c, csvDefaultLimit, csvMaxLimit)
	items, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		status, message := http.StatusInternalServerError, msgQueryFailed
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			status, message = appErr.HTTPStatus(), appErr.Message
		}
		c.String(status, message)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvFilename+`"`)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(transport.CSVHeader); err != nil {
		_ = c.Error(err)
		return
	}
	for _, item := range items {
		if err := writer.Write(transport.ToInquiryResponse(item).CSVRecord()); err != nil {
			_ = c.Error(err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) parseQuery(c *gin.Context, fallback, max int) domain.Query {
	var raw transport.ListQuery
	// All fields are strings, so binding cannot fail.
	_ = c.ShouldBindQuery(&raw)

	return domain.Query{
		Search: strings.TrimSpace(raw.Search),
		From:   h.parseDay(raw.From),
		To:     h.parseDay(raw.To),
		Limit:  parseLimit(raw.Limit, fallback, max),
	}
}

// parseDay accepts YYYY-MM-DD; anything else means no bound.
func (h *Handler) parseDay(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" || h.val.Var(value, "datetime="+dateLayout) != nil {
		return time.Time{}
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return day
}

// parseLimit reads any numeric limit (including exponent forms) and clamps
// it to [1, max]; fractions are truncated. Anything that is not a number
// falls back to the default.
func parseLimit(raw string, fallback, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(parsed) {
		return fallback
	}
	if parsed >= float64(max) {
		return max
	}
	if parsed < 1 {
		return 1
	}
	return int(parsed)
}
