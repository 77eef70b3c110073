package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"codemasters_backend/internal/inquiries/domain"
)

// ErrInvalidBody is returned when the request body is not a JSON object.
var ErrInvalidBody = errors.New("Invalid request body.")

// DecodeSubmission reads a JSON object and coerces the known fields to
// strings. An empty body is treated as an empty object.
func DecodeSubmission(r io.Reader) (domain.Submission, error) {
	raw := map[string]interface{}{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return domain.Submission{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	return domain.Submission{
		Name:        coerce(raw["name"]),
		Email:       coerce(raw["email"]),
		Phone:       coerce(raw["phone"]),
		ProjectType: coerce(raw["projectType"]),
		Deadline:    coerce(raw["deadline"]),
		Budget:      coerce(raw["budget"]),
		Message:     coerce(raw["message"]),
		Company:     coerce(raw["company"]),
		Source:      coerce(raw["source"]),
		Location:    coerce(raw["location"]),
	}, nil
}

func coerce(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// ListQuery is the admin listing query string.
type ListQuery struct {
	Search string `form:"search"`
	From   string `form:"from"`
	To     string `form:"to"`
	Limit  string `form:"limit"`
}

// SubmitResponse reports where an accepted inquiry was stored.
type SubmitResponse struct {
	OK    bool               `json:"ok"`
	Saved domain.SaveOutcome `json:"saved"`
}

// InquiryResponse is the admin view of a stored inquiry. Request metadata
// (ip, userAgent) is never exposed.
type InquiryResponse struct {
	CreatedAt   string `json:"createdAt"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ProjectType string `json:"projectType"`
	Deadline    string `json:"deadline"`
	Budget      string `json:"budget"`
	Message     string `json:"message"`
	Source      string `json:"source"`
	Location    string `json:"location"`
}

// ListResponse is the admin JSON listing.
type ListResponse struct {
	OK    bool              `json:"ok"`
	Count int               `json:"count"`
	Items []InquiryResponse `json:"items"`
}

// CSVHeader names the export columns in order.
var CSVHeader = []string{"createdAt", "name", "phone", "email", "projectType", "deadline", "budget", "message", "source", "location"}

// ToInquiryResponse maps a stored inquiry to its admin view.
func ToInquiryResponse(i domain.Inquiry) InquiryResponse {
	return InquiryResponse{
		CreatedAt:   i.CreatedAt,
		Name:        i.Name,
		Phone:       i.Phone,
		Email:       i.Email,
		ProjectType: i.ProjectType,
		Deadline:    i.Deadline,
		Budget:      i.Budget,
		Message:     i.Message,
		Source:      i.Source,
		Location:    i.Location,
	}
}

// CSVRecord returns the export columns for r in CSVHeader order.
func (r InquiryResponse) CSVRecord() []string {
	return []string{r.CreatedAt, r.Name, r.Phone, r.Email, r.ProjectType, r.Deadline, r.Budget, r.Message, r.Source, r.Location}
}
