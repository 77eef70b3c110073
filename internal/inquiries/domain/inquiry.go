// Package domain holds the inquiry record and the rules every submission
// must pass before it reaches a sink.
package domain

import "time"

const (
	// TimestampLayout is the stored createdAt format: UTC with millisecond
	// precision, so lexical order matches chronological order.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	// DefaultSource tags submissions that do not name their origin.
	DefaultSource = "website"
)

// Inquiry is a single contact-form submission. It is never updated once
// written.
type Inquiry struct {
	CreatedAt   string `bson:"createdAt"`
	Name        string `bson:"name"`
	Phone       string `bson:"phone"`
	Email       string `bson:"email"`
	ProjectType string `bson:"projectType"`
	Deadline    string `bson:"deadline"`
	Budget      string `bson:"budget"`
	Message     string `bson:"message"`
	Source      string `bson:"source"`
	Location    string `bson:"location"`
	IP          string `bson:"ip,omitempty"`
	UserAgent   string `bson:"userAgent,omitempty"`
}

// Submission is the untrusted form payload with every value coerced to a
// string.
type Submission struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Deadline    string
	Budget      string
	Message     string
	Company     string // honeypot
	Source      string
	Location    string
}

// RequestMeta carries what the transport knows about the caller.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Complete stamps a validated inquiry with server-assigned and
// client-supplied metadata.
func (i Inquiry) Complete(sub Submission, meta RequestMeta, now time.Time) Inquiry {
	i.CreatedAt = FormatTimestamp(now)
	i.IP = meta.IP
	i.UserAgent = meta.UserAgent
	i.Source = sub.Source
	if i.Source == "" {
		i.Source = DefaultSource
	}
	i.Location = sub.Location
	return i
}

// FormatTimestamp renders t in the stored createdAt format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SheetRow returns the spreadsheet columns in header order.
func (i Inquiry) SheetRow() []interface{} {
	return []interface{}{
		i.CreatedAt,
		i.Name,
		i.Phone,
		i.Email,
		i.ProjectType,
		i.Deadline,
		i.Budget,
		i.Message,
		i.Source,
		i.Location,
		i.IP,
	}
}

// SheetHeader labels the columns produced by SheetRow.
var SheetHeader = []interface{}{
	"Created At",
	"Name",
	"Phone",
	"Email",
	"Project Type",
	"Deadline",
	"Budget",
	"Message",
	"Source",
	"Location",
	"IP",
}
