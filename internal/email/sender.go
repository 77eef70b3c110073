package email

import "context"

// InquiryNotification is what staff see about a new inquiry.
type InquiryNotification struct {
	CreatedAt   string
	Name        string
	Phone       string
	Email       string
	ProjectType string
	Deadline    string
	Budget      string
	Message     string
	Source      string
	Location    string
	SavedTo     []string
}

type Sender interface {
	SendInquiryNotification(ctx context.Context, toEmail string, inquiry InquiryNotification) error
}

type NoopSender struct{}

func (NoopSender) SendInquiryNotification(ctx context.Context, toEmail string, inquiry InquiryNotification) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
