package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"codemasters_backend/platform/phone"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type inquiryNotificationEmailData struct {
	baseEmailData
	Inquiry   InquiryNotification
	PhoneLink template.URL
}

func renderInquiryNotification(inquiry InquiryNotification, phoneRegion string) (subject, content string, err error) {
	subject = fmt.Sprintf(subjectInquiryNotificationFmt, inquiry.Name, inquiry.ProjectType)
	content, err = renderEmailTemplate("inquiry_notification.html", inquiryNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:      "New inquiry",
			Heading:    "New inquiry received",
			Subheading: inquiry.CreatedAt,
		},
		Inquiry:   inquiry,
		PhoneLink: template.URL(phone.TelURI(inquiry.Phone, phoneRegion)),
	})
	return subject, content, err
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
