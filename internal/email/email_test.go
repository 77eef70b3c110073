package email

import (
	"bytes"
	"strings"
	"testing"
)

func sampleInquiry() InquiryNotification {
	return InquiryNotification{
		CreatedAt:   "2024-05-01T10:00:00.000Z",
		Name:        "Ada <script>",
		Email:       "ada@example.com",
		ProjectType: "Website",
		Message:     "Please build our site.",
		Source:      "website",
		SavedTo:     []string{"mongo", "sheets"},
	}
}

func TestRenderInquiryNotification(t *testing.T) {
	subject, content, err := renderInquiryNotification(sampleInquiry(), "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if subject != "New inquiry from Ada <script> (Website)" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if strings.Contains(content, "<script>") {
		t.Fatal("expected user input to be escaped")
	}
	for _, want := range []string{"Ada &lt;script&gt;", "mailto:ada@example.com", "Please build our site.", "Stored in: mongo, sheets"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in content", want)
		}
	}
	if strings.Contains(content, ">Phone<") {
		t.Fatal("expected empty phone row to be omitted")
	}
}

func TestRenderInquiryNotificationLinksValidPhone(t *testing.T) {
	inquiry := sampleInquiry()
	inquiry.Phone = "+31201234567"

	_, content, err := renderInquiryNotification(inquiry, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(content, `href="tel:+31201234567"`) {
		t.Fatal("expected a tel: link for a valid phone number")
	}

	inquiry.Phone = "020 123 4567"
	_, content, err = renderInquiryNotification(inquiry, "NL")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(content, `href="tel:+31201234567"`) {
		t.Fatal("expected a national number to resolve through the configured region")
	}

	inquiry.Phone = "12"
	_, content, err = renderInquiryNotification(inquiry, "NL")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(content, "tel:") || !strings.Contains(content, ">12<") {
		t.Fatal("expected an unparseable phone to render as plain text")
	}
}

func TestBuildMessage(t *testing.T) {
	sender := &SMTPSender{fromName: "Codemasters", fromEmail: "noreply@codemasters.example"}

	msg, err := sender.buildMessage("staff@codemasters.example", "New inquiry", "<p>hi</p>")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{"staff@codemasters.example", "noreply@codemasters.example", "Subject: New inquiry"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("expected %q in message:\n%s", want, raw)
		}
	}
}

func TestBuildMessageRejectsBadRecipient(t *testing.T) {
	sender := &SMTPSender{fromName: "Codemasters", fromEmail: "noreply@codemasters.example"}
	if _, err := sender.buildMessage("not an address", "x", "y"); err == nil {
		t.Fatal("expected invalid recipient to be rejected")
	}
}
