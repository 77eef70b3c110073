package transport

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeSubmissionCoercesValues(t *testing.T) {
	body := `{"name":"Ada","phone":5550100,"budget":2500.5,"deadline":null,"message":true,"location":{"city":"Berlin"},"company":""}`

	sub, err := DecodeSubmission(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sub.Name != "Ada" || sub.Phone != "5550100" || sub.Budget != "2500.5" {
		t.Fatalf("unexpected scalar coercion: %+v", sub)
	}
	if sub.Deadline != "" || sub.Message != "true" {
		t.Fatalf("unexpected null/bool coercion: %+v", sub)
	}
	if sub.Location != `{"city":"Berlin"}` {
		t.Fatalf("unexpected object coercion: %q", sub.Location)
	}
}

func TestDecodeSubmissionEmptyBody(t *testing.T) {
	sub, err := DecodeSubmission(strings.NewReader(""))
	if err != nil {
		t.Fatalf("expected empty body to decode, got %v", err)
	}
	if sub.Name != "" || sub.Source != "" {
		t.Fatalf("expected zero submission, got %+v", sub)
	}
}

func TestDecodeSubmissionRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1,2]`, `{"name":`, `"text"`} {
		if _, err := DecodeSubmission(strings.NewReader(body)); !errors.Is(err, ErrInvalidBody) {
			t.Fatalf("expected ErrInvalidBody for %s, got %v", body, err)
		}
	}
}
