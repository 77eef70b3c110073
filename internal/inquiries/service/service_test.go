package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codemasters_backend/internal/events"
	"codemasters_backend/internal/inquiries/domain"
	"codemasters_backend/platform/apperr"
	"codemasters_backend/platform/logger"
)

type fakeStore struct {
	mu       sync.Mutex
	inserted []domain.Inquiry
	err      error
	queries  []domain.Query
	items    []domain.Inquiry
}

func (f *fakeStore) Insert(_ context.Context, inquiry domain.Inquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, inquiry)
	return nil
}

func (f *fakeStore) Find(_ context.Context, q domain.Query) ([]domain.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.items, f.err
}

type fakeSink struct {
	calls  atomic.Int32
	result domain.SinkResult
	err    error
	panics bool
}

func (f *fakeSink) Write(context.Context, domain.Inquiry) (domain.SinkResult, error) {
	f.calls.Add(1)
	if f.panics {
		panic("sheets exploded")
	}
	return f.result, f.err
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func validSubmission() domain.Submission {
	return domain.Submission{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		ProjectType: "Website",
		Message:     "We need a new landing page.",
		Location:    "London",
	}
}

func newService(store InquiryStore, sheets Sink, bus events.Bus) *Service {
	svc := New(store, sheets, bus, logger.Discard())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmitUnconfiguredDeploymentStillAccepts(t *testing.T) {
	// Nothing is persisted, yet the caller is told the inquiry was saved.
	sheets := &fakeSink{result: domain.Skipped("GOOGLE_SHEETS_SPREADSHEET_ID not set")}
	svc := newService(nil, sheets, nil)

	outcome, err := svc.Submit(context.Background(), validSubmission(), domain.RequestMeta{})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !outcome.Mongo.Skipped || !outcome.Sheets.Skipped {
		t.Fatalf("expected both sinks skipped, got %+v", outcome)
	}
}

func TestSubmitInvalidDoesNotTouchSinks(t *testing.T) {
	store := &fakeStore{}
	sheets := &fakeSink{result: domain.Saved()}
	bus := &recordingBus{}
	svc := newService(store, sheets, bus)

	sub := validSubmission()
	sub.Email = ""

	_, err := svc.Submit(context.Background(), sub, domain.RequestMeta{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || len(appErr.Details) != 1 || appErr.Details[0] != domain.ErrContactRequired {
		t.Fatalf("unexpected details %v", err)
	}
	if len(store.inserted) != 0 || sheets.calls.Load() != 0 || len(bus.published) != 0 {
		t.Fatal("expected no sink writes or events for an invalid submission")
	}
}

func TestSubmitWritesBothSinksAndPublishes(t *testing.T) {
	store := &fakeStore{}
	sheets := &fakeSink{result: domain.Saved()}
	bus := &recordingBus{}
	svc := newService(store, sheets, bus)

	outcome, err := svc.Submit(context.Background(), validSubmission(), domain.RequestMeta{IP: "203.0.113.1", UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Mongo.OK || !outcome.Sheets.OK {
		t.Fatalf("expected both sinks ok, got %+v", outcome)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserted))
	}
	stored := store.inserted[0]
	if stored.CreatedAt != "2024-05-01T10:00:00.000Z" || stored.Source != domain.DefaultSource || stored.IP != "203.0.113.1" || stored.UserAgent != "test-agent" {
		t.Fatalf("unexpected stored inquiry %+v", stored)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	received, ok := bus.published[0].(events.InquiryReceived)
	if !ok || received.Name != "Ada Lovelace" || len(received.SavedTo) != 2 {
		t.Fatalf("unexpected event %+v", bus.published[0])
	}
}

func TestSubmitPartialFailureIsReported(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	sheets := &fakeSink{result: domain.Saved()}
	svc := newService(store, sheets, nil)

	outcome, err := svc.Submit(context.Background(), validSubmission(), domain.RequestMeta{})
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if outcome.Mongo.OK || outcome.Mongo.Error == "" {
		t.Fatalf("expected mongo failure detail, got %+v", outcome.Mongo)
	}
	if !outcome.Sheets.OK {
		t.Fatalf("expected sheets to succeed independently, got %+v", outcome.Sheets)
	}
}

func TestSubmitBothSinksFailing(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	sheets := &fakeSink{panics: true}
	bus := &recordingBus{}
	svc := newService(store, sheets, bus)

	outcome, err := svc.Submit(context.Background(), validSubmission(), domain.RequestMeta{})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if outcome.Sheets.Error == "" || outcome.Mongo.Error == "" {
		t.Fatalf("expected both failures captured, got %+v", outcome)
	}
	if sheets.calls.Load() != 1 {
		t.Fatal("expected sheets to be attempted despite the store failure")
	}
	if len(bus.published) != 0 {
		t.Fatal("expected no event for a failed submission")
	}
}

func TestListWithoutStoreIsUnavailable(t *testing.T) {
	svc := newService(nil, &fakeSink{}, nil)

	_, err := svc.List(context.Background(), domain.Query{Limit: 50})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestListPassesQueryThrough(t *testing.T) {
	store := &fakeStore{items: []domain.Inquiry{{Name: "Acme"}}}
	svc := newService(store, &fakeSink{}, nil)

	items, err := svc.List(context.Background(), domain.Query{Search: "acme", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || len(store.queries) != 1 || store.queries[0].Search != "acme" || store.queries[0].Limit != 10 {
		t.Fatalf("unexpected result %v / %v", items, store.queries)
	}
}

func TestListStoreErrorIsInternal(t *testing.T) {
	store := &fakeStore{err: errors.New("cursor killed")}
	svc := newService(store, &fakeSink{}, nil)

	if _, err := svc.List(context.Background(), domain.Query{Limit: 10}); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
