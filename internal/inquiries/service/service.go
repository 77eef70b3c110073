// Package service runs inquiry ingestion across both sinks and serves the
// admin read path.
package service

import (
	"context"
	"fmt"
	"time"

	"codemasters_backend/internal/events"
	"codemasters_backend/internal/inquiries/domain"
	"codemasters_backend/platform/apperr"
	"codemasters_backend/platform/logger"
	"codemasters_backend/platform/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	msgSaveFailed       = "Unable to save inquiry right now."
	msgStoreUnavailable = "MongoDB is not configured."
	msgQueryFailed      = "Unable to load inquiries right now."
	msgValidationFailed = "validation failed"
)

// InquiryStore is the document store. A nil store means MongoDB is not
// configured.
type InquiryStore interface {
	Insert(ctx context.Context, inquiry domain.Inquiry) error
	Find(ctx context.Context, q domain.Query) ([]domain.Inquiry, error)
}

// Sink persists an inquiry. Unconfigured sinks return a skipped result and
// no error.
type Sink interface {
	Write(ctx context.Context, inquiry domain.Inquiry) (domain.SinkResult, error)
}

type Service struct {
	store  InquiryStore
	sheets Sink
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

// New wires the service. store may be nil; sheets must not be.
func New(store InquiryStore, sheets Sink, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		sheets: sheets,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// Submit validates a submission and writes it to both sinks. Both writes
// always run to completion before Submit returns.
func (s *Service) Submit(ctx context.Context, sub domain.Submission, meta domain.RequestMeta) (domain.SaveOutcome, error) {
	validated := domain.Validate(sub)
	if !validated.OK {
		metrics.RecordInquirySubmission("rejected")
		return domain.SaveOutcome{}, apperr.Validation(msgValidationFailed, validated.Errors).WithOp("inquiries.Submit")
	}

	inquiry := validated.Data.Complete(sub, meta, s.now())
	outcome := s.writeAll(ctx, inquiry)

	if !outcome.Accepted() {
		metrics.RecordInquirySubmission("failed")
		return outcome, apperr.Internal(msgSaveFailed).WithOp("inquiries.Submit")
	}

	metrics.RecordInquirySubmission("accepted")
	if s.bus != nil {
		s.bus.Publish(ctx, inquiryReceived(inquiry, outcome))
	}
	return outcome, nil
}

func (s *Service) writeAll(ctx context.Context, inquiry domain.Inquiry) domain.SaveOutcome {
	var (
		outcome domain.SaveOutcome
		g       errgroup.Group
	)

	// Each goroutine owns one slot and always returns nil, so a failing sink
	// never cancels or hides the other.
	g.Go(func() error {
		outcome.Mongo = s.write(ctx, domain.SinkMongo, documentSink{store: s.store}, inquiry)
		return nil
	})
	g.Go(func() error {
		outcome.Sheets = s.write(ctx, domain.SinkSheets, s.sheets, inquiry)
		return nil
	})
	_ = g.Wait()

	return outcome
}

func (s *Service) write(ctx context.Context, name string, sink Sink, inquiry domain.Inquiry) (result domain.SinkResult) {
	log := s.log.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s sink panic: %v", name, r)
			result = domain.Failed(name, err)
			log.SinkWrite(name, result.Outcome(), err)
			metrics.RecordSinkWrite(name, result.Outcome())
		}
	}()

	result, err := sink.Write(ctx, inquiry)
	if err != nil {
		result = domain.Failed(name, err)
	}
	log.SinkWrite(name, result.Outcome(), err)
	metrics.RecordSinkWrite(name, result.Outcome())
	return result
}

// List returns stored inquiries for the admin views.
func (s *Service) List(ctx context.Context, q domain.Query) ([]domain.Inquiry, error) {
	if s.store == nil {
		return nil, apperr.Unavailable(msgStoreUnavailable).WithOp("inquiries.List")
	}

	items, err := s.store.Find(ctx, q)
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("inquiries.List", err)
		return nil, apperr.Wrap(apperr.KindInternal, msgQueryFailed, err).WithOp("inquiries.List")
	}
	return items, nil
}

// documentSink adapts the optional store to Sink.
type documentSink struct {
	store InquiryStore
}

func (d documentSink) Write(ctx context.Context, inquiry domain.Inquiry) (domain.SinkResult, error) {
	if d.store == nil {
		return domain.Skipped(""), nil
	}
	if err := d.store.Insert(ctx, inquiry); err != nil {
		return domain.SinkResult{}, err
	}
	return domain.Saved(), nil
}

func inquiryReceived(inquiry domain.Inquiry, outcome domain.SaveOutcome) events.InquiryReceived {
	var savedTo []string
	if outcome.Mongo.OK {
		savedTo = append(savedTo, domain.SinkMongo)
	}
	if outcome.Sheets.OK {
		savedTo = append(savedTo, domain.SinkSheets)
	}

	return events.InquiryReceived{
		BaseEvent:   events.NewBaseEvent(),
		CreatedAt:   inquiry.CreatedAt,
		Name:        inquiry.Name,
		Phone:       inquiry.Phone,
		Email:       inquiry.Email,
		ProjectType: inquiry.ProjectType,
		Deadline:    inquiry.Deadline,
		Budget:      inquiry.Budget,
		Message:     inquiry.Message,
		Source:      inquiry.Source,
		Location:    inquiry.Location,
		SavedTo:     savedTo,
	}
}
