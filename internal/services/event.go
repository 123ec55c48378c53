package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventbook/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// Create validates the draft and persists a new event. The event always
// starts in DRAFT status with a store-assigned id; caller may be nil, in
// which case the event is created unmanaged.
func (s *eventService) Create(ctx context.Context, draft *domain.EventDraft, caller *domain.Account) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.NewValidationError(draft.Validate()); err != nil {
		return nil, err
	}

	now := time.Now()
	event := &domain.Event{
		Status:    domain.StatusDraft,
		Manager:   caller,
		CreatedAt: now,
		UpdatedAt: now,
	}
	draft.ApplyTo(event)
	event.UpdateDerivedFlags()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Update applies the draft's present fields onto the stored event. Managed
// events may only be updated by their manager; events without a manager stay
// open to any caller. The existing id and manager are always preserved.
func (s *eventService) Update(ctx context.Context, id string, draft *domain.EventDraft, caller *domain.Account) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if event.Manager != nil && !s.CanModify(event, caller) {
		return nil, domain.ErrForbidden
	}

	// Validate the merged state so a partial draft is checked against the
	// record it produces, not against itself.
	merged := *event
	draft.ApplyTo(&merged)
	if err := domain.NewValidationError(domain.DraftFrom(&merged).Validate()); err != nil {
		return nil, err
	}

	merged.UpdateDerivedFlags()
	merged.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, &merged); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &merged, nil
}

func (s *eventService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.FindAllPaged(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

// CanModify reports whether caller is the event's manager. Unmanaged events
// and anonymous callers always yield false here; the update path treats the
// unmanaged case separately.
func (s *eventService) CanModify(event *domain.Event, caller *domain.Account) bool {
	return event.Manager != nil && caller != nil && event.Manager.ID == caller.ID
}
