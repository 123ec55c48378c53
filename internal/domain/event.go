package domain

import (
	"context"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event. New events always start
// out as StatusDraft; later states are reached through publishing flows.
type EventStatus string

const (
	StatusDraft           EventStatus = "DRAFT"
	StatusPublished       EventStatus = "PUBLISHED"
	StatusBeganEnrollment EventStatus = "BEGAN_ENROLLMENT"
)

// Event represents a persisted event. Free and Offline are derived fields:
// they are recomputed from the price and location fields on every create and
// update, never taken from client input.
// swagger:model Event
type Event struct {
	ID                      string      `json:"id"`
	Name                    string      `json:"name"`
	Description             string      `json:"description"`
	BeginEnrollmentDateTime time.Time   `json:"beginEnrollmentDateTime"`
	CloseEnrollmentDateTime time.Time   `json:"closeEnrollmentDateTime"`
	BeginEventDateTime      time.Time   `json:"beginEventDateTime"`
	EndEventDateTime        time.Time   `json:"endEventDateTime"`
	Location                *string     `json:"location,omitempty"`
	BasePrice               int         `json:"basePrice"`
	MaxPrice                int         `json:"maxPrice"`
	LimitOfEnrollment       int         `json:"limitOfEnrollment"`
	Free                    bool        `json:"free"`
	Offline                 bool        `json:"offline"`
	Status                  EventStatus `json:"eventStatus"`
	Manager                 *Account    `json:"manager,omitempty"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
}

// UpdateDerivedFlags recomputes Free and Offline from the price and location
// fields. Idempotent: applying it twice yields the same result.
func (e *Event) UpdateDerivedFlags() {
	e.Free = e.BasePrice == 0 && e.MaxPrice == 0
	e.Offline = e.Location != nil && strings.TrimSpace(*e.Location) != ""
}

// ManagerID returns the id of the managing account, or "" for unmanaged events.
func (e *Event) ManagerID() string {
	if e.Manager == nil {
		return ""
	}
	return e.Manager.ID
}

// EventDraft is caller-submitted event data prior to persistence. Fields are
// pointers so a partial draft (for updates) can distinguish "absent" from the
// zero value. Client-supplied ids are not representable here at all.
// swagger:model EventDraft
type EventDraft struct {
	Name                    *string    `json:"name"`
	Description             *string    `json:"description"`
	BeginEnrollmentDateTime *time.Time `json:"beginEnrollmentDateTime"`
	CloseEnrollmentDateTime *time.Time `json:"closeEnrollmentDateTime"`
	BeginEventDateTime      *time.Time `json:"beginEventDateTime"`
	EndEventDateTime        *time.Time `json:"endEventDateTime"`
	Location                *string    `json:"location"`
	BasePrice               *int       `json:"basePrice"`
	MaxPrice                *int       `json:"maxPrice"`
	LimitOfEnrollment       *int       `json:"limitOfEnrollment"`
}

// Field error codes returned by EventDraft.Validate.
const (
	CodeRequired      = "required"
	CodeWrongPrices   = "wrong_prices"
	CodeWrongDates    = "wrong_dates"
	CodeNegativeValue = "negative_value"
	CodeNonPositive   = "non_positive_value"
)

// Validate checks the draft against the event validation rules and returns
// one FieldError per violation. An empty result means the draft is valid.
// It never mutates the draft.
func (d *EventDraft) Validate() []FieldError {
	var errs []FieldError

	required := []struct {
		name    string
		present bool
	}{
		{"name", d.Name != nil && strings.TrimSpace(*d.Name) != ""},
		{"description", d.Description != nil && strings.TrimSpace(*d.Description) != ""},
		{"beginEnrollmentDateTime", d.BeginEnrollmentDateTime != nil},
		{"closeEnrollmentDateTime", d.CloseEnrollmentDateTime != nil},
		{"beginEventDateTime", d.BeginEventDateTime != nil},
		{"endEventDateTime", d.EndEventDateTime != nil},
		{"basePrice", d.BasePrice != nil},
		{"maxPrice", d.MaxPrice != nil},
		{"limitOfEnrollment", d.LimitOfEnrollment != nil},
	}
	for _, f := range required {
		if !f.present {
			errs = append(errs, FieldError{Field: f.name, Code: CodeRequired, Message: f.name + " is required"})
		}
	}

	if d.BasePrice != nil && *d.BasePrice < 0 {
		errs = append(errs, FieldError{Field: "basePrice", Code: CodeNegativeValue, Message: "basePrice must be non-negative"})
	}
	if d.MaxPrice != nil && *d.MaxPrice < 0 {
		errs = append(errs, FieldError{Field: "maxPrice", Code: CodeNegativeValue, Message: "maxPrice must be non-negative"})
	}
	if d.LimitOfEnrollment != nil && *d.LimitOfEnrollment <= 0 {
		errs = append(errs, FieldError{Field: "limitOfEnrollment", Code: CodeNonPositive, Message: "limitOfEnrollment must be positive"})
	}
	if d.BasePrice != nil && d.MaxPrice != nil &&
		*d.MaxPrice != 0 && *d.BasePrice > *d.MaxPrice {
		errs = append(errs, FieldError{Field: "basePrice", Code: CodeWrongPrices, Message: "basePrice must not exceed maxPrice"})
	}
	if d.BeginEnrollmentDateTime != nil && d.CloseEnrollmentDateTime != nil &&
		d.CloseEnrollmentDateTime.Before(*d.BeginEnrollmentDateTime) {
		errs = append(errs, FieldError{Field: "closeEnrollmentDateTime", Code: CodeWrongDates, Message: "closeEnrollmentDateTime must not precede beginEnrollmentDateTime"})
	}

	return errs
}

// ApplyTo copies the draft's present fields onto the event, leaving absent
// fields untouched. ID, Status, Manager, and timestamps are never written;
// derived flags are not recomputed here, callers do that explicitly.
func (d *EventDraft) ApplyTo(e *Event) {
	if d.Name != nil {
		e.Name = *d.Name
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.BeginEnrollmentDateTime != nil {
		e.BeginEnrollmentDateTime = *d.BeginEnrollmentDateTime
	}
	if d.CloseEnrollmentDateTime != nil {
		e.CloseEnrollmentDateTime = *d.CloseEnrollmentDateTime
	}
	if d.BeginEventDateTime != nil {
		e.BeginEventDateTime = *d.BeginEventDateTime
	}
	if d.EndEventDateTime != nil {
		e.EndEventDateTime = *d.EndEventDateTime
	}
	if d.Location != nil {
		e.Location = d.Location
	}
	if d.BasePrice != nil {
		e.BasePrice = *d.BasePrice
	}
	if d.MaxPrice != nil {
		e.MaxPrice = *d.MaxPrice
	}
	if d.LimitOfEnrollment != nil {
		e.LimitOfEnrollment = *d.LimitOfEnrollment
	}
}

// DraftFrom returns a complete draft populated from an existing event. Used
// to validate the merged state of a partial update.
func DraftFrom(e *Event) *EventDraft {
	return &EventDraft{
		Name:                    &e.Name,
		Description:             &e.Description,
		BeginEnrollmentDateTime: &e.BeginEnrollmentDateTime,
		CloseEnrollmentDateTime: &e.CloseEnrollmentDateTime,
		BeginEventDateTime:      &e.BeginEventDateTime,
		EndEventDateTime:        &e.EndEventDateTime,
		Location:                e.Location,
		BasePrice:               &e.BasePrice,
		MaxPrice:                &e.MaxPrice,
		LimitOfEnrollment:       &e.LimitOfEnrollment,
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	FindAllPaged(ctx context.Context, params PaginationParams) (events []*Event, total int, err error)
}

// EventService defines the event lifecycle operations exposed to the
// presentation layer.
type EventService interface {
	Create(ctx context.Context, draft *EventDraft, caller *Account) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, draft *EventDraft, caller *Account) (*Event, error)
	List(ctx context.Context, params PaginationParams) (events []*Event, total int, err error)
	CanModify(event *Event, caller *Account) bool
}
