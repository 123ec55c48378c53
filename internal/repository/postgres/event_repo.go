package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventbook/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `
	e.id, e.name, e.description,
	e.begin_enrollment_date_time, e.close_enrollment_date_time,
	e.begin_event_date_time, e.end_event_date_time,
	e.location, e.base_price, e.max_price, e.limit_of_enrollment,
	e.free, e.offline, e.event_status,
	e.created_at, e.updated_at,
	a.id, a.email
`

// scanEvent scans one joined event row. The manager columns come from a LEFT
// JOIN and may be NULL for unmanaged events.
func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var locationNull sql.NullString
	var managerID, managerEmail sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description,
		&e.BeginEnrollmentDateTime, &e.CloseEnrollmentDateTime,
		&e.BeginEventDateTime, &e.EndEventDateTime,
		&locationNull, &e.BasePrice, &e.MaxPrice, &e.LimitOfEnrollment,
		&e.Free, &e.Offline, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
		&managerID, &managerEmail,
	)
	if err != nil {
		return nil, err
	}
	if locationNull.Valid {
		e.Location = &locationNull.String
	}
	if managerID.Valid {
		e.Manager = &domain.Account{ID: managerID.String, Email: managerEmail.String}
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (
			name, description,
			begin_enrollment_date_time, close_enrollment_date_time,
			begin_event_date_time, end_event_date_time,
			location, base_price, max_price, limit_of_enrollment,
			free, offline, event_status, manager_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	var managerID *string
	if e.Manager != nil {
		managerID = &e.Manager.ID
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description,
		e.BeginEnrollmentDateTime, e.CloseEnrollmentDateTime,
		e.BeginEventDateTime, e.EndEventDateTime,
		e.Location, e.BasePrice, e.MaxPrice, e.LimitOfEnrollment,
		e.Free, e.Offline, e.Status, managerID,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN accounts a ON a.id = e.manager_id
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Update writes all mapped fields of the event. manager_id is deliberately
// not in the SET list: the manager is immutable after creation.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET
			name = $1, description = $2,
			begin_enrollment_date_time = $3, close_enrollment_date_time = $4,
			begin_event_date_time = $5, end_event_date_time = $6,
			location = $7, base_price = $8, max_price = $9, limit_of_enrollment = $10,
			free = $11, offline = $12, event_status = $13,
			updated_at = $14
		WHERE id = $15
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Name, e.Description,
		e.BeginEnrollmentDateTime, e.CloseEnrollmentDateTime,
		e.BeginEventDateTime, e.EndEventDateTime,
		e.Location, e.BasePrice, e.MaxPrice, e.LimitOfEnrollment,
		e.Free, e.Offline, e.Status,
		e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) FindAllPaged(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN accounts a ON a.id = e.manager_id
		ORDER BY e.created_at DESC, e.id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
