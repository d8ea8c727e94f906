package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

// Filter narrows booking listings for the back office.
type Filter struct {
	Status       Status
	ExperienceID uuid.UUID
	Date         string
	Limit        int
	Offset       int
}

// Repository abstracts booking persistence.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByReference(ctx context.Context, ref string) (*Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	List(ctx context.Context, f Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Stats(ctx context.Context) (*StatsResponse, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the Postgres-backed repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// bookingRow maps the bookings table; add-on lines live in a JSONB
// column since they are a frozen snapshot, never queried relationally.
type bookingRow struct {
	ID              uuid.UUID `db:"id"`
	Reference       string    `db:"reference"`
	ExperienceID    uuid.UUID `db:"experience_id"`
	ExperienceTitle string    `db:"experience_title"`
	SlotID          uuid.UUID `db:"slot_id"`
	CustomerID      string    `db:"customer_id"`
	CustomerName    string    `db:"customer_name"`
	CustomerEmail   string    `db:"customer_email"`
	CustomerPhone   string    `db:"customer_phone"`
	BookingType     string    `db:"booking_type"`
	Date            string    `db:"booking_date"`
	Time            string    `db:"booking_time"`
	Adults          int       `db:"adults"`
	Kids            int       `db:"kids"`
	GroupSize       int       `db:"group_size"`
	AddOns          []byte    `db:"add_ons"`
	BasePrice       int64     `db:"base_price"`
	AddOnsCost      int64     `db:"add_ons_cost"`
	TotalPrice      int64     `db:"total_price"`
	Status          string    `db:"status"`
	SpecialRequests string    `db:"special_requests"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r bookingRow) toEntity() (*Booking, error) {
	b := &Booking{
		ID:              r.ID,
		Reference:       r.Reference,
		ExperienceID:    r.ExperienceID,
		ExperienceTitle: r.ExperienceTitle,
		SlotID:          r.SlotID,
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		BookingType:     experience.BookingType(r.BookingType),
		Date:            r.Date,
		Time:            r.Time,
		Adults:          r.Adults,
		Kids:            r.Kids,
		GroupSize:       r.GroupSize,
		BasePrice:       r.BasePrice,
		AddOnsCost:      r.AddOnsCost,
		TotalPrice:      r.TotalPrice,
		Status:          Status(r.Status),
		SpecialRequests: r.SpecialRequests,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if len(r.AddOns) > 0 {
		if err := json.Unmarshal(r.AddOns, &b.AddOns); err != nil {
			return nil, err
		}
	}
	return b, nil
}

const selectBooking = `
	SELECT id, reference, experience_id, experience_title, slot_id,
	       customer_id, customer_name, customer_email, customer_phone,
	       booking_type, to_char(booking_date, 'YYYY-MM-DD') AS booking_date,
	       to_char(booking_time, 'HH24:MI') AS booking_time,
	       adults, kids, group_size, add_ons, base_price, add_ons_cost,
	       total_price, status, special_requests, created_at, updated_at
	FROM bookings`

func (r *postgresRepository) Create(ctx context.Context, b *Booking) error {
	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bookings (id, reference, experience_id, experience_title, slot_id,
		                      customer_id, customer_name, customer_email, customer_phone,
		                      booking_type, booking_date, booking_time, adults, kids,
		                      group_size, add_ons, base_price, add_ons_cost, total_price,
		                      status, special_requests, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`,
		b.ID, b.Reference, b.ExperienceID, b.ExperienceTitle, b.SlotID,
		b.CustomerID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.BookingType, b.Date, b.Time, b.Adults, b.Kids,
		b.GroupSize, addOns, b.BasePrice, b.AddOnsCost, b.TotalPrice,
		b.Status, b.SpecialRequests, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.getOne(ctx, selectBooking+` WHERE id = $1`, id)
}

func (r *postgresRepository) GetByReference(ctx context.Context, ref string) (*Booking, error) {
	return r.getOne(ctx, selectBooking+` WHERE reference = $1`, ref)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*Booking, error) {
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toEntity()
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error) {
	var rows []bookingRow
	err := r.db.SelectContext(ctx, &rows,
		selectBooking+` WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return rowsToEntities(rows)
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]*Booking, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.ExperienceID != uuid.Nil {
		args = append(args, f.ExperienceID)
		where += ` AND experience_id = $` + strconv.Itoa(len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		where += ` AND booking_date = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM bookings`+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := selectBooking + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	bookings, err := rowsToEntities(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) Stats(ctx context.Context) (*StatsResponse, error) {
	stats := &StatsResponse{ByStatus: make(map[string]int)}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Revenue counts money the business has actually earned or will
	// earn: cancelled bookings are excluded.
	if err := r.db.GetContext(ctx, &stats.Revenue, `
		SELECT COALESCE(SUM(total_price), 0) FROM bookings
		WHERE status IN ('confirmed', 'completed')`); err != nil {
		return nil, err
	}

	top, err := r.db.QueryContext(ctx, `
		SELECT experience_title, COUNT(*) AS cnt FROM bookings
		WHERE status <> 'cancelled'
		GROUP BY experience_title ORDER BY cnt DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer top.Close()
	for top.Next() {
		var tc TitleCount
		if err := top.Scan(&tc.Title, &tc.Count); err != nil {
			return nil, err
		}
		stats.TopTitles = append(stats.TopTitles, tc)
	}
	return stats, top.Err()
}

func rowsToEntities(rows []bookingRow) ([]*Booking, error) {
	bookings := make([]*Booking, 0, len(rows))
	for _, row := range rows {
		b, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
