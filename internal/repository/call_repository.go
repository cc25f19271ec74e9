package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matheusvidal/stockman/internal/model"
)

// CallRow is a call joined with the display names the admin table
// needs, so the UI does not have to resolve ids itself.
type CallRow struct {
	model.Call
	UserName   string
	SectorName string
}

// CallRepo owns the 'calls' table.
type CallRepo struct{ DB *sql.DB }

func NewCallRepo(db *sql.DB) *CallRepo { return &CallRepo{DB: db} }

const callSelect = `SELECT c.id,c.title,c.description,c.status,c.user_id,c.sector_id,c.created_at,c.last_updated_at,u.name,s.name
FROM calls c
JOIN users u ON u.id=c.user_id
JOIN sectors s ON s.id=c.sector_id`

// Create inserts a call and returns it with the generated id.
func (r *CallRepo) Create(ctx context.Context, c *model.Call) error {
	now := time.Now().UTC()
	c.Status = model.CallStatusOpen
	c.CreatedAt = now
	c.LastUpdatedAt = now
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO calls (title,description,status,user_id,sector_id,created_at,last_updated_at) VALUES (?,?,?,?,?,?,?)",
		c.Title, c.Description, c.Status, c.UserID, c.SectorID, c.CreatedAt, c.LastUpdatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// GetByID fetches a single call with its user and sector names.
func (r *CallRepo) GetByID(ctx context.Context, id int64) (*CallRow, error) {
	row := r.DB.QueryRowContext(ctx, callSelect+" WHERE c.id=? LIMIT 1", id)
	var c CallRow
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Status, &c.UserID, &c.SectorID,
		&c.CreatedAt, &c.LastUpdatedAt, &c.UserName, &c.SectorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetAll lists every call, newest first.
func (r *CallRepo) GetAll(ctx context.Context) ([]CallRow, error) {
	return r.list(ctx, callSelect+" ORDER BY c.created_at DESC")
}

// GetByUserID lists the calls opened by one user.
func (r *CallRepo) GetByUserID(ctx context.Context, userID int64) ([]CallRow, error) {
	return r.list(ctx, callSelect+" WHERE c.user_id=? ORDER BY c.created_at DESC", userID)
}

// GetBySectorID lists the calls routed to one sector.
func (r *CallRepo) GetBySectorID(ctx context.Context, sectorID int64) ([]CallRow, error) {
	return r.list(ctx, callSelect+" WHERE c.sector_id=? ORDER BY c.created_at DESC", sectorID)
}

func (r *CallRepo) list(ctx context.Context, query string, args ...any) ([]CallRow, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CallRow{}
	for rows.Next() {
		var c CallRow
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Status, &c.UserID, &c.SectorID,
			&c.CreatedAt, &c.LastUpdatedAt, &c.UserName, &c.SectorName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
