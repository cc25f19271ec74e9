package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/matheusvidal/stockman/internal/model"
)

// SectorRepo owns the 'sectors' table.
type SectorRepo struct{ DB *sql.DB }

func NewSectorRepo(db *sql.DB) *SectorRepo { return &SectorRepo{DB: db} }

// Create inserts a sector and returns its id.
func (r *SectorRepo) Create(ctx context.Context, name string) (int64, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sectors (name,status,created_at,last_updated_at) VALUES (?,1,?,?)",
		strings.TrimSpace(name), now, now)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches a sector by id.
func (r *SectorRepo) GetByID(ctx context.Context, id int64) (*model.Sector, error) {
	var s model.Sector
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,status,created_at,last_updated_at FROM sectors WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.Name, &s.Status, &s.CreatedAt, &s.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetAll lists active sectors ordered by name.
func (r *SectorRepo) GetAll(ctx context.Context) ([]model.Sector, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,status,created_at,last_updated_at FROM sectors WHERE status=1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Sector{}
	for rows.Next() {
		var s model.Sector
		if err := rows.Scan(&s.ID, &s.Name, &s.Status, &s.CreatedAt, &s.LastUpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
