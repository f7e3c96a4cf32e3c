package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vbonduro/cafeapi/internal/domain"
	"github.com/vbonduro/cafeapi/internal/metrics"
)

var (
	ErrNotFound      = errors.New("cafe not found")
	ErrDuplicateName = errors.New("cafe name already exists")
)

const cafeColumns = `id, name, map_url, img_url, location, seats,
	has_toilet, has_wifi, has_sockets, can_take_calls, coffee_price`

type CafeStore struct {
	db *sql.DB
}

func NewCafeStore(db *sql.DB) *CafeStore {
	return &CafeStore{db: db}
}

func (s *CafeStore) Create(ctx context.Context, c *domain.Cafe) (*domain.Cafe, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cafes (name, map_url, img_url, location, seats,
			has_toilet, has_wifi, has_sockets, can_take_calls, coffee_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.MapURL, c.ImgURL, c.Location, c.Seats,
		c.HasToilet, c.HasWifi, c.HasSockets, c.CanTakeCalls, c.CoffeePrice)
	if err != nil {
		metrics.ObserveStoreOp("create", err)
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create cafe %q: %w", c.Name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to create cafe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		metrics.ObserveStoreOp("create", err)
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	metrics.ObserveStoreOp("create", nil)

	return s.GetByID(ctx, id)
}

func (s *CafeStore) GetByID(ctx context.Context, id int64) (*domain.Cafe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cafeColumns+` FROM cafes WHERE id = ?`, id)
	cafe, err := scanCafe(row)
	if err == sql.ErrNoRows {
		metrics.ObserveStoreOp("get", nil)
		return nil, nil
	}
	metrics.ObserveStoreOp("get", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get cafe: %w", err)
	}

	return cafe, nil
}

func (s *CafeStore) List(ctx context.Context) ([]*domain.Cafe, error) {
	cafes, err := s.query(ctx, `SELECT `+cafeColumns+` FROM cafes ORDER BY id ASC`)
	metrics.ObserveStoreOp("list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	return cafes, nil
}

// ListByLocation returns the cafes whose location equals loc exactly. The
// comparison uses SQLite's BINARY collation, so it is case-sensitive.
func (s *CafeStore) ListByLocation(ctx context.Context, loc string) ([]*domain.Cafe, error) {
	cafes, err := s.query(ctx, `SELECT `+cafeColumns+` FROM cafes WHERE location = ? ORDER BY id ASC`, loc)
	metrics.ObserveStoreOp("search", err)
	if err != nil {
		return nil, fmt.Errorf("failed to search cafes: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) UpdatePrice(ctx context.Context, id int64, price string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE cafes SET coffee_price = ? WHERE id = ?`, price, id)
	if err != nil {
		metrics.ObserveStoreOp("update_price", err)
		return fmt.Errorf("failed to update cafe price: %w", err)
	}
	return checkAffected("update_price", result)
}

func (s *CafeStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cafes WHERE id = ?`, id)
	if err != nil {
		metrics.ObserveStoreOp("delete", err)
		return fmt.Errorf("failed to delete cafe: %w", err)
	}
	return checkAffected("delete", result)
}

func (s *CafeStore) query(ctx context.Context, q string, args ...any) ([]*domain.Cafe, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cafes := []*domain.Cafe{}
	for rows.Next() {
		cafe, err := scanCafe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cafe: %w", err)
		}
		cafes = append(cafes, cafe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cafes: %w", err)
	}

	return cafes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCafe(row scanner) (*domain.Cafe, error) {
	c := &domain.Cafe{}
	var price sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.MapURL, &c.ImgURL, &c.Location, &c.Seats,
		&c.HasToilet, &c.HasWifi, &c.HasSockets, &c.CanTakeCalls, &price)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		c.CoffeePrice = &price.String
	}
	return c, nil
}

func checkAffected(op string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	metrics.ObserveStoreOp(op, err)
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(serr.Error(), "UNIQUE"))
}
