package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/idilsaglam/restaurants/internal/model"
)

// ErrNotFound is returned for unknown restaurant ids.
var ErrNotFound = model.ErrNotFound

const schema = `
CREATE TABLE IF NOT EXISTS restaurants (
	id           INTEGER PRIMARY KEY,
	name         TEXT    NOT NULL,
	neighborhood TEXT    NOT NULL DEFAULT '',
	photograph   TEXT    NOT NULL DEFAULT '',
	address      TEXT    NOT NULL DEFAULT '',
	lat          REAL    NOT NULL DEFAULT 0,
	lng          REAL    NOT NULL DEFAULT 0,
	cuisine_type TEXT    NOT NULL DEFAULT '',
	is_favorite  INTEGER NOT NULL DEFAULT 0,
	updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_restaurants_neighborhood ON restaurants(neighborhood);
CREATE INDEX IF NOT EXISTS idx_restaurants_cuisine ON restaurants(cuisine_type);
`

const selectColumns = `id, name, neighborhood, photograph, address, lat, lng, cuisine_type, is_favorite`

type row struct {
	ID           int        `db:"id"`
	Name         string     `db:"name"`
	Neighborhood string     `db:"neighborhood"`
	Photograph   string     `db:"photograph"`
	Address      string     `db:"address"`
	Lat          float64    `db:"lat"`
	Lng          float64    `db:"lng"`
	CuisineType  string     `db:"cuisine_type"`
	IsFavorite   model.Flag `db:"is_favorite"`
}

func (r row) restaurant() model.Restaurant {
	return model.Restaurant{
		ID:           r.ID,
		Name:         r.Name,
		Neighborhood: r.Neighborhood,
		Photograph:   r.Photograph,
		Address:      r.Address,
		LatLng:       model.LatLng{Lat: r.Lat, Lng: r.Lng},
		CuisineType:  r.CuisineType,
		IsFavorite:   r.IsFavorite,
	}
}

func fromRestaurant(r model.Restaurant) row {
	return row{
		ID:           r.ID,
		Name:         r.Name,
		Neighborhood: r.Neighborhood,
		Photograph:   r.Photograph,
		Address:      r.Address,
		Lat:          r.LatLng.Lat,
		Lng:          r.LatLng.Lng,
		CuisineType:  r.CuisineType,
		IsFavorite:   r.IsFavorite,
	}
}

// Store is the SQLite-backed restaurant data layer.
type Store struct {
	db *sqlx.DB
}

// Open connects to dsn (a file path or ":memory:") and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers; one connection also keeps :memory: shared
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Import upserts restaurants, keeping the favorite flag from the input.
func (s *Store) Import(ctx context.Context, restaurants []model.Restaurant) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, r := range restaurants {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO restaurants (id, name, neighborhood, photograph, address, lat, lng, cuisine_type, is_favorite)
			VALUES (:id, :name, :neighborhood, :photograph, :address, :lat, :lng, :cuisine_type, :is_favorite)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				neighborhood = excluded.neighborhood,
				photograph = excluded.photograph,
				address = excluded.address,
				lat = excluded.lat,
				lng = excluded.lng,
				cuisine_type = excluded.cuisine_type,
				is_favorite = excluded.is_favorite,
				updated_at = CURRENT_TIMESTAMP
		`, fromRestaurant(r))
		if err != nil {
			return 0, fmt.Errorf("import restaurant %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(restaurants), nil
}

func (s *Store) All(ctx context.Context) ([]model.Restaurant, error) {
	return s.RestaurantsByCuisineAndNeighborhood(ctx, model.All, model.All)
}

func (s *Store) ByID(ctx context.Context, id int) (model.Restaurant, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT `+selectColumns+` FROM restaurants WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Restaurant{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return r.restaurant(), nil
}

func (s *Store) Neighborhoods(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "neighborhood")
}

func (s *Store) Cuisines(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "cuisine_type")
}

// distinct lists unique values of column in first-seen (id) order.
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out, fmt.Sprintf(`
		SELECT %[1]s FROM restaurants
		WHERE %[1]s <> ''
		GROUP BY %[1]s
		ORDER BY MIN(id)
	`, column))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error) {
	query := `SELECT ` + selectColumns + ` FROM restaurants WHERE 1 = 1`
	var args []any
	if !model.IsAll(cuisine) {
		query += ` AND cuisine_type = ?`
		args = append(args, cuisine)
	}
	if !model.IsAll(neighborhood) {
		query += ` AND neighborhood = ?`
		args = append(args, neighborhood)
	}
	query += ` ORDER BY id`

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]model.Restaurant, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.restaurant())
	}
	return out, nil
}

func (s *Store) UpdateFavoriteStatus(ctx context.Context, id int, favorite bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET is_favorite = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		favorite, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}
