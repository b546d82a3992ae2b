package car

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository handles all car and car image database operations.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgresRepository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every car together with its images.
func (r *PostgresRepository) List(ctx context.Context) ([]Car, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, brand, model, created_at FROM cars ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	cars, err := pgx.CollectRows(rows, scanCar)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}

	images, err := r.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	return attachImages(cars, images), nil
}

// ListImages returns every image row.
func (r *PostgresRepository) ListImages(ctx context.Context) ([]CarImage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, car_id, object_name FROM car_images ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list car images: %w", err)
	}
	images, err := pgx.CollectRows(rows, scanImage)
	if err != nil {
		return nil, fmt.Errorf("list car images: %w", err)
	}
	return images, nil
}

// GetByID fetches a car and its images.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Car, error) {
	c := &Car{}
	err := r.db.QueryRow(ctx,
		`SELECT id, brand, model, created_at FROM cars WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Brand, &c.Model, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car by id: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, car_id, object_name FROM car_images WHERE car_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get car images: %w", err)
	}
	c.Images, err = pgx.CollectRows(rows, scanImage)
	if err != nil {
		return nil, fmt.Errorf("get car images: %w", err)
	}
	return c, nil
}

// Exists returns true if a car with the given id exists.
func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cars WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check car existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new car and returns the stored record.
func (r *PostgresRepository) Create(ctx context.Context, brand, model string) (*Car, error) {
	c := &Car{Images: []CarImage{}}
	err := r.db.QueryRow(ctx,
		`INSERT INTO cars (brand, model)
		 VALUES ($1, $2)
		 RETURNING id, brand, model, created_at`,
		brand, model,
	).Scan(&c.ID, &c.Brand, &c.Model, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return c, nil
}

// AddImage links objectName to the car.
func (r *PostgresRepository) AddImage(ctx context.Context, carID int64, objectName string) (*CarImage, error) {
	img := &CarImage{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO car_images (car_id, object_name)
		 VALUES ($1, $2)
		 RETURNING id, car_id, object_name`,
		carID, objectName,
	).Scan(&img.ID, &img.CarID, &img.ObjectName)
	if err != nil {
		return nil, fmt.Errorf("add car image: %w", err)
	}
	return img, nil
}

// Delete removes the car and its image rows, returning what was deleted.
// It returns ErrCarNotFound when no row was removed, so of two concurrent
// deletes of the same id only one succeeds.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*Car, error) {
	cars, err := r.deleteWhere(ctx, `id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(cars) == 0 {
		return nil, ErrCarNotFound
	}
	return &cars[0], nil
}

// DeleteByBrand removes every car of the given brand.
func (r *PostgresRepository) DeleteByBrand(ctx context.Context, brand string) ([]Car, error) {
	return r.deleteWhere(ctx, `brand = $1`, brand)
}

// DeleteOlderThan removes every car created before cutoff.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]Car, error) {
	return r.deleteWhere(ctx, `created_at < $1`, cutoff)
}

// deleteWhere locks the matching cars, deletes their image rows and then the
// cars themselves, all in one transaction.
func (r *PostgresRepository) deleteWhere(ctx context.Context, cond string, arg any) ([]Car, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rows, err := tx.Query(ctx, `SELECT id FROM cars WHERE `+cond+` FOR UPDATE`, arg)
	if err != nil {
		return nil, fmt.Errorf("lock cars: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("lock cars: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err = tx.Query(ctx,
		`DELETE FROM car_images WHERE car_id = ANY($1)
		 RETURNING id, car_id, object_name`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("delete car images: %w", err)
	}
	images, err := pgx.CollectRows(rows, scanImage)
	if err != nil {
		return nil, fmt.Errorf("delete car images: %w", err)
	}

	rows, err = tx.Query(ctx,
		`DELETE FROM cars WHERE id = ANY($1)
		 RETURNING id, brand, model, created_at`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("delete cars: %w", err)
	}
	cars, err := pgx.CollectRows(rows, scanCar)
	if err != nil {
		return nil, fmt.Errorf("delete cars: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return attachImages(cars, images), nil
}

func scanCar(row pgx.CollectableRow) (Car, error) {
	c := Car{Images: []CarImage{}}
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.CreatedAt)
	return c, err
}

func scanImage(row pgx.CollectableRow) (CarImage, error) {
	var img CarImage
	err := row.Scan(&img.ID, &img.CarID, &img.ObjectName)
	return img, err
}

// attachImages distributes images onto their owning cars.
func attachImages(cars []Car, images []CarImage) []Car {
	idx := make(map[int64]int, len(cars))
	for i := range cars {
		idx[cars[i].ID] = i
	}
	for _, img := range images {
		if i, ok := idx[img.CarID]; ok {
			cars[i].Images = append(cars[i].Images, img)
		}
	}
	return cars
}
