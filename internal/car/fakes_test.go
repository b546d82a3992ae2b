package car

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/cardealer/service/internal/storage"
)

// memRepo is an in-memory Repository used by service and handler tests.
type memRepo struct {
	mu          sync.Mutex
	nextCarID   int64
	nextImageID int64
	cars        map[int64]*Car
	now         func() time.Time

	createErr   error
	addImageErr error
}

func newMemRepo() *memRepo {
	return &memRepo{cars: make(map[int64]*Car), now: time.Now}
}

func (r *memRepo) List(ctx context.Context) ([]Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Car, 0, len(r.cars))
	for _, c := range r.cars {
		out = append(out, cloneCar(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) ListImages(ctx context.Context) ([]CarImage, error) {
	cars, _ := r.List(ctx)
	var out []CarImage
	for _, c := range cars {
		out = append(out, c.Images...)
	}
	return out, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, ErrCarNotFound
	}
	cp := cloneCar(c)
	return &cp, nil
}

func (r *memRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cars[id]
	return ok, nil
}

func (r *memRepo) Create(ctx context.Context, brand, model string) (*Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextCarID++
	c := &Car{ID: r.nextCarID, Brand: brand, Model: model, CreatedAt: r.now(), Images: []CarImage{}}
	r.cars[c.ID] = c
	cp := cloneCar(c)
	return &cp, nil
}

func (r *memRepo) AddImage(ctx context.Context, carID int64, objectName string) (*CarImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addImageErr != nil {
		return nil, r.addImageErr
	}
	c, ok := r.cars[carID]
	if !ok {
		return nil, errors.New("foreign key violation")
	}
	r.nextImageID++
	img := CarImage{ID: r.nextImageID, CarID: carID, ObjectName: objectName}
	c.Images = append(c.Images, img)
	return &img, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) (*Car, error) {
	cars := r.deleteWhere(func(c *Car) bool { return c.ID == id })
	if len(cars) == 0 {
		return nil, ErrCarNotFound
	}
	return &cars[0], nil
}

func (r *memRepo) DeleteByBrand(ctx context.Context, brand string) ([]Car, error) {
	return r.deleteWhere(func(c *Car) bool { return c.Brand == brand }), nil
}

func (r *memRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]Car, error) {
	return r.deleteWhere(func(c *Car) bool { return c.CreatedAt.Before(cutoff) }), nil
}

func (r *memRepo) deleteWhere(match func(*Car) bool) []Car {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Car
	for id, c := range r.cars {
		if match(c) {
			out = append(out, cloneCar(c))
			delete(r.cars, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cars)
}

func cloneCar(c *Car) Car {
	cp := *c
	cp.Images = append([]CarImage{}, c.Images...)
	return cp
}

// flakyStorage wraps MemoryStorage and fails selected calls.
type flakyStorage struct {
	*storage.MemoryStorage
	uploadErr error
	deleteErr error
}

func (f *flakyStorage) Upload(ctx context.Context, r io.Reader, size int64, ext, bucket string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.MemoryStorage.Upload(ctx, r, size, ext, bucket)
}

func (f *flakyStorage) DeleteMany(ctx context.Context, names []string, bucket string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStorage.DeleteMany(ctx, names, bucket)
}
