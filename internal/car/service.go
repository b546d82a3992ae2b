package car

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardealer/service/internal/storage"
)

// Repository is the relational store the Service persists cars through.
type Repository interface {
	List(ctx context.Context) ([]Car, error)
	ListImages(ctx context.Context) ([]CarImage, error)
	GetByID(ctx context.Context, id int64) (*Car, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, brand, model string) (*Car, error)
	AddImage(ctx context.Context, carID int64, objectName string) (*CarImage, error)
	Delete(ctx context.Context, id int64) (*Car, error)
	DeleteByBrand(ctx context.Context, brand string) ([]Car, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]Car, error)
}

// Service composes car persistence with image storage.
type Service struct {
	repo   Repository
	store  storage.Storage
	bucket string
	logger *slog.Logger
}

// NewService creates a new car Service storing images in bucket.
func NewService(repo Repository, store storage.Storage, bucket string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, store: store, bucket: bucket, logger: logger}
}

// ListCars returns every car.
func (s *Service) ListCars(ctx context.Context) ([]Car, error) {
	return s.repo.List(ctx)
}

// ListImages returns every image row.
func (s *Service) ListImages(ctx context.Context) ([]CarImage, error) {
	return s.repo.ListImages(ctx)
}

// GetCar returns the car with id or ErrCarNotFound.
func (s *Service) GetCar(ctx context.Context, id int64) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

// GetImage downloads an image and returns its bytes and media type.
func (s *Service) GetImage(ctx context.Context, objectName string) ([]byte, string, error) {
	ok, ext := ValidateImageFilename(objectName)
	if !ok {
		return nil, "", ErrInvalidFileRequest
	}

	data, err := s.store.Download(ctx, objectName, s.bucket)
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	return data, MediaType(ext), nil
}

// AddCarWithImage validates the payload and image name, persists the car,
// uploads the image and links it to the car. A failure after the car row was
// written removes the row and any uploaded object again.
func (s *Service) AddCarWithImage(ctx context.Context, carJSON string, image Upload) (*Car, error) {
	req, ext, err := validateNewCar(carJSON, image.Filename)
	if err != nil {
		return nil, err
	}
	return s.addValidated(ctx, req, ext, image)
}

// ReplaceCar deletes the car oldID together with its images and adds the new
// car in its place. Nothing is deleted unless the new car passes validation.
func (s *Service) ReplaceCar(ctx context.Context, oldID int64, carJSON string, image Upload) (*Car, error) {
	exists, err := s.repo.Exists(ctx, oldID)
	if err != nil {
		return nil, fmt.Errorf("check car: %w", err)
	}
	if !exists {
		return nil, ErrCarNotFound
	}

	req, ext, err := validateNewCar(carJSON, image.Filename)
	if err != nil {
		return nil, err
	}

	if err := s.DeleteCar(ctx, oldID); err != nil {
		// The rows are gone once only blob cleanup failed; carry on with the add.
		if !errors.Is(err, storage.ErrStorage) {
			return nil, err
		}
		s.logger.Warn("replace: old images not fully removed", "car_id", oldID, "error", err)
	}

	return s.addValidated(ctx, req, ext, image)
}

// DeleteCar removes the car, its image rows and its stored images.
func (s *Service) DeleteCar(ctx context.Context, id int64) error {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info("car deleted", "car_id", id, "images", len(c.Images))

	if err := s.deleteObjects(ctx, c.ObjectNames()); err != nil {
		return fmt.Errorf("delete images of car %d: %w", id, err)
	}
	return nil
}

// DeleteCarsByBrand removes all cars of brand and returns a summary message.
func (s *Service) DeleteCarsByBrand(ctx context.Context, brand string) (string, error) {
	deleted, err := s.repo.DeleteByBrand(ctx, brand)
	if err != nil {
		return "", fmt.Errorf("delete cars by brand: %w", err)
	}
	if len(deleted) == 0 {
		return MsgNoneDeleted, nil
	}

	s.logger.Info("cars deleted by brand", "brand", brand, "count", len(deleted))
	if err := s.cleanUpImages(ctx, deleted); err != nil {
		return "", err
	}
	return fmt.Sprintf(MsgDeleteByBrand, len(deleted), brand), nil
}

// SweepOlderThan removes every car created before cutoff along with its
// images and returns how many cars were removed.
func (s *Service) SweepOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete cars older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return len(deleted), s.cleanUpImages(ctx, deleted)
}

func validateNewCar(carJSON, filename string) (NewCarRequest, string, error) {
	req, err := ParseCar(carJSON)
	if err != nil {
		return NewCarRequest{}, "", err
	}
	if !ValidateBrandAndModel(req.Brand, req.Model) {
		return NewCarRequest{}, "", ErrModelOrBrandInvalid
	}
	ok, ext := ValidateImageFilename(filename)
	if !ok {
		return NewCarRequest{}, "", ErrInvalidFileRequest
	}
	return req, ext, nil
}

func (s *Service) addValidated(ctx context.Context, req NewCarRequest, ext string, image Upload) (*Car, error) {
	c, err := s.repo.Create(ctx, req.Brand, req.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	name, err := s.store.Upload(ctx, image.Reader, image.Size, ext, s.bucket)
	if err != nil {
		s.logger.Error("image upload failed", "car_id", c.ID, "error", err)
		s.discardCar(ctx, c.ID)
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	img, err := s.repo.AddImage(ctx, c.ID, name)
	if err != nil {
		s.logger.Error("linking image failed", "car_id", c.ID, "object", name, "error", err)
		if delErr := s.store.DeleteOne(ctx, name, s.bucket); delErr != nil {
			s.logger.Error("removing orphaned image failed", "object", name, "error", delErr)
		}
		s.discardCar(ctx, c.ID)
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	c.Images = append(c.Images, *img)
	s.logger.Info("car added", "car_id", c.ID, "brand", c.Brand, "object", name)
	return c, nil
}

// discardCar removes a half-created car row.
func (s *Service) discardCar(ctx context.Context, id int64) {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("removing incomplete car failed", "car_id", id, "error", err)
	}
}

func (s *Service) cleanUpImages(ctx context.Context, cars []Car) error {
	var errs []error
	for i := range cars {
		if err := s.deleteObjects(ctx, cars[i].ObjectNames()); err != nil {
			errs = append(errs, fmt.Errorf("delete images of car %d: %w", cars[i].ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) deleteObjects(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if err := s.store.DeleteMany(ctx, names, s.bucket); err != nil {
		s.logger.Warn("image cleanup incomplete", "objects", names, "error", err)
		return err
	}
	return nil
}
