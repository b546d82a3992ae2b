package car

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardealer/service/internal/storage"
)

const testBucket = "car-images"

func newTestService(t *testing.T) (*Service, *memRepo, *storage.MemoryStorage) {
	t.Helper()
	repo := newMemRepo()
	store := storage.NewMemoryStorage()
	return NewService(repo, store, testBucket, nil), repo, store
}

func jpegUpload(name string) Upload {
	return Upload{Filename: name, Size: 1, Reader: bytes.NewReader([]byte{0xff})}
}

func TestAddCarWithImageRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	added, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.NoError(t, err)
	require.NotZero(t, added.ID)
	require.Len(t, added.Images, 1)
	assert.Regexp(t, `^[0-9a-f]{64}\.jpg$`, added.Images[0].ObjectName)

	got, err := svc.GetCar(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "VW", got.Brand)
	assert.Equal(t, "Golf", got.Model)
	require.Len(t, got.Images, 1)
	assert.Equal(t, added.Images[0].ObjectName, got.Images[0].ObjectName)

	data, mediaType, err := svc.GetImage(ctx, got.Images[0].ObjectName)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, data)
	assert.Equal(t, "image/jpeg", mediaType)
	assert.Equal(t, 1, store.Len(testBucket))
}

func TestAddCarWithImageValidation(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		filename string
		wantErr  error
	}{
		{"brand too long", fmt.Sprintf(`{"brand":%q,"model":"Golf"}`, strings.Repeat("VW", 400)), "photo.jpg", ErrModelOrBrandInvalid},
		{"empty model", `{"brand":"VW","model":""}`, "photo.jpg", ErrModelOrBrandInvalid},
		{"bad json", `{"brand":`, "photo.jpg", ErrJSONParse},
		{"double extension", `{"brand":"VW","model":"Golf"}`, "photo.exe.jpg", ErrInvalidFileRequest},
		{"no extension", `{"brand":"VW","model":"Golf"}`, "photo", ErrInvalidFileRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, store := newTestService(t)
			_, err := svc.AddCarWithImage(context.Background(), tt.payload, jpegUpload(tt.filename))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, repo.count(), "nothing may be persisted")
			assert.Zero(t, store.Len(testBucket))
		})
	}
}

func TestAddCarWithImageUploadFailureRemovesCar(t *testing.T) {
	repo := newMemRepo()
	store := &flakyStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		uploadErr:     fmt.Errorf("%w: connection refused", storage.ErrStorage),
	}
	svc := NewService(repo, store, testBucket, nil)

	_, err := svc.AddCarWithImage(context.Background(), `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.ErrorIs(t, err, ErrUploadFailed)
	require.ErrorIs(t, err, storage.ErrStorage)
	assert.Zero(t, repo.count())
}

func TestAddCarWithImageLinkFailureRemovesCarAndObject(t *testing.T) {
	repo := newMemRepo()
	repo.addImageErr = errors.New("insert failed")
	store := storage.NewMemoryStorage()
	svc := NewService(repo, store, testBucket, nil)

	_, err := svc.AddCarWithImage(context.Background(), `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Zero(t, repo.count())
	assert.Zero(t, store.Len(testBucket))
}

func TestDeleteCarTwice(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	added, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.png"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCar(ctx, added.ID))
	assert.Zero(t, store.Len(testBucket), "image must be removed with its car")

	err = svc.DeleteCar(ctx, added.ID)
	require.ErrorIs(t, err, ErrCarNotFound)
}

func TestDeleteCarBlobFailureIsReported(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	store := &flakyStorage{MemoryStorage: storage.NewMemoryStorage()}
	svc := NewService(repo, store, testBucket, nil)

	added, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.png"))
	require.NoError(t, err)

	store.deleteErr = fmt.Errorf("%w: timeout", storage.ErrStorage)
	err = svc.DeleteCar(ctx, added.ID)
	require.ErrorIs(t, err, storage.ErrStorage)
	assert.Zero(t, repo.count(), "rows are deleted even when blob cleanup fails")
}

func TestDeleteCarsByBrand(t *testing.T) {
	ctx := context.Background()
	svc, repo, store := newTestService(t)

	for _, payload := range []string{
		`{"brand":"VW","model":"Golf"}`,
		`{"brand":"VW","model":"Polo"}`,
		`{"brand":"BMW","model":"i3"}`,
	} {
		_, err := svc.AddCarWithImage(ctx, payload, jpegUpload("photo.webp"))
		require.NoError(t, err)
	}

	msg, err := svc.DeleteCarsByBrand(ctx, "VW")
	require.NoError(t, err)
	assert.Equal(t, "Successfully deleted 2 car(s) of brand VW.", msg)
	assert.Equal(t, 1, repo.count())
	assert.Equal(t, 1, store.Len(testBucket))
}

func TestDeleteCarsByBrandNoneMatched(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.NoError(t, err)

	msg, err := svc.DeleteCarsByBrand(ctx, "NoSuchBrand")
	require.NoError(t, err)
	assert.Equal(t, MsgNoneDeleted, msg)
	assert.Equal(t, 1, repo.count())
}

func TestReplaceCar(t *testing.T) {
	ctx := context.Background()
	svc, repo, store := newTestService(t)

	old, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("old.jpg"))
	require.NoError(t, err)

	replaced, err := svc.ReplaceCar(ctx, old.ID, `{"brand":"BMW","model":"i3"}`, jpegUpload("new.png"))
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, replaced.ID)
	assert.Equal(t, "BMW", replaced.Brand)

	_, err = svc.GetCar(ctx, old.ID)
	require.ErrorIs(t, err, ErrCarNotFound)
	assert.Equal(t, 1, repo.count())
	assert.Equal(t, 1, store.Len(testBucket))
	assert.False(t, store.Has(old.Images[0].ObjectName, testBucket))
	assert.True(t, store.Has(replaced.Images[0].ObjectName, testBucket))
}

func TestReplaceCarMissing(t *testing.T) {
	svc, repo, store := newTestService(t)

	_, err := svc.ReplaceCar(context.Background(), 999, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.ErrorIs(t, err, ErrCarNotFound)
	assert.Zero(t, repo.count())
	assert.Zero(t, store.Len(testBucket))
}

func TestReplaceCarInvalidKeepsOld(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	old, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.NoError(t, err)

	_, err = svc.ReplaceCar(ctx, old.ID, `{"brand":"","model":"Golf"}`, jpegUpload("photo.jpg"))
	require.ErrorIs(t, err, ErrModelOrBrandInvalid)

	_, err = svc.ReplaceCar(ctx, old.ID, `{"brand":"VW","model":"Golf"}`, jpegUpload("photo.bmp"))
	require.ErrorIs(t, err, ErrInvalidFileRequest)

	got, err := svc.GetCar(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, old.ID, got.ID)
	assert.Equal(t, 1, repo.count())
}

func TestGetImageInvalidName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.GetImage(context.Background(), "../../etc/passwd")
	require.ErrorIs(t, err, ErrInvalidFileRequest)
}

func TestGetImageMissingObject(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)
	require.NoError(t, store.EnsureBucket(ctx, testBucket))

	_, _, err := svc.GetImage(ctx, strings.Repeat("a", 64)+".png")
	require.ErrorIs(t, err, storage.ErrObjectNotFound)
	require.ErrorIs(t, err, storage.ErrStorage)
}

func TestSweepOlderThan(t *testing.T) {
	ctx := context.Background()
	svc, repo, store := newTestService(t)
	now := time.Now()

	repo.now = func() time.Time { return now.Add(-25 * time.Hour) }
	old, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`, jpegUpload("old.jpg"))
	require.NoError(t, err)

	repo.now = func() time.Time { return now.Add(-1 * time.Hour) }
	fresh, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Polo"}`, jpegUpload("fresh.jpg"))
	require.NoError(t, err)

	n, err := svc.SweepOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.GetCar(ctx, old.ID)
	require.ErrorIs(t, err, ErrCarNotFound)
	_, err = svc.GetCar(ctx, fresh.ID)
	require.NoError(t, err)
	assert.False(t, store.Has(old.Images[0].ObjectName, testBucket))
	assert.True(t, store.Has(fresh.Images[0].ObjectName, testBucket))
}

func TestAddCarReadsWholeStream(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	payload := bytes.Repeat([]byte("x"), 4096)

	added, err := svc.AddCarWithImage(ctx, `{"brand":"VW","model":"Golf"}`,
		Upload{Filename: "big.png", Size: int64(len(payload)), Reader: io.NopCloser(bytes.NewReader(payload))})
	require.NoError(t, err)

	data, _, err := svc.GetImage(ctx, added.Images[0].ObjectName)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}
