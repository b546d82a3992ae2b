// Package car manages the dealership inventory: cars, their images and the
// orchestration between the relational store and the object store.
package car

import (
	"io"
	"time"
)

// Car is one inventory record. ID and CreatedAt are assigned by the store.
type Car struct {
	ID        int64      `json:"id"`
	Brand     string     `json:"brand"`
	Model     string     `json:"model"`
	CreatedAt time.Time  `json:"createdAt"`
	Images    []CarImage `json:"images"`
}

// CarImage links a car to the object-store key holding its image bytes.
type CarImage struct {
	ID         int64  `json:"-"`
	CarID      int64  `json:"-"`
	ObjectName string `json:"objectName"`
}

// NewCarRequest is the JSON payload submitted alongside an image upload.
type NewCarRequest struct {
	Brand string `json:"brand" example:"VW"`
	Model string `json:"model" example:"Golf"`
}

// Upload is an image received from a client.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// ObjectNames returns the object-store keys of all images of c.
func (c *Car) ObjectNames() []string {
	names := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		names = append(names, img.ObjectName)
	}
	return names
}
