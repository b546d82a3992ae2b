package car

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cardealer/service/internal/response"
)

// maxUploadSize bounds the multipart form held in memory; larger parts spill to disk.
const maxUploadSize = 10 << 20

// Handler holds HTTP handlers for car and image endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a new car Handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the car and image endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/cars", func(r chi.Router) {
		r.Get("/", h.ListCars)
		r.Post("/add", h.AddCar)
		r.Post("/replace", h.ReplaceCar)
		r.Delete("/brand/{brand}", h.DeleteCarsByBrand)
		r.Get("/{id}", h.GetCar)
		r.Delete("/{id}", h.DeleteCar)
	})
	r.Route("/images", func(r chi.Router) {
		r.Get("/", h.ListImages)
		r.Get("/{objectName}", h.GetImage)
	})
}

// ListCars godoc
//
//	@Summary		List cars
//	@Description	Returns every car with its image references.
//	@Tags			cars
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Car}
//	@Failure		500	{object}	response.Envelope
//	@Router			/cars [get]
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.svc.ListCars(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, cars)
}

// GetCar godoc
//
//	@Summary		Get car
//	@Tags			cars
//	@Produce		json
//	@Param			id	path		int	true	"Car ID"
//	@Success		200	{object}	response.Envelope{data=Car}
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/cars/{id} [get]
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	c, err := h.svc.GetCar(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, c)
}

// AddCar godoc
//
//	@Summary		Add car with image
//	@Description	Creates a car from the JSON in newCarJson and stores imageOfNewCar as its image. Allowed extensions: png, jpg, jpeg, webp.
//	@Tags			cars
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			newCarJson		formData	string	true	"Car as JSON, e.g. {\"brand\":\"VW\",\"model\":\"Golf\"}"
//	@Param			imageOfNewCar	formData	file	true	"Car image"
//	@Success		201				{object}	response.Envelope{data=Car}
//	@Failure		400				{object}	response.Envelope
//	@Failure		500				{object}	response.Envelope
//	@Router			/cars/add [post]
func (h *Handler) AddCar(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, ok := formUpload(w, r, "imageOfNewCar")
	if !ok {
		return
	}
	defer closeFile()

	c, err := h.svc.AddCarWithImage(r.Context(), r.FormValue("newCarJson"), upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, MsgAddSuccess, c)
}

// ReplaceCar godoc
//
//	@Summary		Replace car
//	@Description	Deletes the car oldCarId with its images and adds secondCar with secondCarFile in its place.
//	@Tags			cars
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			oldCarId		formData	int		true	"ID of the car to replace"
//	@Param			secondCar		formData	string	true	"Replacement car as JSON"
//	@Param			secondCarFile	formData	file	true	"Replacement car image"
//	@Success		200				{object}	response.Envelope{data=Car}
//	@Failure		400				{object}	response.Envelope
//	@Failure		404				{object}	response.Envelope
//	@Failure		500				{object}	response.Envelope
//	@Router			/cars/replace [post]
func (h *Handler) ReplaceCar(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, ok := formUpload(w, r, "secondCarFile")
	if !ok {
		return
	}
	defer closeFile()

	id, ok := carID(w, r.FormValue("oldCarId"))
	if !ok {
		return
	}

	c, err := h.svc.ReplaceCar(r.Context(), id, r.FormValue("secondCar"), upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OKMessage(w, MsgReplaceSuccess, c)
}

// DeleteCar godoc
//
//	@Summary		Delete car
//	@Description	Deletes the car, its image rows and its stored images.
//	@Tags			cars
//	@Produce		json
//	@Param			id	path		int	true	"Car ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/cars/{id} [delete]
func (h *Handler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.svc.DeleteCar(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OKMessage(w, MsgDeleteSuccess, nil)
}

// DeleteCarsByBrand godoc
//
//	@Summary		Delete cars by brand
//	@Description	Deletes every car of the brand. Deleting nothing is not an error.
//	@Tags			cars
//	@Produce		json
//	@Param			brand	path		string	true	"Brand"
//	@Success		200		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/cars/brand/{brand} [delete]
func (h *Handler) DeleteCarsByBrand(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.DeleteCarsByBrand(r.Context(), chi.URLParam(r, "brand"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OKMessage(w, msg, nil)
}

// ListImages godoc
//
//	@Summary		List images
//	@Tags			images
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]CarImage}
//	@Failure		500	{object}	response.Envelope
//	@Router			/images [get]
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.ListImages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, images)
}

// GetImage godoc
//
//	@Summary		Download image
//	@Tags			images
//	@Produce		png
//	@Produce		jpeg
//	@Produce		image/webp
//	@Param			objectName	path		string	true	"Object name"
//	@Success		200			{file}		binary
//	@Failure		400			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/images/{objectName} [get]
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mediaType, err := h.svc.GetImage(r.Context(), chi.URLParam(r, "objectName"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Binary(w, mediaType, data)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	response.Error(w, status, msg)
}

func carID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid car id")
		return 0, false
	}
	return id, true
}

// formUpload parses the multipart form and opens the named file part. A
// missing part yields an empty Upload, which the service rejects after it has
// checked the car payload.
func formUpload(w http.ResponseWriter, r *http.Request, field string) (Upload, func(), bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return Upload{}, nil, false
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return Upload{}, func() {}, true
	}
	if err != nil {
		response.BadRequest(w, "invalid multipart form")
		return Upload{}, nil, false
	}

	return uploadFrom(file, header), func() { _ = file.Close() }, true
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) Upload {
	return Upload{Filename: header.Filename, Size: header.Size, Reader: file}
}
