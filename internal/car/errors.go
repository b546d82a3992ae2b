package car

import (
	"errors"
	"net/http"

	"github.com/cardealer/service/internal/storage"
)

// User-facing messages. They stay stable regardless of which internal call failed.
const (
	MsgAddSuccess        = "Successfully added car along with its image."
	MsgReplaceSuccess    = "Replacement successful."
	MsgDeleteSuccess     = "Deletion successful."
	MsgDeleteByBrand     = "Successfully deleted %d car(s) of brand %s."
	MsgNoneDeleted       = "No cars were deleted."
	MsgCarNotFound       = "No car with requested id found."
	MsgJSONParse         = "Car data sent is no valid JSON."
	MsgBrandModelInvalid = "Car model and/or brand name invalid."
	MsgInvalidFile       = "Name of file requested for upload is invalid, too long, or contains an extension which is prohibited."
	MsgUploadFailed      = "File upload failed due to internal error."
	MsgStorageFailed     = "Image storage request failed due to internal error."
	MsgInternal          = "internal server error"
)

// ErrCarNotFound is returned when no car exists for the requested id.
var ErrCarNotFound = errors.New("car not found")

// ErrModelOrBrandInvalid is returned when brand or model length is out of range.
var ErrModelOrBrandInvalid = errors.New("car model and/or brand invalid")

// ErrInvalidFileRequest is returned for missing, overlong or disallowed image names.
var ErrInvalidFileRequest = errors.New("invalid file request")

// ErrJSONParse is returned when the car payload is not valid JSON.
var ErrJSONParse = errors.New("car payload is not valid json")

// ErrUploadFailed wraps any failure that happens after a new car passed validation.
var ErrUploadFailed = errors.New("car upload failed")

// StatusFor maps an error returned by Service to an HTTP status and a stable message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrCarNotFound):
		return http.StatusNotFound, MsgCarNotFound
	case errors.Is(err, ErrJSONParse):
		return http.StatusBadRequest, MsgJSONParse
	case errors.Is(err, ErrModelOrBrandInvalid):
		return http.StatusBadRequest, MsgBrandModelInvalid
	case errors.Is(err, ErrInvalidFileRequest):
		return http.StatusBadRequest, MsgInvalidFile
	case errors.Is(err, ErrUploadFailed):
		return http.StatusInternalServerError, MsgUploadFailed
	case errors.Is(err, storage.ErrStorage):
		return http.StatusInternalServerError, MsgStorageFailed
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
