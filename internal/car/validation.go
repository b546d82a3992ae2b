package car

import (
	"strings"
	"unicode/utf8"
)

const (
	maxBrandLength    = 100
	maxModelLength    = 300
	maxFilenameLength = 255
)

// allowedExtensions maps each accepted image extension to its media type.
var allowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// ValidateBrandAndModel reports whether both lengths are within bounds:
// 1..100 characters for brand and 1..300 for model.
func ValidateBrandAndModel(brand, model string) bool {
	b := utf8.RuneCountInString(brand)
	m := utf8.RuneCountInString(model)
	return b > 0 && b <= maxBrandLength && m > 0 && m <= maxModelLength
}

// ValidateImageFilename checks an image name and returns its extension.
// The name must be shorter than 255 characters and contain exactly one dot,
// so "a.exe.png" is rejected even though every part looks harmless.
func ValidateImageFilename(filename string) (bool, string) {
	if filename == "" || utf8.RuneCountInString(filename) >= maxFilenameLength {
		return false, ""
	}

	parts := strings.Split(filename, ".")
	if len(parts) != 2 {
		return false, ""
	}
	ext := parts[1]
	if _, ok := allowedExtensions[ext]; !ok {
		return false, ""
	}
	return true, ext
}

// MediaType returns the media type for an allowed extension, or "" otherwise.
func MediaType(extension string) string {
	return allowedExtensions[extension]
}
