package validation

import (
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrInvalidImage  = errors.New("the image must be a file of type: jpeg, png, jpg, gif, svg")
	ErrImageTooLarge = errors.New("the image is too large")
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/svg+xml"}

// Image checks that data is an accepted image no larger than maxBytes and
// returns the file extension to store it under.
func Image(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", ErrInvalidImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return mtype.Extension(), nil
		}
	}
	return "", ErrInvalidImage
}
