package upload

import "errors"

var (
	// ErrMissingFile is returned when the expected file field is absent
	ErrMissingFile = errors.New("no file uploaded")

	// ErrFileTypeNotAllowed is returned when the upload policy rejects the file extension
	ErrFileTypeNotAllowed = errors.New("file type not allowed")

	// ErrFileTooLarge is returned when the request or file exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidForm is returned when the request is not a readable multipart form
	ErrInvalidForm = errors.New("invalid multipart form")
)
