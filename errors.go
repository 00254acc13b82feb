package uploadgate

import "errors"

var (
	// ErrMissingFile is returned when an upload request carries no file.
	ErrMissingFile = errors.New("no file uploaded")
	// ErrMissingScope is returned when an upload request carries no scope identifier.
	ErrMissingScope = errors.New("scope identifier is required")
	// ErrMissingPath is returned when a download request carries no storage path.
	ErrMissingPath = errors.New("storage path is required")
	// ErrUnsupportedFileType is returned when a file fails type validation.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrStorageConflict is returned when an upload would overwrite an existing object.
	ErrStorageConflict = errors.New("object already exists")
	// ErrStorage wraps any other object store failure.
	ErrStorage = errors.New("storage error")
)
