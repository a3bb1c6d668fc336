package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrWeakPassword         = errors.New("password must be at least 6 characters long")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrMissingFile          = errors.New("no file provided")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentNotProcessed = errors.New("document has not been processed yet")
	ErrDocumentBusy         = errors.New("document is being processed")
	ErrExtractionFailed     = errors.New("document extraction failed")
	ErrInvalidExtraction    = errors.New("extraction result is malformed")
	ErrCalculationNotFound  = errors.New("calculation not found")
	ErrEventOutOfRange      = errors.New("event index out of range")
	ErrInvalidEvent         = errors.New("event requires a description and start and end times")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrExportFailed         = errors.New("export failed")
	ErrInvalidCache         = errors.New("cached value is malformed")
	ErrInvalidImport        = errors.New("import file is malformed")
)
