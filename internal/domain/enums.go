package domain

// FileType represents the allowed Statement of Facts file types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOC  FileType = "doc"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// AllowedFileTypes maps FileType to its canonical MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeDOC:  "application/msword",
	FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FileTypeTXT:  "text/plain",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf":    FileTypePDF,
	"application/msword": FileTypeDOC,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileTypeDOCX,
	"text/plain": FileTypeTXT,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"doc":  FileTypeDOC,
	"docx": FileTypeDOCX,
	"txt":  FileTypeTXT,
}

// UserRole identifies what a user may do.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// DocumentStatus is the lifecycle of an uploaded Statement of Facts.
type DocumentStatus string

const (
	DocumentStatusQueued     DocumentStatus = "queued"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// CalculationMode tells whether the charterer pays or earns for the port call.
type CalculationMode string

const (
	ModeDemurrage CalculationMode = "demurrage"
	ModeDispatch  CalculationMode = "dispatch"
)

// Operation is the cargo operation performed at the port.
type Operation string

const (
	OperationLoad      Operation = "load"
	OperationDischarge Operation = "discharge"
)

// ExportFormat names a downloadable report format.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportHTML ExportFormat = "html"
)

// FieldValidationStatus is the per-field outcome of extraction validation.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
	FieldStatusInvalid FieldValidationStatus = "invalid"
)

// ValidationSeverity grades a failed extraction rule.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)
