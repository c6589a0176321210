package constant

// Domain service error codes
const (
	// Settings - Validation errors (1xx)
	ErrCodeEmptyPayload      = "SVC101"
	ErrCodeInvalidSettings   = "SVC102"
	ErrCodeTransparentJPEG   = "SVC103"
	ErrCodeUnsupportedFormat = "SVC104"

	// Rendering errors (2xx)
	ErrCodeRenderFailure = "SVC201"
	ErrCodeEncodeFailure = "SVC202"

	// Bulk run errors (3xx)
	ErrCodeBulkRunActive    = "SVC301"
	ErrCodeBulkNotReady     = "SVC302"
	ErrCodeBulkNotConfirmed = "SVC303"
	ErrCodeBulkRowSkipped   = "SVC304"
	ErrCodeBulkArchive      = "SVC305"
	ErrCodeBulkNoArchive    = "SVC306"
	ErrCodeBulkEmptyUpload  = "SVC307"

	// Theme preference errors (4xx)
	ErrCodeInvalidTheme = "SVC401"
	ErrCodeThemeStore   = "SVC402"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Preference operation errors (1xx)
	ErrCodeDBLookup = "DB101"
	ErrCodeDBUpsert = "DB102"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Infrastructure error codes
const (
	ErrCodeCSVParse      = "CSV001"
	ErrCodeLogoDecode    = "IMG001"
	ErrCodeArchiveWrite  = "ZIP001"
	ErrCodeConfigDefault = "CFG001"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeRender     = "render"
	ErrTypeBulk       = "bulk"
	ErrTypeTheme      = "theme"

	// Infrastructure error types
	ErrTypeDB      = "db"
	ErrTypeCSV     = "csv"
	ErrTypeArchive = "archive"
	ErrTypeConfig  = "config"
)
