package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID       = "X-Request-ID"
	HeaderPreviewInstance = "X-Preview-Instance"
	HeaderContentType     = "Content-Type"
	HeaderDisposition     = "Content-Disposition"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain       = "domain"
	CtxEncode       = "Encode"
	CtxPreview      = "Preview"
	CtxExport       = "Export"
	CtxBulkLoad     = "BulkLoad"
	CtxBulkStart    = "BulkStart"
	CtxBulkRun      = "BulkRun"
	CtxBulkCancel   = "BulkCancel"
	CtxBulkArchive  = "BulkArchive"
	CtxTheme        = "Theme"
	CtxRender       = "Render"
	CtxParseCSV     = "ParseCSV"
	CtxArchiveWrite = "ArchiveWrite"

	// Infrastructure context names
	CtxDB        = "db"
	CtxFindTheme = "FindTheme"
	CtxSaveTheme = "SaveTheme"
	CtxClose     = "Close"
	CtxAPI       = "api"
	CtxConfig    = "config"

	// General context names
	CtxRouter = "Router"
	CtxMain   = "Main"
)

// Data field keys
const (
	// Service data fields
	DataService   = "service"
	DataType      = "type"
	DataFormat    = "format"
	DataSize      = "size"
	DataPayload   = "payload"
	DataInstance  = "instance"
	DataRecreated = "recreated"
	DataFileName  = "file_name"
	DataRunID     = "run_id"
	DataRows      = "rows"
	DataRow       = "row"
	DataEntry     = "entry"
	DataCurrent   = "current"
	DataTotal     = "total"
	DataSkipped   = "skipped"
	DataStatus    = "status"
	DataTheme     = "theme"
	DataBytes     = "bytes"
	DataCacheHit  = "cache_hit"

	// Database data fields
	DataPath    = "path"
	DataElapsed = "elapsed"
	DataSQL     = "sql"
	DataData    = "data"

	// API data fields
	DataMethod      = "method"
	DataLatency     = "latency"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataAddr        = "addr"
	DataDBPath      = "db_path"
	DataEnvironment = "environment"
)

// Error message constants
const (
	ErrEmptyPayload      = "nothing to encode yet"
	ErrInvalidSettings   = "settings are invalid"
	ErrInvalidURL        = "enter a valid URL (include https://)"
	ErrInvalidEmail      = "enter a valid email address"
	ErrInvalidPhone      = "enter a valid phone number"
	ErrInvalidSize       = "size is out of range"
	ErrInvalidLogoSize   = "logo size must be between 5 and 50 percent"
	ErrTransparentJPEG   = "JPEG does not support transparency, choose PNG or SVG"
	ErrUnsupportedFormat = "unsupported export format"
	ErrInvalidColor      = "invalid color"
	ErrRunActive         = "a bulk run is already in progress"
	ErrRunNotReady       = "no parsed upload is ready to run"
	ErrRunNotConfirmed   = "bulk generation must be confirmed"
	ErrNoArchive         = "no archive is available"
	ErrEmptyUpload       = "upload contains no rows"
	ErrNoSurface         = "renderer produced no image"
	ErrInvalidTheme      = "theme must be light or dark"
	ErrThemeNotFound     = "theme preference not found"
)

// Error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPIUpload         = "API003"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
)

// Error types
const (
	ErrTypeDomain = "domain"
	ErrTypeAPI    = "api"
	ErrTypeApp    = "application"
)

// API routes
const (
	RoutePayload      = "/api/payload"
	RoutePreview      = "/api/preview"
	RouteExport       = "/api/export"
	RouteBulk         = "/api/bulk"
	RouteBulkUpload   = "/api/bulk/upload"
	RouteBulkStart    = "/api/bulk/start"
	RouteBulkCancel   = "/api/bulk/cancel"
	RouteBulkArchive  = "/api/bulk/archive"
	RouteTheme        = "/api/preferences/theme"
	RouteThemeToggle  = "/api/preferences/theme/toggle"
	RouteHealthcheck  = "/health"
	RouteMetrics      = "/metrics"
	FormFieldUpload   = "file"
	MaxUploadBytes    = 10 << 20
	DefaultExportName = "qr"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Message constants for application
const (
	MsgApplicationStarting    = "Application starting"
	MsgFailedToInitDB         = "Failed to initialize database"
	MsgServerStarting         = "Server starting"
	MsgServerFailedToStart    = "Server failed to start"
	MsgServerShuttingDown     = "Server shutting down"
	MsgServerShutdownError    = "Error during server shutdown"
	MsgServerStopped          = "Server stopped"
	MsgRequestReceived        = "Request received"
	MsgRequestCompleted       = "Request completed"
	MsgSettingUpRoutes        = "Setting up API routes"
	MsgHealthcheckRequest     = "Handling healthcheck request"
	MsgHealthy                = "Healthy"
	MsgBulkWarning            = "Generating many QR codes can take a while and uses a lot of memory. Continue?"
	MsgBulkCanceled           = "Bulk run canceled"
	MsgBulkCompleted          = "Bulk run completed"
	MsgRowSkipped             = "Row skipped"
	MsgDefaultsFileUnreadable = "Style defaults file could not be read"
)

// Cache namespaces
const (
	PreviewNamespace = "PREVIEW"
)

// Theme values
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeKey   = "theme-preference"
)
