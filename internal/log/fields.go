package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldCollection = "collection"
	FieldID         = "id"
	FieldCount      = "count"
	FieldCategory   = "category"
	FieldTag        = "tag"
	FieldAmount     = "amount"
	FieldPath       = "path"
	FieldBackend    = "backend"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldReader     = "reader"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentCLI        = "cli"
	ComponentStorage    = "storage"
	ComponentBackend    = "backend"
	ComponentService    = "service"
	ComponentReport     = "report"
	ComponentExport     = "export"
	ComponentEvents     = "events"
	ComponentSimulation = "simulation"
)

// Operations defines standard operation names
const (
	OpInsert     = "insert"
	OpInsertBulk = "insert_bulk"
	OpRead       = "read"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpList       = "list"
	OpSummary    = "summary"
	OpExport     = "export"
	OpPublish    = "publish"
	OpSimulate   = "simulate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeNetwork    = "network_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRecord adds collection and id fields
func (f LogFields) WithRecord(collection string, id int64) LogFields {
	f[FieldCollection] = collection
	f[FieldID] = id
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
