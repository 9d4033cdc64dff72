package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldPage       = "page"
	FieldRow        = "row"
	FieldMode       = "mode"
	FieldLayout     = "layout"
	FieldStrategy   = "strategy"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldSkipped    = "skipped"
	FieldWorkers    = "workers"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
