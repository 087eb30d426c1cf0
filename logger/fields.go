package logger

// Standard field names for consistent structured logging across blockgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Generation
	FieldBlockID   = "block_id"
	FieldBlockType = "block_type"
	FieldSlot      = "slot"
	FieldHelper    = "helper"
	FieldLanguage  = "language"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount   = "count"
	FieldSize    = "size"
	FieldWorkers = "workers"

	// Files and paths
	FieldFile   = "file"
	FieldSource = "source"
	FieldOutput = "output"
	FieldDigest = "digest"
)
