package logger

// Standard field names for structured logging.
const (
	FieldRunID      = "run_id"
	FieldExperiment = "experiment"
	FieldModel      = "model"
	FieldEpoch      = "epoch"
	FieldLoss       = "loss"
	FieldScore      = "score"
	FieldMetric     = "metric"
	FieldFold       = "fold"
	FieldParams     = "params"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldFile       = "file"
	FieldThreads    = "threads"
)
