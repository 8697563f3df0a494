package logging

// Standardized field names for structured logging.
const (
	FieldSender      = "sender"
	FieldBank        = "bank"
	FieldGrammar     = "grammar"
	FieldCategory    = "category"
	FieldKeyword     = "keyword"
	FieldDirection   = "direction"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldUserID      = "user_id"
	FieldTransaction = "transaction_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
