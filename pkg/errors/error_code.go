package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeInvalidSignal        ErrorCode = 101
	ErrCodeInvalidParameter     ErrorCode = 102
	ErrCodeInvalidTimeframe     ErrorCode = 103
	ErrCodeInvalidPeriod        ErrorCode = 104

	// Data errors (200-299)
	ErrCodeDataNotFound      ErrorCode = 200
	ErrCodeInsufficientData  ErrorCode = 201
	ErrCodeIndexOutOfBounds  ErrorCode = 202
	ErrCodeHistoryLoadFailed ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy/filter errors (400-499)
	ErrCodeStrategyFailed ErrorCode = 400
	ErrCodeStrategyPanic  ErrorCode = 401
	ErrCodeFilterFailed   ErrorCode = 402
	ErrCodeFilterPanic    ErrorCode = 403

	// Execution errors (500-599)
	ErrCodeDegenerateSignal ErrorCode = 500
	ErrCodeZeroPositionSize ErrorCode = 501

	// Replay errors (600-699)
	ErrCodeInvariantViolation  ErrorCode = 600
	ErrCodePositionAlreadyOpen ErrorCode = 601
	ErrCodeNoOpenPosition      ErrorCode = 602
)
