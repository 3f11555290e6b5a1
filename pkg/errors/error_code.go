package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidQuantity      ErrorCode = 102
	ErrCodeInvalidWeight        ErrorCode = 103
	ErrCodeInvalidTrade         ErrorCode = 104
	ErrCodeInsufficientData     ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoPriceData           ErrorCode = 203
	ErrCodeNoTradingDates        ErrorCode = 204
	ErrCodeDataParseFailed       ErrorCode = 205

	// Strategy errors (400-499)
	ErrCodeStrategyNotSet      ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeStrategySignalError ErrorCode = 402

	// Execution errors (500-599)
	ErrCodeInsufficientFunds ErrorCode = 500
	ErrCodeLiquidityRejected ErrorCode = 501
	ErrCodePositionNotFound  ErrorCode = 502
	ErrCodeExecutionFailed   ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestStateNil    ErrorCode = 600
	ErrCodeBacktestInitFailed  ErrorCode = 601
	ErrCodeBacktestConfigError ErrorCode = 602
	ErrCodeBacktestNotRun      ErrorCode = 603

	// History/persistence errors (700-799)
	ErrCodeHistoryWriteFailed ErrorCode = 700
	ErrCodeHistoryReadFailed  ErrorCode = 701

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
