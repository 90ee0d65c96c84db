package fintools

import "fmt"

// ToolError is an expected tool failure. Its message is the exact text
// reported back to the caller as an {"error": ...} payload: unknown
// tickers, provider outages, bad statement selectors. Anything else
// stays an ordinary error and surfaces as a protocol-level failure.
type ToolError struct {
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func toolErrorf(format string, args ...any) *ToolError {
	return &ToolError{Message: fmt.Sprintf(format, args...)}
}
