// Package errors defines the failure taxonomy of the document pipeline.
//
// Stages that read files or call the OCR engine produce these errors. Field
// extraction and compliance evaluation never fail.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a failed processing stage.
type ErrorCode string

const (
	ErrorIO                ErrorCode = "IO_ERROR"
	ErrorUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrorOCREngine         ErrorCode = "OCR_ENGINE_ERROR"
)

// Error is a coded, wrapped pipeline failure.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewIoError(path, message string, cause error) *Error {
	return &Error{Code: ErrorIO, Message: message, Path: path, Cause: cause}
}

func NewUnsupportedFormatError(path, message string, cause error) *Error {
	return &Error{Code: ErrorUnsupportedFormat, Message: message, Path: path, Cause: cause}
}

func NewOcrEngineError(engine, message string, cause error) *Error {
	return &Error{Code: ErrorOCREngine, Message: fmt.Sprintf("%s: %s", engine, message), Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
