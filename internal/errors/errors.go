package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an error
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller passed an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested character or item was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a character that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal indicates an internal failure
	CodeInternal Code = "internal"

	// CodeMalformedExpression indicates a roll expression could not be parsed
	CodeMalformedExpression Code = "malformed_expression"

	// CodeInvalidRollParameters indicates a non-positive die size or repetition count
	CodeInvalidRollParameters Code = "invalid_roll_parameters"

	// CodeUnknownSpellStat indicates the spell casting stat is not one of the six stats
	CodeUnknownSpellStat Code = "unknown_spell_stat"

	// CodeMissingSkillEntry indicates a skill required for a derived value is absent
	CodeMissingSkillEntry Code = "missing_skill_entry"

	// CodeInvalidWeapon indicates an attack was made with an incomplete weapon
	CodeInvalidWeapon Code = "invalid_weapon"
)

// Error is a sheet error with a code and optional metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps err, keeping its code when it is already an *Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return &Error{
			Code:    sheetErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(sheetErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error and forces the code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// MalformedExpressionf creates a formatted malformed expression error
func MalformedExpressionf(format string, args ...any) *Error {
	return Newf(CodeMalformedExpression, format, args...)
}

// InvalidRollParametersf creates a formatted invalid roll parameters error
func InvalidRollParametersf(format string, args ...any) *Error {
	return Newf(CodeInvalidRollParameters, format, args...)
}

// UnknownSpellStatf creates a formatted unknown spell stat error
func UnknownSpellStatf(format string, args ...any) *Error {
	return Newf(CodeUnknownSpellStat, format, args...)
}

// MissingSkillEntryf creates a formatted missing skill entry error
func MissingSkillEntryf(format string, args ...any) *Error {
	return Newf(CodeMissingSkillEntry, format, args...)
}

// InvalidWeapon creates an invalid weapon error
func InvalidWeapon(message string) *Error {
	return New(CodeInvalidWeapon, message)
}

// InvalidWeaponf creates a formatted invalid weapon error
func InvalidWeaponf(format string, args ...any) *Error {
	return Newf(CodeInvalidWeapon, format, args...)
}

// Is checks if the error carries a specific code
func Is(err error, code Code) bool {
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return sheetErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool              { return Is(err, CodeNotFound) }
func IsInvalidArgument(err error) bool       { return Is(err, CodeInvalidArgument) }
func IsAlreadyExists(err error) bool         { return Is(err, CodeAlreadyExists) }
func IsInternal(err error) bool              { return Is(err, CodeInternal) }
func IsMalformedExpression(err error) bool   { return Is(err, CodeMalformedExpression) }
func IsInvalidRollParameters(err error) bool { return Is(err, CodeInvalidRollParameters) }
func IsUnknownSpellStat(err error) bool      { return Is(err, CodeUnknownSpellStat) }
func IsMissingSkillEntry(err error) bool     { return Is(err, CodeMissingSkillEntry) }
func IsInvalidWeapon(err error) bool         { return Is(err, CodeInvalidWeapon) }

// GetCode returns the error code, CodeUnknown for foreign errors
func GetCode(err error) Code {
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return sheetErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return sheetErr.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
