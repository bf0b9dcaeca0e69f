// Package errs defines the two failure classes of the forecaster.
//
// A DataError describes a problem with the training dataset or a channel's
// training set. It is fatal at startup: the service never accepts prediction
// requests after one. An InputError describes a malformed prediction request;
// the caller is told which field was wrong and may retry.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumn    = errors.New("missing required column")
	ErrEmptyTrainingSet = errors.New("empty training set")
	ErrUnderdetermined  = errors.New("fewer rows than features")
	ErrRankDeficient    = errors.New("rank-deficient feature matrix")
	ErrBadCell          = errors.New("unparsable cell")
)

type DataError struct {
	Channel string
	Column  string
	Row     int // 1-based sheet row, 0 when not tied to a row
	Reason  string
	Err     error
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString("data error")
	if e.Channel != "" {
		fmt.Fprintf(&b, " [channel=%s]", e.Channel)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " [column=%q]", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " [row=%d]", e.Row)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}

	return b.String()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}

	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func NewInputError(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// AsInputError unwraps err to an *InputError when it is one.
func AsInputError(err error) (*InputError, bool) {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie, true
	}

	return nil, false
}
