// Package stageerr defines the failure taxonomy shared by the pipeline
// stages and the CLI.
package stageerr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingInput  = errors.New("missing input")
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrBusy          = errors.New("output directory busy")
)

// Kind names the failure class for journals and logs.
type Kind string

const (
	KindNone          Kind = ""
	KindMissingInput  Kind = "missing_input"
	KindExternalTool  Kind = "external_tool"
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindBusy          Kind = "busy"
	KindCancelled     Kind = "cancelled"
	KindOther         Kind = "other"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps err onto its failure kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, ErrExternalTool):
		return KindExternalTool
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindOther
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
