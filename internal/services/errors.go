// Package services defines shared utilities consumed by the enrichment
// pipeline and its external provider integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so per-record and
//     per-batch failures carry consistent component and operation context.
//   - Context helpers that stamp run and request correlation identifiers for
//     logging.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProvider marks failures of an external provider call (network,
	// timeout, bad status, malformed payload). These are contained at the
	// record or batch they belong to and never abort a run.
	ErrProvider = errors.New("provider error")
	// ErrValidation marks responses that parsed but failed a local check.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration. This is the only fatal
	// class in the pipeline's scope.
	ErrConfiguration = errors.New("configuration error")
	// ErrTimeout marks an external call that exceeded its request deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProvider
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether the error belongs to the fatal startup class.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
