package observability

import (
	"context"
	"errors"
	"strings"
)

const (
	ErrorFetch   = "fetch"
	ErrorExtract = "extract"
	ErrorPersist = "persist"
	ErrorRender  = "render"
	ErrorUnknown = "unknown"
)

type kinded interface {
	Kind() string
}

// Classify maps an error onto the failure taxonomy. Typed errors report their own
// kind; bare network-ish errors fall back to message inspection.
func Classify(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorFetch
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "parse") ||
		strings.Contains(msg, "selector") {
		return ErrorExtract
	}
	return ErrorUnknown
}
