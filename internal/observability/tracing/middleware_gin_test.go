package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsEmptyStrings(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", ""),
		attribute.String("http.method", "GET"),
		attribute.Int("http.status_code", 200),
	)
	assert.Len(t, attrs, 2)
}

func TestSafeErrorKeepsPrefixOnly(t *testing.T) {
	err := SafeError(errors.New("import key U1: UNIQUE constraint failed"))
	assert.EqualError(t, err, "import key U1")
	assert.Nil(t, SafeError(nil))
}
