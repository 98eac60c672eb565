package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("source", "footfall"),
		attribute.String("user_id", "U1"),
		attribute.String("reason", "rate_limited"),
	)
	require.Len(t, attrs, 2)
	require.Equal(t, attribute.Key("source"), attrs[0].Key)
	require.Equal(t, attribute.Key("reason"), attrs[1].Key)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordImport(context.Background(), "products", 10, 2, 3)
	m.RecordImportFailure(context.Background(), "products")
	m.RecordLoginDenied(context.Background(), "bad_password")
	m.RecordJob(context.Background(), "purge_share_links", time.Second, nil)
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "showroom"}, noop.NewMeterProvider())
	require.NoError(t, err)
	m.RecordImport(context.Background(), "footfall", 4, 1, 2)
	m.RecordJob(context.Background(), "sweep_import_temp", 10*time.Millisecond, errors.New("disk"))
}
