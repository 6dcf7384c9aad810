package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "ok"))
	RecordCatalogRequest("search", "ok")
	RecordCatalogRequest("search", "ok")
	assert.Equal(t, before+2, testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "ok")))
}

func TestRecordDiscovery(t *testing.T) {
	before := testutil.ToFloat64(DiscoveryRuns.WithLabelValues("mood", "rendered"))
	RecordDiscovery("mood", "rendered", 0.4, 12)
	assert.Equal(t, before+1, testutil.ToFloat64(DiscoveryRuns.WithLabelValues("mood", "rendered")))
}
