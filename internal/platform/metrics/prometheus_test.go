package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsManager_NilSafe(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.ObserveSubmission("succeeded", time.Second)
		m.ObserveUpload(nil, 10)
		m.ObserveGeocode("ok")
		m.ObserveOrphans(2)
	})
}

func TestMetricsManager_ObserveUpload(t *testing.T) {
	m := NewMetricsManager("test")

	m.ObserveUpload(nil, 100)
	m.ObserveUpload(nil, 50)
	m.ObserveUpload(errors.New("boom"), 999)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("failed")))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.UploadedBytesTotal))
}

func TestMetricsManager_ObserveSubmissionAndOrphans(t *testing.T) {
	m := NewMetricsManager("test")

	m.ObserveSubmission("upload_failed", 2*time.Second)
	m.ObserveOrphans(3)
	m.ObserveOrphans(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("upload_failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OrphanedObjectsTotal))
}

func TestNewMetricsManager_HyphenatedServiceName(t *testing.T) {
	assert.NotPanics(t, func() {
		m := NewMetricsManager("house-marketplace")
		m.ObserveGeocode("ok")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.GeocodeRequestsTotal.WithLabelValues("ok")))
	})
}
