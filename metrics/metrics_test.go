package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestCountersByLabel(t *testing.T) {
	before := testutil.ToFloat64(FilesWritten.WithLabelValues("csv"))
	FilesWritten.WithLabelValues("csv").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FilesWritten.WithLabelValues("csv")))

	before = testutil.ToFloat64(UploadErrors.WithLabelValues("s3"))
	UploadErrors.WithLabelValues("s3").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(UploadErrors.WithLabelValues("s3")))
}
