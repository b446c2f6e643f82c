package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilesWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentfiles",
		Name:      "files_written_total",
		Help:      "Files written to local storage, by file type.",
	}, []string{"type"})
	OperationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentfiles",
		Name:      "operation_errors_total",
		Help:      "Operations that returned an error message, by operation.",
	}, []string{"op"})
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentfiles",
		Name:      "uploads_total",
		Help:      "Files mirrored to remote storage, by backend.",
	}, []string{"backend"})
	UploadErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentfiles",
		Name:      "upload_errors_total",
		Help:      "Failed remote mirror uploads, by backend.",
	}, []string{"backend"})
)

var initOnce sync.Once

// Init registers collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(FilesWritten, OperationErrors, Uploads, UploadErrors)
	})
}

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Blocks; run in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
