package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PostOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postsvc", Name: "post_operations_total", Help: "Number of post operations by name and HTTP status."},
		[]string{"operation", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PostOperations)
}

// ObserveOperation counts one completed post operation.
func ObserveOperation(operation string, status int) {
	PostOperations.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}
