package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	fetchesTotal        *prometheus.CounterVec
	staleFetchesTotal   prometheus.Counter
	mutationsTotal      *prometheus.CounterVec
	lockRejectionsTotal *prometheus.CounterVec
	registerOnce        sync.Once
)

// Register initializes Prometheus metrics on the default registry. Until it
// is called every recorder below is a no-op.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendor_console",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served by the console.",
		}, []string{"method", "path", "status"})

		fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendor_console",
			Name:      "list_fetches_total",
			Help:      "Vendor list fetches by result.",
		}, []string{"result"})

		staleFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "vendor_console",
			Name:      "stale_fetches_total",
			Help:      "List fetch responses discarded because a newer fetch was started.",
		})

		mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendor_console",
			Name:      "mutations_total",
			Help:      "Operator mutations by action and result.",
		}, []string{"action", "result"})

		lockRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendor_console",
			Name:      "lock_rejections_total",
			Help:      "Mutations refused because one was already in flight for the record.",
		}, []string{"action"})
	})
}

func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncFetch(err error) {
	if fetchesTotal == nil {
		return
	}
	fetchesTotal.WithLabelValues(result(err)).Inc()
}

func IncStaleFetch() {
	if staleFetchesTotal == nil {
		return
	}
	staleFetchesTotal.Inc()
}

func IncMutation(action string, err error) {
	if mutationsTotal == nil {
		return
	}
	mutationsTotal.WithLabelValues(action, result(err)).Inc()
}

func IncLockRejection(action string) {
	if lockRejectionsTotal == nil {
		return
	}
	lockRejectionsTotal.WithLabelValues(action).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
