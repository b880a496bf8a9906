package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finverdict",
			Subsystem: "verdict_cache",
			Name:      "lookups_total",
			Help:      "Verdict cache lookups by result",
		},
		[]string{"result"},
	)

	RefreshRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finverdict",
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Scheduled verdict refreshes by result",
		},
		[]string{"result"},
	)
)

// Register adds the collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(CacheLookups, RefreshRuns)
	})
}

func ObserveCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

func ObserveRefresh(err error) {
	if err != nil {
		RefreshRuns.WithLabelValues("error").Inc()
		return
	}
	RefreshRuns.WithLabelValues("ok").Inc()
}
