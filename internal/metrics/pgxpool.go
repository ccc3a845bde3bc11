package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPoolMetrics exposes local database pool statistics as gauges.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) {
	gauge := func(name, help string, fn func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "clinicguard",
			Subsystem: "db",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return fn(pool.Stat())
		})
	}

	reg.MustRegister(
		gauge("acquired_conns", "Connections currently checked out of the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("idle_conns", "Idle connections held by the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("total_conns", "Total connections held by the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("max_conns", "Configured pool size",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
	)
}
