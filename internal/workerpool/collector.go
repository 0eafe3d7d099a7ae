package workerpool

import "github.com/prometheus/client_golang/prometheus"

// Collector exports pool statistics as Prometheus gauges and counters
type Collector struct {
	pool *Pool

	workers   *prometheus.Desc
	active    *prometheus.Desc
	peak      *prometheus.Desc
	queued    *prometheus.Desc
	completed *prometheus.Desc
	panics    *prometheus.Desc
}

// NewCollector returns a collector reading from pool
func NewCollector(pool *Pool) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("workerpool", "", name), help, nil, nil)
	}
	return &Collector{
		pool:      pool,
		workers:   desc("workers", "Number of pool workers"),
		active:    desc("active_tasks", "Tasks currently running"),
		peak:      desc("peak_active_tasks", "Highest number of concurrently running tasks"),
		queued:    desc("queued_tasks", "Tasks waiting for a worker"),
		completed: desc("completed_tasks_total", "Tasks finished, including abandoned ones"),
		panics:    desc("panics_total", "Tasks that panicked"),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.active
	ch <- c.peak
	ch <- c.queued
	ch <- c.completed
	ch <- c.panics
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(s.Workers))
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(s.Active))
	ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(s.Peak))
	ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(s.Queued))
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(s.Completed))
	ch <- prometheus.MustNewConstMetric(c.panics, prometheus.CounterValue, float64(s.Panics))
}
