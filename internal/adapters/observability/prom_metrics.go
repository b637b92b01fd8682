package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/VandersypenQutech/qtt/internal/ports"
)

// PromObs is the Prometheus-backed observability adapter for the scan
// engine. Logs go to the standard logger; metrics to the given
// registerer (tests pass a private registry).
type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs(reg prometheus.Registerer) *PromObs {
	points := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qtt_scan_points_total",
		Help: "Total set-points driven across all scans.",
	})
	datasets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qtt_datasets_written_total",
		Help: "Datasets successfully written to the dataset store.",
	})
	acquisitions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qtt_acquisitions_total",
		Help: "Hardware-triggered segment acquisitions.",
	})
	emptyAcq := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qtt_empty_acquisitions_total",
		Help: "Acquisitions that returned an empty data array.",
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qtt_scan_active",
		Help: "1 while a scan is running.",
	})
	components := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qtt_station_components",
		Help: "Instruments registered with the station.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "qtt_scan_duration_seconds",
		Help:    "Wall-clock duration of one scan invocation.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})

	reg.MustRegister(points, datasets, acquisitions, emptyAcq, active, components, duration)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"qtt_scan_points_total":        points,
			"qtt_datasets_written_total":   datasets,
			"qtt_acquisitions_total":       acquisitions,
			"qtt_empty_acquisitions_total": emptyAcq,
		},
		gauges: map[string]prometheus.Gauge{
			"qtt_scan_active":        active,
			"qtt_station_components": components,
		},
		histos: map[string]prometheus.Observer{
			"qtt_scan_duration_seconds": duration,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogWarn(msg string, fields ...ports.Field) {
	log.Printf("WARNING: %s", msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

var _ ports.Observability = (*PromObs)(nil)
