package utils

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats tracks simulation progress and exports it as prometheus metrics
type Stats struct {
	mu                   sync.Mutex
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time

	generations  prometheus.Counter
	population   prometheus.Gauge
	tickDuration prometheus.Histogram
	loads        *prometheus.CounterVec
}

func NewStats() *Stats {
	return &Stats{
		StartTime: time.Now(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gol_generations_total",
			Help: "Total number of generations computed",
		}),
		population: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gol_population",
			Help: "Number of living cells in the current generation",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gol_tick_duration_seconds",
			Help:    "Time spent computing one generation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gol_loads_total",
			Help: "Configurations installed into the grid, by source",
		}, []string{"source"}),
	}
}

// Register adds the collectors to reg
func (s *Stats) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.generations, s.population, s.tickDuration, s.loads} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Update records a computed generation. compute is the time spent on the
// transition, interval the time since the previous tick (zero when unknown).
func (s *Stats) Update(population int, compute, interval time.Duration) {
	s.generations.Inc()
	s.population.Set(float64(population))
	s.tickDuration.Observe(compute.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalGenerations++
	if interval > 0 {
		s.GenerationsPerSecond = 1.0 / interval.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Loaded records a configuration installed from source, e.g. "random" or "file"
func (s *Stats) Loaded(source string, population int) {
	s.loads.WithLabelValues(source).Inc()
	s.population.Set(float64(population))
}

// Snapshot returns the generations computed since start, the tick rate and average population
func (s *Stats) Snapshot() (generations int, perSecond, avgPopulation float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TotalGenerations, s.GenerationsPerSecond, s.AveragePopulation
}
