// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package metrics exports scheduler measurements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxfi/life"
)

const namespace = "fhe_life"

var _ life.Observer = (*SchedulerMetrics)(nil)

// SchedulerMetrics implements life.Observer.
type SchedulerMetrics struct {
	generations        prometheus.Counter
	generationDuration prometheus.Histogram
	cellsEvaluated     prometheus.Counter
	evaluatorProbes    prometheus.Histogram
	currentGeneration  prometheus.Gauge
}

func NewSchedulerMetrics(registerer prometheus.Registerer) *SchedulerMetrics {
	m := SchedulerMetrics{
		generations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Number of generations computed",
			},
		),
		generationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Wall time to compute one generation under encryption",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
			},
		),
		cellsEvaluated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cells_evaluated_total",
				Help:      "Number of cell transitions evaluated",
			},
		),
		evaluatorProbes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluator_probes",
				Help:      "Pool slots probed before an evaluator was acquired",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
			},
		),
		currentGeneration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "generation",
				Help:      "Index of the most recently computed generation",
			},
		),
	}

	registerer.MustRegister(m.generations)
	registerer.MustRegister(m.generationDuration)
	registerer.MustRegister(m.cellsEvaluated)
	registerer.MustRegister(m.evaluatorProbes)
	registerer.MustRegister(m.currentGeneration)

	return &m
}

func (m *SchedulerMetrics) ObserveAcquire(probes int) {
	m.evaluatorProbes.Observe(float64(probes))
}

func (m *SchedulerMetrics) ObserveGeneration(index uint64, cells int, elapsed time.Duration) {
	m.generations.Inc()
	m.cellsEvaluated.Add(float64(cells))
	m.generationDuration.Observe(elapsed.Seconds())
	m.currentGeneration.Set(float64(index))
}

// Handler serves /metrics from gatherer and a plain /health probe.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
