package store

import "github.com/prometheus/client_golang/prometheus"

var (
	bootstrapTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_store_bootstrap_total", Help: "Document bootstraps by source"},
		[]string{"source"}, // storage | seed | empty
	)
	seedFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_store_seed_fetch_total", Help: "Seed fetch attempts by result"},
		[]string{"result"},
	)
	persistTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_store_persist_total", Help: "Document writes by result"},
		[]string{"result"}, // ok | conflict | error
	)
)

func init() { prometheus.MustRegister(bootstrapTotal, seedFetchTotal, persistTotal) }
