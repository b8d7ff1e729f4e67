package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerwatch_scan_cycles_total",
		Help: "Completed scan cycles.",
	})
	productsChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerwatch_products_checked_total",
		Help: "Products checked across all cycles, frozen records included.",
	})
	productChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerwatch_product_changes_total",
		Help: "Winner changes persisted to the ledger.",
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerwatch_fetch_failures_total",
		Help: "Per-product checks that failed to fetch or select offers.",
	})
	notifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerwatch_notify_failures_total",
		Help: "Notifications that could not be delivered.",
	})
)
