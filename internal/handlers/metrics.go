package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// scansTotal tracks scan outcomes (queued, not_found, error).
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_scans_total",
		Help: "Total number of scan attempts by result",
	}, []string{"result"})

	// ingestsTotal tracks price-list ingestions by protocol.
	ingestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_price_ingests_total",
		Help: "Total number of price list ingestions by protocol",
	}, []string{"protocol"})

	// ingestRecords tracks the size distribution of ingested price lists.
	ingestRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "backoffice_price_ingest_records",
		Help:    "Number of parsed records per ingested price list",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})

	// updatesApplied counts confirmed price updates that landed on products.
	updatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_price_updates_applied_total",
		Help: "Total number of confirmed price updates applied",
	})

	// updatesSkipped counts confirmed updates whose product vanished.
	updatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_price_updates_skipped_total",
		Help: "Total number of confirmed price updates skipped as stale",
	})

	// productsCreated counts products created manually or via missing resolution.
	productsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_products_created_total",
		Help: "Total number of products created by source",
	}, []string{"source"}) // source: manual, missing
)
