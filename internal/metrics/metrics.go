// Package metrics declares the Prometheus collectors shared by the HTTP layer
// and the stock service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// MovimientosStock counts row-level stock changes by movement type.
	MovimientosStock = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movimientos_total",
		Help: "Cambios de stock aplicados por tipo de movimiento",
	}, []string{"tipo"})

	// CargaMasivaItems counts bulk-load items by result (ok|fallido).
	CargaMasivaItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carga_masiva_items_total",
		Help: "Items de carga masiva procesados por resultado",
	}, []string{"resultado"})

	// StoreOperaciones counts backing store calls by operation and result.
	StoreOperaciones = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_operaciones_total",
		Help: "Lecturas y escrituras completas de la tabla de stock",
	}, []string{"op", "resultado"})
)

// Register adds every collector to reg. Call once from the composition root.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		HTTPRequestsTotal, HTTPRequestDuration, MovimientosStock, CargaMasivaItems, StoreOperaciones,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
