package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nashr_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nashr_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ToggleTotal counts toggle outcomes per relation (like, bookmark, comment_like, follow).
	ToggleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nashr_toggle_total",
		Help: "Toggle relation state changes",
	}, []string{"relation", "state"})

	// RestoreRecords counts restored backup records by collection and outcome.
	RestoreRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nashr_restore_records_total",
		Help: "Backup records processed during restore",
	}, []string{"collection", "outcome"})

	// ExportsTotal counts generated exports by format.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nashr_exports_total",
		Help: "Generated exports and backups by format",
	}, []string{"format"})

	// NotificationsPublished counts realtime notification publishes.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nashr_notifications_published_total",
		Help: "Notifications pushed to the realtime channel",
	}, []string{"result"})

	// WebSocketConnectionsTotal is the gauge of open notification sockets.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nashr_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// MailRequestLatency records mail relay latency by status code.
	MailRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nashr_mail_request_latency_seconds",
		Help:    "Mail relay request latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"status_code"})
)

const queryStartKey = "nashr:query_start"

// RegisterQueryMetrics installs gorm callbacks that feed DatabaseQueryLatency.
func RegisterQueryMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "raw"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("metrics:create:before", before),
		cb.Create().After("gorm:create").Register("metrics:create:after", after("create")),
		cb.Query().Before("gorm:query").Register("metrics:query:before", before),
		cb.Query().After("gorm:query").Register("metrics:query:after", after("query")),
		cb.Update().Before("gorm:update").Register("metrics:update:before", before),
		cb.Update().After("gorm:update").Register("metrics:update:after", after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:delete:before", before),
		cb.Delete().After("gorm:delete").Register("metrics:delete:after", after("delete")),
		cb.Raw().Before("gorm:raw").Register("metrics:raw:before", before),
		cb.Raw().After("gorm:raw").Register("metrics:raw:after", after("raw")),
	}
	return errors.Join(registrations...)
}
