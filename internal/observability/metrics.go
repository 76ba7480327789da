package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_rx_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// BackendCalls tracks calls to the remote clinic backend
	BackendCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_backend_calls_total",
			Help: "Number of calls to the clinic backend",
		},
		[]string{"operation", "status"},
	)

	// PostalLookups tracks postal code lookups by outcome
	PostalLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_postal_lookups_total",
			Help: "Number of postal code lookups",
		},
		[]string{"status"},
	)

	// IdentityUpserts tracks identity upsert decisions and their outcome
	IdentityUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_identity_upserts_total",
			Help: "Number of identity upserts",
		},
		[]string{"action", "status"},
	)

	// PlaceholderTaxIDs counts synthesized placeholder CPFs
	PlaceholderTaxIDs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_placeholder_tax_ids_total",
			Help: "Number of placeholder CPFs drawn for identities without one",
		},
		[]string{"strategy"},
	)

	// ImageResolutions tracks server-side image availability probes
	ImageResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_image_resolutions_total",
			Help: "Number of image availability probes",
		},
		[]string{"source", "status"},
	)

	// SessionEvents counts session lifecycle events (opened, refreshed, closed).
	// Sessions that lapse through their Redis TTL produce no event.
	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rx_session_events_total",
			Help: "Number of session lifecycle events",
		},
		[]string{"event"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_rx_active_connections",
			Help: "Number of active connections",
		},
	)
)
