package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricChartCacheAge    = "chart.cache_age_seconds"
	MetricTransitScanDelay = "transit.scan_delay_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricActivations = "business.activations_detected"
	MetricBondReports = "business.bond_reports_issued"
)
