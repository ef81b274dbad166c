package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Forecast
	ForecastProvider ForecastProvider
	ForecastCache    ForecastCache

	// Catalog
	Locations LocationRepository

	// Cache
	CacheMetrics CacheMetrics

	// Infrastructure
	Logger  Logger
	Metrics MetricsCollector
}
