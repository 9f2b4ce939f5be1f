package telemetry

import "fmt"

const (
	// DefaultServiceName is the service name reported with every span
	DefaultServiceName = "wordfinder"

	// DefaultEndpoint is the default OTLP/HTTP collector endpoint
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the trace sampling ratio used when none is configured
	DefaultSampling = 0.05
)

// TracingConfig configures OpenTelemetry tracing of the API server
type TracingConfig struct {
	// Enabled turns span export on. When false a no-op provider is used
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies the service in traces. Defaults to "wordfinder"
	ServiceName string `yaml:"serviceName,omitempty"`

	// Endpoint is the OTLP/HTTP collector as "host:port". Defaults to "localhost:4318"
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends spans over plain HTTP. Development only
	Insecure bool `yaml:"insecure,omitempty"`

	// Sampling is the ratio of traces kept, from 0.0 to 1.0.
	// 0 means unset and selects DefaultSampling
	Sampling float64 `yaml:"sampling,omitempty"`
}

// GetServiceName returns the service name, using default if not specified
func (c *TracingConfig) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetEndpoint returns the endpoint, using default if not specified
func (c *TracingConfig) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// Validate validates the tracing configuration
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.Sampling < 0 || c.Sampling > 1.0 {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}
	return nil
}
