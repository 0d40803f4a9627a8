package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/config"
)

// Factory creates Source implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewSource creates a Source from its configuration
func (f *Factory) NewSource(cfg config.SourceConfig, httpClient *RateLimitedHTTPClient) (Source, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case PSAAPISourceName:
		return NewPSAAPIClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, f.logger), nil
	case SquashLevelsSourceName:
		return NewSquashLevelsClient(httpClient, cfg.BaseURL, cfg.Enabled, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// BuildSources creates all configured sources, preserving the configured
// order. The order doubles as the aggregation priority: the first source
// wins merge conflicts.
func (f *Factory) BuildSources(cfgs []config.SourceConfig, httpClient *RateLimitedHTTPClient) ([]Source, error) {
	sources := make([]Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		src, err := f.NewSource(cfg, httpClient)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// SourceOrder returns the source names in priority order
func SourceOrder(sources []Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return names
}
