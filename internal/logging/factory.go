package logging

import (
	"fmt"

	"hirescore/internal/config"
	"hirescore/internal/logging/adapters"
	"hirescore/internal/logging/types"
)

// AdapterFactory creates logging adapters based on configuration
type AdapterFactory struct{}

func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter creates a logging adapter based on the provided configuration
func (f *AdapterFactory) CreateAdapter(adapterConfig config.AdapterConfig) (types.LogAdapter, error) {
	switch adapterConfig.Type {
	case "zap", "stdout":
		return adapters.NewZapAdapter(adapterConfig.Name, adapters.ZapConfig{
			Format: getStringOption(adapterConfig.Options, "format", "json"),
			Output: getStringOption(adapterConfig.Options, "output", "stdout"),
		})
	case "file":
		path := getStringOption(adapterConfig.Options, "file_path", "")
		if path == "" {
			return nil, fmt.Errorf("file_path is required for file adapter")
		}
		return adapters.NewZapAdapter(adapterConfig.Name, adapters.ZapConfig{
			Format: getStringOption(adapterConfig.Options, "format", "json"),
			Output: path,
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", adapterConfig.Type)
	}
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}
