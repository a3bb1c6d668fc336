package parser

import (
	"fmt"

	"marithon/internal/config"
	"marithon/internal/port"
)

// ProviderFactory creates an OCRParser from a provider config.
type ProviderFactory func(cfg *config.OCRProviderConfig) (port.OCRParser, error)

// registry of OCR provider factories, populated by RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an OCR provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewOCRParser creates an OCRParser from a provider config using the registered factory.
func NewOCRParser(cfg *config.OCRProviderConfig) (port.OCRParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewOCRChain builds a FallbackParser over every configured provider. It
// returns nil when no provider is configured.
func NewOCRChain(cfg *config.OCRConfig) (port.OCRParser, error) {
	configs := cfg.Providers()
	if len(configs) == 0 {
		return nil, nil
	}
	parsers := make([]port.OCRParser, 0, len(configs))
	names := make([]string, 0, len(configs))
	for _, pc := range configs {
		p, err := NewOCRParser(pc)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, p)
		names = append(names, pc.Provider)
	}
	return NewFallbackParser(parsers, names), nil
}
