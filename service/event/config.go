package event

import (
	"fmt"

	"github.com/viant/allocman/service/messaging"
)

// Config represents events configuration
type Config struct {
	Enabled bool             `json:"enabled" yaml:"enabled"`
	Vendor  messaging.Vendor `json:"vendor" yaml:"vendor"`
	// Buffer bounds the memory queue, events are dropped when it is full
	Buffer int `json:"buffer" yaml:"buffer"`
	// URL is the fs vendor journal location
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Retain bool   `json:"retain,omitempty" yaml:"retain,omitempty"`
}

// DefaultConfig returns default events config
func DefaultConfig() Config {
	return Config{Enabled: true, Vendor: messaging.VendorMemory, Buffer: 256}
}

// Validate checks config
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Vendor {
	case messaging.VendorMemory:
		if c.Buffer <= 0 {
			return fmt.Errorf("events.buffer must be > 0")
		}
	case messaging.VendorFS:
		if c.URL == "" {
			return fmt.Errorf("events.url is required for %v vendor", c.Vendor)
		}
	default:
		return fmt.Errorf("unsupported events vendor: %q", c.Vendor)
	}
	return nil
}
