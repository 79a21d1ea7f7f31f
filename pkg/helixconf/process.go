package helixconf

import (
	"fmt"

	"github.com/helixlang/helixconf/pkg/lg"
)

// Processor transforms the configuration mapping in place. Implementations
// are registered on a Config and applied by Process in the order named.
type Processor interface {
	Name() string
	Process(data map[string]any) error
}

// Register adds a processor to the Config. A later registration under the
// same name replaces the earlier one.
func (c *Config) Register(p Processor) {
	c.processors[p.Name()] = p
}

// Process emits a processing notice and applies the named processors in
// order. With no names it does nothing beyond the notice.
func (c *Config) Process(processorNames ...string) error {
	c.lg.Info("processing configuration", lg.Int("processors", len(processorNames)))

	for _, name := range processorNames {
		if _, exists := c.processors[name]; !exists {
			return fmt.Errorf("processor %q not registered", name)
		}
	}
	for _, name := range processorNames {
		if err := c.processors[name].Process(c.data); err != nil {
			return fmt.Errorf("%s processor failed: %w", name, err)
		}
	}
	return nil
}
