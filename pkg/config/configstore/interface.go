package configstore

import "github.com/helixlang/helixconf/pkg/helixconf"

// ConfigStore is a backing source for a configuration document.
// Load builds a fresh document; Save persists a compiled one.
type ConfigStore interface {
	Load() (*helixconf.Config, error)
	Save(cfg *helixconf.Config) error
}
