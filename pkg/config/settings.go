package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the bootstrap description of which backend holds the
// configuration document and where revision events go. It is the one
// YAML file in the system; the documents themselves are always JSON.
type Settings struct {
	Store  string        `yaml:"store" validate:"required,oneof=file mongo remote"`
	File   *FileConfig   `yaml:"file,omitempty"`
	Mongo  *MongoConfig  `yaml:"mongo,omitempty"`
	Remote *RemoteConfig `yaml:"remote,omitempty"`

	Notify *NotifySettings `yaml:"notify,omitempty"`
}

type NotifySettings struct {
	Brokers []string `yaml:"brokers" validate:"required,min=1"`
	Topic   string   `yaml:"topic" validate:"required"`
}

// LoadSettings reads and validates a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSettings: failed to read file %s: %w", path, err)
	}
	if len(bytes) == 0 {
		return nil, fmt.Errorf("LoadSettings: settings file %s is empty", path)
	}

	var s Settings
	if err := yaml.Unmarshal(bytes, &s); err != nil {
		return nil, fmt.Errorf("LoadSettings: failed to parse YAML in %s: %w", path, err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("LoadSettings: invalid settings: %w", err)
	}
	if s.Notify != nil {
		if err := validate.Struct(s.Notify); err != nil {
			return nil, fmt.Errorf("LoadSettings: invalid notify settings: %w", err)
		}
	}
	return &s, nil
}

// NewStoreFromSettings builds the backend named by the settings.
func NewStoreFromSettings(s *Settings) (Config, error) {
	switch s.Store {
	case "file":
		return NewStore(FileStore, s.File)
	case "mongo":
		return NewStore(MongoStore, s.Mongo)
	case "remote":
		return NewStore(RemoteStore, s.Remote)
	default:
		return nil, ErrInvalidStoreType
	}
}
