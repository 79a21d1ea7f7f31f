// Package config selects and builds the backing store for a
// configuration document.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/helixlang/helixconf/pkg/config/configstore"
	"github.com/helixlang/helixconf/pkg/config/filestore"
	"github.com/helixlang/helixconf/pkg/config/mongostore"
	"github.com/helixlang/helixconf/pkg/config/remotestore"
)

type StoreType int

const (
	FileStore StoreType = iota
	MongoStore
	RemoteStore
)

var (
	ErrInvalidStoreType = errors.New("invalid store type")
)

var validate = validator.New()

// Config interface that combines all store capabilities
type Config interface {
	configstore.ConfigStore
	Watch(onChange func()) error // Optional for stores that support watching
}

type FileConfig struct {
	Path string `yaml:"path" json:"path" validate:"required"`
}

type MongoConfig struct {
	URI      string `yaml:"uri" json:"uri" validate:"required"`
	DBName   string `yaml:"dbName" json:"dbName" validate:"required"`
	CollName string `yaml:"collName" json:"collName" validate:"required"`
	ID       string `yaml:"id" json:"id" validate:"required"` // Document ID
}

type RemoteConfig struct {
	URL string `yaml:"url" json:"url" validate:"required,url"`
}

func NewStore(storeType StoreType, cfg any) (Config, error) {
	switch storeType {
	case FileStore:
		fileCfg, ok := cfg.(*FileConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for file store, expected *FileConfig")
		}
		if err := validate.Struct(fileCfg); err != nil {
			return nil, fmt.Errorf("invalid file store config: %w", err)
		}
		return filestore.New(fileCfg.Path), nil
	case MongoStore:
		mongoCfg, ok := cfg.(*MongoConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for mongo store, expected *MongoConfig")
		}
		if err := validate.Struct(mongoCfg); err != nil {
			return nil, fmt.Errorf("invalid mongo store config: %w", err)
		}
		return mongostore.New(mongoCfg.URI, mongoCfg.DBName, mongoCfg.CollName, mongoCfg.ID)
	case RemoteStore:
		remoteCfg, ok := cfg.(*RemoteConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for remote store, expected *RemoteConfig")
		}
		if err := validate.Struct(remoteCfg); err != nil {
			return nil, fmt.Errorf("invalid remote store config: %w", err)
		}
		return remotestore.New(remoteCfg.URL), nil
	default:
		return nil, ErrInvalidStoreType
	}
}
