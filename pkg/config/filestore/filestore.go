// Package filestore keeps a configuration document in a JSON file on disk.
package filestore

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/helixlang/helixconf/internal/persist"
	"github.com/helixlang/helixconf/pkg/config/configstore"
	"github.com/helixlang/helixconf/pkg/helixconf"
	"github.com/helixlang/helixconf/pkg/lg"
)

var _ configstore.ConfigStore = (*FileStore)(nil)

type FileStore struct {
	Path string
	lg   lg.Logger
}

func New(path string) *FileStore {
	return &FileStore{Path: path, lg: lg.Default()}
}

// NewWithLogger is New with watcher errors routed through logger.
func NewWithLogger(path string, logger lg.Logger) *FileStore {
	fs := New(path)
	if logger != nil {
		fs.lg = logger
	}
	return fs
}

func WriteSecureFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(data)
	return err
}

// Load reads the file in full and parses it into a fresh document.
func (f *FileStore) Load() (*helixconf.Config, error) {
	cfg, err := helixconf.FromFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	return cfg, nil
}

// Save compiles the document and replaces the file atomically, writing a
// temp file first so a crashed save never corrupts the previous content.
func (f *FileStore) Save(cfg *helixconf.Config) error {
	if cfg == nil {
		return fmt.Errorf("Save: input parameter must not be nil")
	}

	bytes, err := cfg.Compile()
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := (persist.AtomicFileWriter{}).Write(f.Path, bytes); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// Watch invokes onChange after every write to the file. The callback runs
// on the watcher goroutine; the caller synchronizes any shared state.
func (f *FileStore) Watch(onChange func()) error {
	if onChange == nil {
		return fmt.Errorf("onChange callback cannot be nil")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(f.Path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch file %s: %w", f.Path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write != 0 {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.lg.Error("watcher error", lg.String("path", f.Path), lg.Err(err))
			}
		}
	}()

	return nil
}
