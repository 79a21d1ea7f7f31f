// Package helixconf holds a JSON-backed key/value configuration mapping:
// load it from a file or raw text, read and write individual keys, and
// compile it back to JSON bytes.
//
// A Config is owned by a single goroutine. Callers sharing one across
// goroutines must supply their own locking.
package helixconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/helixlang/helixconf/pkg/lg"
)

// ErrRootNotObject is returned when parsed JSON has an array or scalar
// at the root instead of an object.
var ErrRootNotObject = errors.New("configuration root is not a JSON object")

// Config is an in-memory configuration document. Values carry
// encoding/json object semantics: string, float64, bool, nil,
// []any and map[string]any.
type Config struct {
	data       map[string]any
	processors map[string]Processor
	lg         lg.Logger
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithLogger routes the Process/Compile notices through the given logger.
func WithLogger(logger lg.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.lg = logger
		}
	}
}

// New returns an empty Config.
func New(opts ...Option) *Config {
	c := &Config{
		data:       make(map[string]any),
		processors: make(map[string]Processor),
		lg:         lg.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromFile reads the file at path in full and parses it as FromBytes does.
// The returned error wraps the underlying os error on read failure, so
// errors.Is(err, os.ErrNotExist) and friends keep working.
func FromFile(path string, opts ...Option) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("FromFile: failed to read file %s: %w", path, err)
	}
	return FromBytes(bytes, opts...)
}

// FromString parses content as a JSON object and returns a new Config
// populated with it. The previous content of any existing store is
// untouched: a failed parse constructs nothing.
func FromString(content string, opts ...Option) (*Config, error) {
	return FromBytes([]byte(content), opts...)
}

// FromBytes is FromString for raw bytes.
func FromBytes(content []byte, opts ...Option) (*Config, error) {
	var root any
	if err := json.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("FromBytes: failed to parse JSON: %w", err)
	}
	mapping, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("FromBytes: %w (got %T)", ErrRootNotObject, root)
	}
	c := New(opts...)
	c.data = mapping
	return c, nil
}

// Get returns the value stored under key, or nil when the key is absent.
// A key explicitly set to JSON null is indistinguishable from a missing
// one here; use Lookup when that distinction matters.
func (c *Config) Get(key string) any {
	return c.data[key]
}

// Lookup returns the value under key and whether the key is present.
func (c *Config) Lookup(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Set inserts or overwrites the entry for key. The value is not
// validated; anything encoding/json can marshal is acceptable.
func (c *Config) Set(key string, value any) {
	c.data[key] = value
}

// Len returns the number of top-level keys.
func (c *Config) Len() int { return len(c.data) }

// Keys returns the top-level keys in unspecified order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

// Compile serializes the current mapping to JSON and returns the UTF-8
// bytes. Key order and whitespace are whatever encoding/json produces.
func (c *Config) Compile() ([]byte, error) {
	c.lg.Info("compiling configuration", lg.Int("keys", len(c.data)))
	bytes, err := json.Marshal(c.data)
	if err != nil {
		return nil, fmt.Errorf("Compile: failed to marshal configuration: %w", err)
	}
	return bytes, nil
}
