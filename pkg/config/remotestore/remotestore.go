// Package remotestore loads a configuration document from an HTTP
// endpoint. The store is read-only; fetches retry with exponential
// backoff behind a circuit breaker so a flapping endpoint does not get
// hammered.
package remotestore

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/helixlang/helixconf/pkg/config/configstore"
	"github.com/helixlang/helixconf/pkg/helixconf"
)

var _ configstore.ConfigStore = (*RemoteStore)(nil)

type ResilienceConfig struct {
	BackoffSettings        *backoff.ExponentialBackOff
	CircuitBreakerSettings gobreaker.Settings
	CircuitBreaker         *gobreaker.CircuitBreaker
}

// NewResilienceConfig builds a ResilienceConfig with the breaker created
// from cbSettings.
func NewResilienceConfig(backoffSettings *backoff.ExponentialBackOff, cbSettings gobreaker.Settings) *ResilienceConfig {
	return &ResilienceConfig{
		BackoffSettings:        backoffSettings,
		CircuitBreakerSettings: cbSettings,
		CircuitBreaker:         gobreaker.NewCircuitBreaker(cbSettings),
	}
}

type RemoteStore struct {
	URL     string
	client  *http.Client
	resConf *ResilienceConfig
}

func defaultResilienceConfig() *ResilienceConfig {
	cbs := gobreaker.Settings{
		Name:        "remote-config",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return &ResilienceConfig{
		BackoffSettings: &backoff.ExponentialBackOff{
			InitialInterval:     500 * time.Millisecond,
			MaxInterval:         5 * time.Second,
			MaxElapsedTime:      30 * time.Second,
			Multiplier:          1.5,
			RandomizationFactor: 0.5,
			Stop:                backoff.Stop,
			Clock:               backoff.SystemClock,
		},
		CircuitBreakerSettings: cbs,
		CircuitBreaker:         gobreaker.NewCircuitBreaker(cbs),
	}
}

func New(url string) *RemoteStore {
	return NewWithResilience(url, defaultResilienceConfig())
}

// NewWithResilience is New with caller-supplied retry and breaker settings.
func NewWithResilience(url string, resConf *ResilienceConfig) *RemoteStore {
	if resConf == nil {
		resConf = defaultResilienceConfig()
	}
	return &RemoteStore{
		URL:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		resConf: resConf,
	}
}

// Load fetches the document, retrying transient failures. A parse error
// is returned as-is: re-fetching malformed content will not fix it.
func (r *RemoteStore) Load() (*helixconf.Config, error) {
	bo := *r.resConf.BackoffSettings
	bo.Reset()

	var body []byte
	operation := func() error {
		result, err := r.resConf.CircuitBreaker.Execute(func() (any, error) {
			return r.fetch()
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		body = result.([]byte)
		return nil
	}
	if err := backoff.Retry(operation, &bo); err != nil {
		return nil, fmt.Errorf("Load: failed to fetch %s: %w", r.URL, err)
	}

	cfg, err := helixconf.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	return cfg, nil
}

func (r *RemoteStore) fetch() ([]byte, error) {
	resp, err := r.client.Get(r.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, r.URL)
	}
	return io.ReadAll(resp.Body)
}

func (r *RemoteStore) Save(cfg *helixconf.Config) error {
	return fmt.Errorf("Save not implemented for remote store")
}

func (r *RemoteStore) Watch(onChange func()) error {
	return fmt.Errorf("Watch not implemented for remote store")
}
