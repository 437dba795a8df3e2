package driving

import "github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"

// SettingsService reads and writes individual configuration keys.
type SettingsService interface {
	// List returns every known key with its effective value.
	List() ([]domain.Setting, error)

	// Get returns the effective value of key.
	// Returns domain.ErrInvalidConfig for an unknown key.
	Get(key string) (domain.Setting, error)

	// Set parses raw for key, checks the resulting configuration and
	// persists it. Nothing is written when validation fails.
	Set(key, raw string) error

	// Path returns the config file location.
	Path() string
}
