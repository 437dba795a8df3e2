package driven

// ConfigStore holds raw configuration values under flat dotted keys such
// as "server.port". Typed access with defaults and validation lives in
// internal/config.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString, GetInt and GetBool return the zero value when key is
	// unset or holds another type.
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set stores value under key and persists the whole file.
	Set(key string, value any) error

	// Keys lists the stored keys in lexical order.
	Keys() []string

	Save() error
	Load() error

	// Path is the location of the backing file.
	Path() string
}
