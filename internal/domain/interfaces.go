package domain

// Actor is the opaque handle of whoever issued a command.
type Actor interface {
	// ID returns a stable identity, used to key pending confirmations.
	ID() string

	// Name returns a display name.
	Name() string
}

// Player is the capability exposed by actors that are in-game players.
// Commands marked player-only reject actors that do not implement it.
type Player interface {
	Actor

	// Player is a marker for the in-game capability.
	Player()
}

// Host is the integration the engine runs inside of.
type Host interface {
	// HasPermission reports whether actor holds permission. It must be a
	// pure predicate.
	HasPermission(actor Actor, permission string) bool

	// SendWarning delivers a failure or notice to the actor.
	SendWarning(actor Actor, message string)

	// SendMessage delivers regular output to the actor.
	SendMessage(actor Actor, message string)
}

// Logger defines logging operations.
type Logger interface {
	// Debug logs a debug message.
	Debug(format string, args ...any)

	// Info logs an info message.
	Info(format string, args ...any)

	// Warn logs a warning message.
	Warn(format string, args ...any)

	// Error logs an error message.
	Error(format string, args ...any)

	// Close closes the logger.
	Close() error
}

// Styler defines text styling operations.
type Styler interface {
	// Enabled returns true if styling is enabled.
	Enabled() bool

	// Success styles text as success.
	Success(text string) string

	// Warning styles text as warning.
	Warning(text string) string

	// Error styles text as error.
	Error(text string) string

	// Info styles text as info.
	Info(text string) string

	// Muted styles text as muted.
	Muted(text string) string

	// Header styles text as header.
	Header(text string) string
}

// AuditStore records the outcome of dispatched requests.
type AuditStore interface {
	// RecordDispatch stores one dispatch outcome.
	RecordDispatch(rec DispatchRecord) error

	// Close closes the store connection.
	Close() error
}

// ConfigProvider defines configuration operations.
type ConfigProvider interface {
	// Get returns the value for a key, falling back to its default.
	Get(key string) (string, bool)

	// GetAll returns all values merged with defaults.
	GetAll() (map[string]string, error)

	// Set stores a value.
	Set(key, value string) error

	// Unset removes a stored value.
	Unset(key string) error
}
