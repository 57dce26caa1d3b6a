package types

import "errors"

// Config holds backend selection and parameters for Ledger.Attach plus the
// serving options consumed by the HTTP layer.
type Config struct {
	Backend            string   `json:"backend" yaml:"backend"`
	DataDir            string   `json:"data_dir" yaml:"data_dir"`
	ListenAddr         string   `json:"listen_addr" yaml:"listen_addr"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	LogLevel           string   `json:"log_level" yaml:"log_level"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Default serving options.
const (
	DefaultListenAddr = ":12180"
	DefaultLogLevel   = "info"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// knownLogLevels lists the slog levels the serve command accepts.
var knownLogLevels = map[string]bool{
	"":      true, // empty means DefaultLogLevel
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
