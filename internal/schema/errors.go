package schema

import "errors"

// Sentinel errors for schema and version lookup.
var (
	// ErrUnsupportedVersion indicates the version has no entry in the version table.
	ErrUnsupportedVersion = errors.New("unsupported game version")
	// ErrSchemaNotFound indicates no stat schema exists for the requested version.
	ErrSchemaNotFound = errors.New("stat schema not found")
	// ErrSchemaParse indicates the stat schema source is malformed.
	ErrSchemaParse = errors.New("malformed stat schema")
)

// ConfigError records a fatal problem with the version-specific configuration.
type ConfigError struct {
	Version string
	Path    string // Schema file path, when one was involved.
	Err     error
}

// Error returns a message naming the version and, when known, the schema file.
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return "version " + e.Version + ": " + e.Path + ": " + e.Err.Error()
	}
	return "version " + e.Version + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
