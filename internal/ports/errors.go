package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors.
var (
	// ErrDocumentNotFound indicates that a document location does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocument indicates that a document failed schema validation
	// or could not be decoded.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// StorageError represents an error from document store operations.
type StorageError struct {
	// Location is the path or URL involved in the failed operation.
	Location string

	// Operation is the name of the storage operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: operation=%s, location=%s, err=%v", e.Operation, e.Location, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError creates a new StorageError with the given details.
func NewStorageError(location, operation string, err error) *StorageError {
	return &StorageError{
		Location:  location,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
