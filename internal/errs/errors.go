// Package errs provides standardized error handling for the camshot
// application. It defines common error kinds and helper functions for
// consistent error creation, wrapping, and handling across the application.
package errs

import (
	"errors"
	"fmt"
)

// Standard errors package functions re-exported for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Storage error kinds
	StorageNotFound
	StorageCreateFailed
	StorageScanFailed
	StorageDeleteFailed
	NoImages
	// Camera error kinds
	CameraConfigFailed
	ControlRejected
	CaptureFailed
	PreviewFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// Common error values for frequently occurring conditions
var (
	ErrNoImages        = NewStorageError("no images in storage", "", NoImages, nil)
	ErrControlRejected = NewCameraError("camera rejected control value", "", ControlRejected, nil)
)

// AppError is the base error type for all application errors
type AppError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *AppError) Kind() ErrorKind {
	return e.kind
}

// StorageError represents errors related to the image store
type StorageError struct {
	AppError
	path string
}

// NewStorageError creates a new storage error
func NewStorageError(msg string, path string, kind ErrorKind, err error) *StorageError {
	return &StorageError{
		AppError: AppError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the storage error message
func (e *StorageError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.AppError.Error()
}

// Path returns the file path associated with the error
func (e *StorageError) Path() string {
	return e.path
}

// CameraError represents errors reported by the camera collaborator
type CameraError struct {
	AppError
	control string
}

// NewCameraError creates a new camera error
func NewCameraError(msg string, control string, kind ErrorKind, err error) *CameraError {
	return &CameraError{
		AppError: AppError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		control: control,
	}
}

// Error returns the camera error message
func (e *CameraError) Error() string {
	if e.control != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.control, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.control)
	}
	return e.AppError.Error()
}

// Control returns the camera control associated with the error
func (e *CameraError) Control() string {
	return e.control
}

// ConfigError represents errors related to settings persistence
type ConfigError struct {
	AppError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		AppError: AppError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.AppError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &AppError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &AppError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an error with a message, returning nil if err is nil
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		msg:  msg,
		err:  err,
		kind: kindOf(err),
	}
}

// Wrapf wraps an error with a formatted message, returning nil if err is nil
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &AppError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: kindOf(err),
	}
}

// KindOf reports the kind carried by err, or Unknown
func KindOf(err error) ErrorKind {
	return kindOf(err)
}

func kindOf(err error) ErrorKind {
	type kinder interface {
		Kind() ErrorKind
	}
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}
