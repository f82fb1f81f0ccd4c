package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for reporting.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindCancelled     Kind = "cancelled"
	KindNotFound      Kind = "not_found"
	KindConfigCorrupt Kind = "config_corrupt"
	KindIO            Kind = "io"
	KindParse         Kind = "parse"
)

// ErrUserCancelled is returned when the user declines or dismisses a prompt.
// It is an expected outcome and must not be reported as a failure.
var ErrUserCancelled = errors.New("operation cancelled by user")

// NotFoundError 必需的模板目录项、清单或源文件缺失
type NotFoundError struct {
	What string // catalog entry, manifest, source file ...
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Name)
}

// NotFound creates a NotFoundError.
func NotFound(what, name string) error {
	return &NotFoundError{What: what, Name: name}
}

// ConfigCorruptError 项目配置文件存在但无法解析
type ConfigCorruptError struct {
	Path string
	Err  error
}

func (e *ConfigCorruptError) Error() string {
	return fmt.Sprintf("project config %s is corrupt: %v", e.Path, e.Err)
}

func (e *ConfigCorruptError) Unwrap() error { return e.Err }

// IOError wraps a read or write failure with the offending file.
type IOError struct {
	Op   string
	File string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.File, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an IOError, returning nil when err is nil.
func IO(op, file string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, File: file, Err: err}
}

// ParseError 目录或清单 JSON 解析失败
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// KindOf extracts the kind of the first classified error in the chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUserCancelled) {
		return KindCancelled
	}
	var (
		nf *NotFoundError
		cc *ConfigCorruptError
		pe *ParseError
		ie *IOError
	)
	switch {
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &cc):
		return KindConfigCorrupt
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &ie):
		return KindIO
	}
	return KindUnknown
}

// IsCancelled reports whether err carries the user cancellation signal.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrUserCancelled)
}
