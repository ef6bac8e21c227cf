package load

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a model file.
type Format string

// Supported model file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ErrParse is the sentinel matched by every ParseError.
var ErrParse = errors.New("dbmodel: malformed model file")

// ParseError is returned when a model file cannot be decoded.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("dbmodel: parse %s file %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("dbmodel: parse %s: %v", e.Format, e.Err)
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether the target matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// FormatOf returns the format implied by the file extension of path.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	default:
		f := Format(strings.TrimPrefix(ext, "."))
		if f == "" {
			f = "unknown"
		}
		return "", &ParseError{Path: path, Format: f, Err: fmt.Errorf("unsupported model file extension %q", ext)}
	}
}

// ReadFile reads and decodes the model file at path.
func ReadFile(path string) (*Schema, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	s, err := Read(bytes.NewReader(buf), f)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Read decodes a model file of the given format from r. Unknown keys are
// rejected for JSON and YAML input.
func Read(r io.Reader, f Format) (*Schema, error) {
	s := &Schema{}
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(s)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(s)
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
	case FormatXML:
		err = xml.NewDecoder(r).Decode(s)
	default:
		return nil, &ParseError{Format: f, Err: errors.New("unsupported model file format")}
	}
	if err != nil {
		return nil, &ParseError{Format: f, Err: err}
	}
	return s, nil
}
