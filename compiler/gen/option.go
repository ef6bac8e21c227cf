package gen

import (
	"errors"
	"log/slog"
	"strings"
)

// Option configures a generation run.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated unit.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTablePrefix sets the prefix of table class names.
func WithTablePrefix(prefix string) Option {
	return func(c *Config) error {
		if prefix != "" && !identRE.MatchString(prefix) {
			return NewConfigError("TablePrefix", prefix, "prefix must be a valid identifier")
		}
		c.TablePrefix = prefix
		return nil
	}
}

// WithViewPrefix sets the prefix of view class names.
func WithViewPrefix(prefix string) Option {
	return func(c *Config) error {
		if prefix != "" && !identRE.MatchString(prefix) {
			return NewConfigError("ViewPrefix", prefix, "prefix must be a valid identifier")
		}
		c.ViewPrefix = prefix
		return nil
	}
}

// WithShadowPrefix sets the prefix of the change tracking tables.
func WithShadowPrefix(prefix string) Option {
	return func(c *Config) error {
		if !identRE.MatchString(prefix) {
			return NewConfigError("ShadowPrefix", prefix, "prefix must be a non-empty identifier")
		}
		c.ShadowPrefix = prefix
		return nil
	}
}

// WithComments enables or disables comment blocks in the generated text.
func WithComments(enabled bool) Option {
	return func(c *Config) error {
		c.Comments = enabled
		return nil
	}
}

// WithViewKeys allows views to declare primary and foreign key columns.
func WithViewKeys(allowed bool) Option {
	return func(c *Config) error {
		c.ViewKeys = allowed
		return nil
	}
}

// WithSingularClassNames derives class names from the singular form of the
// relation names.
func WithSingularClassNames(enabled bool) Option {
	return func(c *Config) error {
		c.Singular = enabled
		return nil
	}
}

// WithPackage sets the package name of generated Go sources.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !identRE.MatchString(name) || strings.ToLower(name) != name {
			return NewConfigError("Package", name, "package name must be a lower case identifier")
		}
		c.Package = name
		return nil
	}
}

// WithLanguages sets the registered database and ORM writers.
func WithLanguages(l *Languages) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Languages", nil, "languages cannot be nil")
		}
		c.Languages = l
		return nil
	}
}

// WithLogger sets the logger of the run.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
