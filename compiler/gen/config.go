package gen

import (
	"io"
	"log/slog"
)

// DefaultHeader is the header comment written at the top of generated files.
const DefaultHeader = "Code generated by dbmodel. DO NOT EDIT."

// Default naming prefixes.
const (
	DefaultTablePrefix  = "DB_"
	DefaultViewPrefix   = "VW_"
	DefaultShadowPrefix = "upd_"
	DefaultPackage      = "models"
)

// Config is the run context of a generation: naming, comment and validation
// settings, the registered languages and the logger. It is passed explicitly
// to the Registry and shared by its relations.
type Config struct {
	// Header is the comment written at the top of every generated unit.
	Header string
	// TablePrefix and ViewPrefix prefix the ORM class names.
	TablePrefix string
	ViewPrefix  string
	// ShadowPrefix prefixes the change tracking table of tables with an
	// update trigger.
	ShadowPrefix string
	// Comments enables comment blocks built from titles and descriptions.
	Comments bool
	// ViewKeys allows views to declare primary and foreign key columns.
	ViewKeys bool
	// Singular derives ORM class names from the singular form of the
	// relation name (Statuses -> DB_Status).
	Singular bool
	// Package is the package name of generated Go sources.
	Package string
	// Languages holds the database and ORM writers available to Generate.
	Languages *Languages
	// Logger receives debug records of the pipeline phases.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the default prefixes, comments
// enabled, no registered languages and a discarding logger.
func DefaultConfig() *Config {
	return &Config{
		Header:       DefaultHeader,
		TablePrefix:  DefaultTablePrefix,
		ViewPrefix:   DefaultViewPrefix,
		ShadowPrefix: DefaultShadowPrefix,
		Package:      DefaultPackage,
		Comments:     true,
		Languages:    NewLanguages(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (c *Config) className(kind RelationKind, name string) string {
	if c.Singular {
		name = Singular(name)
	}
	if kind == RelationView {
		return c.ViewPrefix + name
	}
	return c.TablePrefix + name
}

func (c *Config) shadowPrefix() string {
	if c.ShadowPrefix == "" {
		return DefaultShadowPrefix
	}
	return c.ShadowPrefix
}

func (c *Config) allowViewKeys() bool { return c.ViewKeys }

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
