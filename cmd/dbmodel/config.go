package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/dbmodel/compiler/gen"
	"github.com/syssam/dbmodel/internal/output"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "dbmodel.yaml"

// config is the content of a dbmodel.yaml file. Flags override its values.
type config struct {
	Model        string  `yaml:"model"`
	LangDB       string  `yaml:"lang_db"`
	LangORM      string  `yaml:"lang_orm"`
	Header       *string `yaml:"header"`
	TablePrefix  *string `yaml:"table_prefix"`
	ViewPrefix   *string `yaml:"view_prefix"`
	ShadowPrefix string  `yaml:"shadow_prefix"`
	Comments     *bool   `yaml:"comments"`
	ViewKeys     bool    `yaml:"view_keys"`
	Singular     bool    `yaml:"singular"`
	Package      string  `yaml:"package"`
	Workers      int     `yaml:"workers"`
	Output       struct {
		DBDir    string `yaml:"db_dir"`
		ORMDir   string `yaml:"orm_dir"`
		Combined bool   `yaml:"combined"`
	} `yaml:"output"`
}

// defaultConfig returns the configuration used without a file.
func defaultConfig() *config {
	c := &config{}
	c.Output.DBDir = "output/database"
	c.Output.ORMDir = "output/orm"
	return c
}

// loadConfig reads the configuration file at path. An empty path reads
// dbmodel.yaml when it exists in the working directory.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	buf, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, gen.NewConfigError("config", path, err.Error())
	}
	return c, nil
}

// options returns the generation options of the configuration.
func (c *config) options() []gen.Option {
	opts := []gen.Option{
		gen.WithViewKeys(c.ViewKeys),
		gen.WithSingularClassNames(c.Singular),
	}
	if c.Header != nil {
		opts = append(opts, gen.WithHeader(*c.Header))
	}
	if c.TablePrefix != nil {
		opts = append(opts, gen.WithTablePrefix(*c.TablePrefix))
	}
	if c.ViewPrefix != nil {
		opts = append(opts, gen.WithViewPrefix(*c.ViewPrefix))
	}
	if c.ShadowPrefix != "" {
		opts = append(opts, gen.WithShadowPrefix(c.ShadowPrefix))
	}
	if c.Comments != nil {
		opts = append(opts, gen.WithComments(*c.Comments))
	}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	return opts
}

// layout returns the output layout of the configuration.
func (c *config) layout() output.Layout {
	return output.Layout{
		DBDir:    c.Output.DBDir,
		ORMDir:   c.Output.ORMDir,
		Combined: c.Output.Combined,
	}
}
