package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/toastate/grips/internal/errs"
)

const DefaultConfigFile = "grips.json"

var DefaultConfiguration = Configuration{
	RenderExtension: "hbs.html",
	ExtensionMatch:  "first_dot",
	WalkOrder:       "stack",
	Engine:          "handlebars",
	OnRenderError:   OnRenderErrorAbort,
	ServeConfig: ServeConfiguration{
		Redirect404: "",
		Port:        8100,
	},
}

const (
	OnRenderErrorAbort = "abort"
	OnRenderErrorSkip  = "skip"
)

type Configuration struct {
	Source           string            `json:"source" yaml:"source" toml:"source"`
	Target           string            `json:"target" yaml:"target" toml:"target"`
	RenderExtension  string            `json:"render_extension,omitempty" yaml:"render_extension,omitempty" toml:"render_extension,omitempty"`
	ExtensionsToCopy []string          `json:"extensions_to_copy,omitempty" yaml:"extensions_to_copy,omitempty" toml:"extensions_to_copy,omitempty"`
	Vars             map[string]string `json:"vars,omitempty" yaml:"vars,omitempty" toml:"vars,omitempty"`

	ExtensionMatch    string `json:"extension_match,omitempty" yaml:"extension_match,omitempty" toml:"extension_match,omitempty"` // first_dot or last_dot
	WalkOrder         string `json:"walk_order,omitempty" yaml:"walk_order,omitempty" toml:"walk_order,omitempty"`                // stack or queue
	Engine            string `json:"engine,omitempty" yaml:"engine,omitempty" toml:"engine,omitempty"`
	OnRenderError     string `json:"on_render_error,omitempty" yaml:"on_render_error,omitempty" toml:"on_render_error,omitempty"`
	Minify            bool   `json:"minify,omitempty" yaml:"minify,omitempty" toml:"minify,omitempty"`
	NormalizeNewlines bool   `json:"normalize_newlines,omitempty" yaml:"normalize_newlines,omitempty" toml:"normalize_newlines,omitempty"`
	Clean             bool   `json:"clean,omitempty" yaml:"clean,omitempty" toml:"clean,omitempty"`
	EnvFile           string `json:"env_file,omitempty" yaml:"env_file,omitempty" toml:"env_file,omitempty"`

	ServeConfig ServeConfiguration `json:"serve,omitempty" yaml:"serve,omitempty" toml:"serve,omitempty"`
}

type ServeConfiguration struct {
	Redirect404 string `json:"redirect_404" yaml:"redirect_404" toml:"redirect_404"`
	Port        int    `json:"port" yaml:"port" toml:"port"`
}

// Default returns a copy of DefaultConfiguration that is safe to mutate.
func Default() *Configuration {
	c := DefaultConfiguration
	c.Vars = map[string]string{}
	return &c
}

// Load reads the configuration file at configpath, grips.json when empty.
// The decoder is picked from the file extension: .json, .yaml, .yml or .toml.
func Load(configpath string) (*Configuration, error) {
	if configpath == "" {
		configpath = DefaultConfigFile
	}

	data, err := os.ReadFile(configpath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.KindConfigMissing, "load config", configpath, err)
		}
		return nil, errs.New(errs.KindIO, "load config", configpath, err)
	}

	c := Default()
	if err := decode(configpath, data, c); err != nil {
		return nil, errs.New(errs.KindConfigParse, "load config", configpath, err)
	}

	if c.EnvFile != "" {
		if err := c.applyEnvFile(); err != nil {
			return nil, errs.New(errs.KindConfigParse, "load env file", c.EnvFile, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, errs.New(errs.KindConfigParse, "validate config", configpath, err)
	}

	return c, nil
}

func decode(configpath string, data []byte, c *Configuration) error {
	switch strings.ToLower(filepath.Ext(configpath)) {
	case ".yaml", ".yml":
		return errors.Wrap(yaml.Unmarshal(data, c), "decoding yaml")
	case ".toml":
		return errors.Wrap(toml.Unmarshal(data, c), "decoding toml")
	default:
		return errors.Wrap(json.NewDecoder(bytes.NewReader(data)).Decode(c), "decoding json")
	}
}

// applyEnvFile fills vars from a dotenv file. Keys already set in the
// configuration win.
func (c *Configuration) applyEnvFile() error {
	env, err := godotenv.Read(c.EnvFile)
	if err != nil {
		return errors.Wrapf(err, "reading %s", c.EnvFile)
	}
	if c.Vars == nil {
		c.Vars = map[string]string{}
	}
	for k, v := range env {
		if _, ok := c.Vars[k]; !ok {
			c.Vars[k] = v
		}
	}
	return nil
}

// Validate checks the fields a build cannot start without and the
// enumerated options.
func (c *Configuration) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.Target == "" {
		return errors.New("target is required")
	}
	if c.RenderExtension == "" {
		return errors.New("render_extension must not be empty")
	}
	if strings.HasPrefix(c.RenderExtension, ".") {
		return errors.Errorf("render_extension %q must not start with a dot", c.RenderExtension)
	}
	for _, ext := range c.ExtensionsToCopy {
		if ext == "" || strings.HasPrefix(ext, ".") {
			return errors.Errorf("extensions_to_copy entry %q must be a non-empty token without a leading dot", ext)
		}
	}

	switch c.ExtensionMatch {
	case "", "first_dot", "last_dot":
	default:
		return errors.Errorf("extension_match %q is not one of first_dot, last_dot", c.ExtensionMatch)
	}
	switch c.WalkOrder {
	case "", "stack", "queue":
	default:
		return errors.Errorf("walk_order %q is not one of stack, queue", c.WalkOrder)
	}
	switch c.Engine {
	case "", "handlebars", "gotemplate":
	default:
		return errors.Errorf("engine %q is not one of handlebars, gotemplate", c.Engine)
	}
	switch c.OnRenderError {
	case "", OnRenderErrorAbort, OnRenderErrorSkip:
	default:
		return errors.Errorf("on_render_error %q is not one of abort, skip", c.OnRenderError)
	}
	return nil
}
