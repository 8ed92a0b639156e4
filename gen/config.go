package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/schema"
)

// Config is a generation config file, conventionally bytebridge.yaml:
//
//	schemas: [schema/demo.yaml]
//	go:
//	  package: demo
//	  out: internal/demo
//	java:
//	  package: com.example.demo
//	  out: java/src/main/java
//
// Relative paths resolve against the config file's directory.
type Config struct {
	Go      *GoConfig   `yaml:"go"`
	Java    *JavaConfig `yaml:"java"`
	Schemas []string    `yaml:"schemas"`

	dir string
}

type GoConfig struct {
	Package string `yaml:"package"`
	Out     string `yaml:"out"`
}

type JavaConfig struct {
	Package string `yaml:"package"`
	Out     string `yaml:"out"`
}

// LoadConfig reads and checks a config file. Unknown keys are errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes config YAML without resolving paths.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "invalid config YAML")
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Check reports every missing required setting at once.
func (c *Config) Check() error {
	var errs errors.List
	if len(c.Schemas) == 0 {
		errs = append(errs, configError("schemas", "at least one schema file is required"))
	}
	if c.Go == nil && c.Java == nil {
		errs = append(errs, configError("", "no output configured: set go, java or both"))
	}
	if c.Go != nil {
		if c.Go.Package == "" {
			errs = append(errs, configError("go.package", "required"))
		}
		if c.Go.Out == "" {
			errs = append(errs, configError("go.out", "required"))
		}
	}
	if c.Java != nil {
		if c.Java.Package == "" {
			errs = append(errs, configError("java.package", "required"))
		}
		if c.Java.Out == "" {
			errs = append(errs, configError("java.out", "required"))
		}
	}
	return errs.Err()
}

func configError(key, detail string) *errors.Error {
	b := errors.New(errors.PhaseParse, errors.KindInvalidInput).Detail("%s", detail)
	if key != "" {
		b = b.Path(key)
	}
	return b.Build()
}

// Resolve returns p relative to the config file's directory.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// LoadSchemas reads every schema file and merges them into one schema.
// The package name comes from the first file that declares one.
func (c *Config) LoadSchemas() (*schema.Schema, error) {
	merged := &schema.Schema{}
	for _, p := range c.Schemas {
		s, err := schema.Load(c.Resolve(p))
		if err != nil {
			return nil, err
		}
		if merged.Package == "" {
			merged.Package = s.Package
		}
		merged.Types = append(merged.Types, s.Types...)
	}
	return merged, nil
}
