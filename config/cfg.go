package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// LayoutConfig describes page box geometry for the built-in layout oracle.
	LayoutConfig struct {
		ContentHeight float64 `yaml:"content_height" validate:"gt=0"`
		ContentWidth  float64 `yaml:"content_width" validate:"gt=0"`
		CharWidth     float64 `yaml:"char_width" validate:"gt=0,ltefield=ContentWidth"`
		LineHeight    float64 `yaml:"line_height" validate:"gt=0,ltefield=ContentHeight"`
		BlockSpacing  float64 `yaml:"block_spacing" validate:"gte=0"`
		HeadingScale  float64 `yaml:"heading_scale" validate:"gte=1"`
	}

	PaginationConfig struct {
		Search       SearchMode    `yaml:"search" validate:"gte=0"`
		MaxPasses    int           `yaml:"max_passes" validate:"min=1"`
		IdleSlice    time.Duration `yaml:"idle_slice" validate:"gte=0"`
		HistoryDepth int           `yaml:"history_depth" validate:"gte=0"`
	}

	OutputConfig struct {
		FileNameFormat        string `yaml:"file_name_format"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		Indent                int    `yaml:"indent" validate:"gte=0,lte=8"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Layout     LayoutConfig     `yaml:"layout"`
		Pagination PaginationConfig `yaml:"pagination"`
		Output     OutputConfig     `yaml:"output"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

// TemplateFieldName is yaml name of configuration field holding text
// template, such fields are not expanded when configuration is processed.
type TemplateFieldName string

// must match yaml field name above
const FileNameFormatFieldName TemplateFieldName = "file_name_format"

var requiredOptions = []func(*gencfg.ProcessingOptions){
	gencfg.WithDoNotExpandField(string(FileNameFormatFieldName)),
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields we defined are allowed, so yaml.Unmarshal cannot be used
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
