package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

const (
	DefaultOutput       = ".mathspan"
	DefaultCacheSize    = 4096
	DefaultParallel     = 4
	DefaultMaxFileSize  = 10 << 20
	DefaultAddr         = ":8088"
	DefaultFormat       = "table"
	DefaultLimit        = 50
	DefaultSourceLength = 60

	SourceTypeDir = "dir"
	SourceTypeURL = "url"

	validationTagRequiredIf = "required_if"
)

func DefaultPatterns() []string {
	return []string{"**/*.md", "**/*.mdx", "**/*.txt"}
}

// DefaultExcludes is used as the global exclude list when the config file
// does not set one.
func DefaultExcludes() []string {
	return []string{
		".git/**",
		"node_modules/**",
		"**/node_modules/**",
		"dist/**",
		"build/**",
		".vitepress/**",
		".docusaurus/**",
		"**/*.png",
		"**/*.jpg",
		"**/*.svg",
	}
}

type Config struct {
	Output    string            `koanf:"output"     validate:"omitempty,dirpath"`
	CacheSize int               `koanf:"cache_size" validate:"gte=0"`
	Excludes  []string          `koanf:"excludes"`
	Scan      Scan              `koanf:"scan"`
	Display   Display           `koanf:"display"`
	Server    Server            `koanf:"server"`
	Sources   map[string]Source `koanf:"sources"    validate:"dive"`
	ConfigDir string            `koanf:"-"`
}

type Scan struct {
	Parallel    int   `koanf:"parallel"      validate:"gte=0"`
	MaxFileSize int64 `koanf:"max_file_size" validate:"gte=0"`
}

type Display struct {
	Format       string `koanf:"format"        validate:"omitempty,oneof=table json csv"`
	DefaultLimit int    `koanf:"default_limit" validate:"gte=0"`
	SourceLength int    `koanf:"source_length" validate:"gte=0"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Source struct {
	Type     string   `koanf:"type"     validate:"required,oneof=dir url"`
	Path     string   `koanf:"path"     validate:"required_if=Type dir"`
	Patterns []string `koanf:"patterns"`
	Exclude  []string `koanf:"exclude"`
	URL      string   `koanf:"url"      validate:"required_if=Type url,omitempty,url"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Default returns a config with every default applied and no sources.
func Default() *Config {
	cfg := &Config{CacheSize: DefaultCacheSize, Excludes: DefaultExcludes()}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Scan.Parallel == 0 {
		c.Scan.Parallel = DefaultParallel
	}
	if c.Scan.MaxFileSize == 0 {
		c.Scan.MaxFileSize = DefaultMaxFileSize
	}
	if c.Display.Format == "" {
		c.Display.Format = DefaultFormat
	}
	if c.Display.DefaultLimit == 0 {
		c.Display.DefaultLimit = DefaultLimit
	}
	if c.Display.SourceLength == 0 {
		c.Display.SourceLength = DefaultSourceLength
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}

	for sourceName, sourceCfg := range c.Sources {
		if sourceCfg.Type == "" {
			sourceCfg.Type = inferType(sourceCfg)
		}

		if sourceCfg.Type == SourceTypeDir {
			if len(sourceCfg.Patterns) == 0 {
				sourceCfg.Patterns = DefaultPatterns()
			}
			sourceCfg.Exclude = mergeExcludes(c.Excludes, sourceCfg.Exclude)
		}

		c.Sources[sourceName] = sourceCfg
	}
}

func inferType(src Source) string {
	switch {
	case src.URL != "":
		return SourceTypeURL
	case src.Path != "":
		return SourceTypeDir
	default:
		return ""
	}
}

// mergeExcludes returns the sorted union of both lists, or nil when both
// are empty.
func mergeExcludes(global, source []string) []string {
	if len(global) == 0 && len(source) == 0 {
		return nil
	}

	merged := make([]string, 0, len(global)+len(source))
	merged = append(merged, global...)
	merged = append(merged, source...)
	slices.Sort(merged)
	return slices.Compact(merged)
}

func (c *Config) Validate() error {
	v := newValidator()

	if valErr := v.Struct(struct {
		CacheSize int `validate:"gte=0"`
		Scan      Scan
		Display   Display
	}{c.CacheSize, c.Scan, c.Display}); valErr != nil {
		return oops.
			Code("CONFIG_INVALID").
			Hint("Check cache_size, [scan], and [display] values").
			Wrapf(valErr, "validating config")
	}

	for _, sourceName := range c.SourceNames() {
		sourceCfg := c.Sources[sourceName]
		valErr := v.Struct(sourceCfg)
		if valErr == nil {
			continue
		}

		var validationErrors validator.ValidationErrors
		if !errors.As(valErr, &validationErrors) {
			return oops.
				Code("CONFIG_INVALID").
				With("source", sourceName).
				Wrapf(valErr, "validating source %q", sourceName)
		}

		for _, fe := range validationErrors {
			return mapValidationError(sourceName, sourceCfg, fe)
		}
	}

	return nil
}

func mapValidationError(sourceName string, sourceCfg Source, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "required" && field == "type":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			Hint("Set type, path, or url for the source").
			Errorf("source %q has neither 'path' nor 'url'", sourceName)

	case fe.Tag() == "oneof" && field == "type":
		return oops.
			Code("UNKNOWN_SOURCE_TYPE").
			With("source", sourceName).
			With("type", sourceCfg.Type).
			Hint("Supported types: dir, url").
			Errorf("unknown source type %q for source %q", sourceCfg.Type, sourceName)

	case fe.Tag() == validationTagRequiredIf && field == "path":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "path").
			Hint("Set path to a directory relative to the config file").
			Errorf("missing 'path' for source %q", sourceName)

	case fe.Tag() == validationTagRequiredIf && field == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "url").
			Hint("Set url for url sources").
			Errorf("missing 'url' for source %q", sourceName)

	case fe.Tag() == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "url").
			With("value", sourceCfg.URL).
			Hint("Use an absolute http(s) URL").
			Errorf("invalid url %q for source %q", sourceCfg.URL, sourceName)

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q in source %q", field, sourceName)
	}
}

// SourceRoot resolves a dir source's path against the config directory.
func (c *Config) SourceRoot(sourceCfg Source) string {
	if filepath.IsAbs(sourceCfg.Path) {
		return filepath.Clean(sourceCfg.Path)
	}
	return filepath.Join(c.ConfigDir, sourceCfg.Path)
}

// SourceNames returns the configured source names in sorted order.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
