package readability

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Config is the engine's configuration record. Grounded on
// rohmanhakim-docs-crawler's internal/config/config.go: an unexported
// struct built exclusively through chained With* methods and a
// terminal Build(), never a public struct literal. There is no way to
// reach in and mutate a Config's fields from outside the package, so
// the retry loop's flag-weakening (which works on its own private
// copy, see grabber.go) can never leak back into a Config the caller
// still holds.
type Config struct {
	stripUnlikely      bool
	weightClasses      bool
	cleanConditionally bool

	baseURL     *url.URL
	urlOverride bool

	template []string

	maxElemsToParse int
	nTopCandidates  int
	charThreshold   int

	classesToPreserve []string
	tagsToScore       []string
}

// configDTO is the on-disk JSON shape accepted by WithConfigFile.
type configDTO struct {
	StripUnlikely      *bool    `json:"stripUnlikely,omitempty"`
	WeightClasses      *bool    `json:"weightClasses,omitempty"`
	CleanConditionally *bool    `json:"cleanConditionally,omitempty"`
	BaseURL            string   `json:"baseUrl,omitempty"`
	URLOverride        bool     `json:"urlOverride,omitempty"`
	Template           []string `json:"template,omitempty"`
	MaxElemsToParse    int      `json:"maxElemsToParse,omitempty"`
	NTopCandidates     int      `json:"nTopCandidates,omitempty"`
	CharThreshold      int      `json:"charThreshold,omitempty"`
}

// NewConfig starts a builder with sensible defaults:
// strip_unlikely, weight_classes and clean_conditionally all true, 5
// top candidates, a 500-character accept threshold, and the "page"
// class reserved for the engine's own wrapper element.
func NewConfig() *Config {
	return &Config{
		stripUnlikely:      true,
		weightClasses:      true,
		cleanConditionally: true,
		nTopCandidates:     5,
		charThreshold:      500,
		classesToPreserve:  []string{"page"},
		tagsToScore:        []string{"section", "h2", "h3", "h4", "h5", "h6", "p", "td", "pre"},
	}
}

// WithConfigFile reads a JSON config file and layers it over the
// defaults.
func WithConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("readability: read config file: %w", err)
	}

	var dto configDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return Config{}, fmt.Errorf("readability: parse config file: %w", err)
	}

	cfg := NewConfig()
	if dto.StripUnlikely != nil {
		cfg.stripUnlikely = *dto.StripUnlikely
	}
	if dto.WeightClasses != nil {
		cfg.weightClasses = *dto.WeightClasses
	}
	if dto.CleanConditionally != nil {
		cfg.cleanConditionally = *dto.CleanConditionally
	}
	if dto.BaseURL != "" {
		u, err := url.Parse(dto.BaseURL)
		if err != nil {
			return Config{}, fmt.Errorf("readability: parse baseUrl in config file: %w", err)
		}
		cfg.baseURL = u
	}
	cfg.urlOverride = dto.URLOverride
	if len(dto.Template) > 0 {
		cfg.template = dto.Template
	}
	if dto.MaxElemsToParse > 0 {
		cfg.maxElemsToParse = dto.MaxElemsToParse
	}
	if dto.NTopCandidates > 0 {
		cfg.nTopCandidates = dto.NTopCandidates
	}
	if dto.CharThreshold > 0 {
		cfg.charThreshold = dto.CharThreshold
	}

	return cfg.Build()
}

func (c *Config) WithStripUnlikely(v bool) *Config {
	c.stripUnlikely = v
	return c
}

func (c *Config) WithWeightClasses(v bool) *Config {
	c.weightClasses = v
	return c
}

func (c *Config) WithCleanConditionally(v bool) *Config {
	c.cleanConditionally = v
	return c
}

// WithBaseURL sets the URL relative hrefs/srcs are resolved against.
func (c *Config) WithBaseURL(u *url.URL) *Config {
	c.baseURL = u
	return c
}

// WithURLOverride marks that the document itself supplied a <base
// href>.
func (c *Config) WithURLOverride(v bool) *Config {
	c.urlOverride = v
	return c
}

// WithTemplate sets the ordered list of metadata fields a caller wants
// interleaved into rendered output.
func (c *Config) WithTemplate(fields []string) *Config {
	c.template = append([]string(nil), fields...)
	return c
}

func (c *Config) WithMaxElemsToParse(n int) *Config {
	c.maxElemsToParse = n
	return c
}

func (c *Config) WithNTopCandidates(n int) *Config {
	c.nTopCandidates = n
	return c
}

func (c *Config) WithCharThreshold(n int) *Config {
	c.charThreshold = n
	return c
}

func (c *Config) WithClassesToPreserve(classes []string) *Config {
	c.classesToPreserve = append([]string(nil), classes...)
	return c
}

// Build finalizes the Config. It never fails today, but returns an
// error to match the builder shape used throughout the domain stack
// and to leave room for future validation without breaking callers.
func (c *Config) Build() (Config, error) {
	return *c, nil
}
