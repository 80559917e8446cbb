package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/varsum/internal/dispatch"
	"github.com/KaramelBytes/varsum/internal/outlier"
	"github.com/KaramelBytes/varsum/internal/utils"
)

// Global configuration structure.
type Global struct {
	DefaultAggregation string `mapstructure:"default_aggregation" yaml:"default_aggregation" validate:"oneof=min mean median max sum"`
	DefaultOutput      string `mapstructure:"default_output" yaml:"default_output" validate:"oneof=table plot"`
	DefaultOutliers    string `mapstructure:"default_outliers" yaml:"default_outliers"`
	RenderFormat       string `mapstructure:"render_format" yaml:"render_format" validate:"oneof=table markdown md csv json"`
	LumpKeepN          int    `mapstructure:"lump_keep_n" yaml:"lump_keep_n" validate:"min=1"`
	LumpOtherLabel     string `mapstructure:"lump_other_label" yaml:"lump_other_label" validate:"required"`
	TopN               int    `mapstructure:"top_n" yaml:"top_n" validate:"min=1"`

	// Ingestion
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows" validate:"min=0"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,len=1"`

	// Plot output
	PlotHeight   int     `mapstructure:"plot_height" yaml:"plot_height" validate:"min=100"`
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in" validate:"gt=0"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in" validate:"gt=0"`

	// Theme colors; empty keeps the built-in palette.
	ThemeBackground string   `mapstructure:"theme_background" yaml:"theme_background" validate:"omitempty,hexcolor"`
	ThemeBar        string   `mapstructure:"theme_bar" yaml:"theme_bar" validate:"omitempty,hexcolor"`
	ThemePoint      string   `mapstructure:"theme_point" yaml:"theme_point" validate:"omitempty,hexcolor"`
	ThemeAccent     string   `mapstructure:"theme_accent" yaml:"theme_accent" validate:"omitempty,hexcolor"`
	ThemeGrid       string   `mapstructure:"theme_grid" yaml:"theme_grid" validate:"omitempty,hexcolor"`
	ThemeGroups     []string `mapstructure:"theme_groups" yaml:"theme_groups" validate:"omitempty,dive,hexcolor"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report yaml key names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every key against its allowed values.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if tok := strings.TrimSpace(c.DefaultOutliers); tok != "" && !strings.EqualFold(tok, "none") {
		if _, err := outlier.ParseSpec(tok); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// Theme merges the configured colors over the built-in palette.
func (c *Global) Theme() dispatch.Theme {
	t := dispatch.DefaultTheme()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&t.Background, c.ThemeBackground)
	set(&t.Bar, c.ThemeBar)
	set(&t.Point, c.ThemePoint)
	set(&t.Accent, c.ThemeAccent)
	set(&t.Grid, c.ThemeGrid)
	if len(c.ThemeGroups) > 0 {
		t.Groups = append([]string(nil), c.ThemeGroups...)
	}
	if c.PlotHeight > 0 {
		t.Height = c.PlotHeight
	}
	return t
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"default_aggregation", "default_output", "default_outliers", "render_format",
		"lump_keep_n", "lump_other_label", "top_n", "max_rows", "delimiter",
		"plot_height", "plot_width_in", "plot_height_in",
		"theme_background", "theme_bar", "theme_point", "theme_accent", "theme_grid", "theme_groups",
	}
}

// Get returns the value of key formatted for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "default_aggregation":
		return c.DefaultAggregation, nil
	case "default_output":
		return c.DefaultOutput, nil
	case "default_outliers":
		return c.DefaultOutliers, nil
	case "render_format":
		return c.RenderFormat, nil
	case "lump_keep_n":
		return strconv.Itoa(c.LumpKeepN), nil
	case "lump_other_label":
		return c.LumpOtherLabel, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "delimiter":
		return strconv.Quote(c.Delimiter), nil
	case "plot_height":
		return strconv.Itoa(c.PlotHeight), nil
	case "plot_width_in":
		return strconv.FormatFloat(c.PlotWidthIn, 'f', -1, 64), nil
	case "plot_height_in":
		return strconv.FormatFloat(c.PlotHeightIn, 'f', -1, 64), nil
	case "theme_background":
		return c.ThemeBackground, nil
	case "theme_bar":
		return c.ThemeBar, nil
	case "theme_point":
		return c.ThemePoint, nil
	case "theme_accent":
		return c.ThemeAccent, nil
	case "theme_grid":
		return c.ThemeGrid, nil
	case "theme_groups":
		return strings.Join(c.ThemeGroups, ","), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set parses val into key and validates the result. On error c is left
// unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	atoi := func() (int, error) {
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	atof := func() (float64, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	var err error
	switch key {
	case "default_aggregation":
		next.DefaultAggregation = strings.ToLower(val)
	case "default_output":
		next.DefaultOutput = strings.ToLower(val)
	case "default_outliers":
		next.DefaultOutliers = strings.ToLower(val)
	case "render_format":
		next.RenderFormat = strings.ToLower(val)
	case "lump_keep_n":
		next.LumpKeepN, err = atoi()
	case "lump_other_label":
		next.LumpOtherLabel = val
	case "top_n":
		next.TopN, err = atoi()
	case "max_rows":
		next.MaxRows, err = atoi()
	case "delimiter":
		if val == `\t` || val == "tab" {
			val = "\t"
		}
		next.Delimiter = val
	case "plot_height":
		next.PlotHeight, err = atoi()
	case "plot_width_in":
		next.PlotWidthIn, err = atof()
	case "plot_height_in":
		next.PlotHeightIn, err = atof()
	case "theme_background":
		next.ThemeBackground = val
	case "theme_bar":
		next.ThemeBar = val
	case "theme_point":
		next.ThemePoint = val
	case "theme_accent":
		next.ThemeAccent = val
	case "theme_grid":
		next.ThemeGrid = val
	case "theme_groups":
		next.ThemeGroups = nil
		for _, g := range strings.Split(val, ",") {
			if g = strings.TrimSpace(g); g != "" {
				next.ThemeGroups = append(next.ThemeGroups, g)
			}
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".varsum"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.varsum/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VARSUM")
	v.AutomaticEnv()

	v.SetDefault("default_aggregation", "mean")
	v.SetDefault("default_output", "table")
	v.SetDefault("default_outliers", "none")
	v.SetDefault("render_format", "table")
	v.SetDefault("lump_keep_n", 10)
	v.SetDefault("lump_other_label", "Others")
	v.SetDefault("top_n", 10)
	v.SetDefault("max_rows", 0)
	v.SetDefault("delimiter", "")
	v.SetDefault("plot_height", 600)
	v.SetDefault("plot_width_in", 8.0)
	v.SetDefault("plot_height_in", 5.0)
	// Theme keys default to empty so the built-in palette applies, but they
	// still need registering for env lookup during Unmarshal.
	for _, k := range []string{"theme_background", "theme_bar", "theme_point", "theme_accent", "theme_grid"} {
		v.SetDefault(k, "")
	}
	v.SetDefault("theme_groups", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
