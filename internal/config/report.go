package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/salesreport/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Sales sources.
const (
	SourceGenerated = "generated"
	SourceSQLite    = "sqlite"
)

// Defaults for the report.* and database.* keys.
const (
	DefaultOutputDir    = "."
	DefaultCount        = 100
	DefaultSeed         = 42
	DefaultTopN         = 5
	DefaultDatabasePath = "$HOME/.local/share/salesreport/sales.db"
)

// ReportConfig is everything the report command needs besides the exporters.
type ReportConfig struct {
	Source       string `validate:"oneof=generated sqlite"`
	OutputDir    string `validate:"required"`
	DatabasePath string
	Count        int   `validate:"gte=0"`
	Seed         int64
	TopN         int   `validate:"gte=0"`
	FailOnEmpty  bool
	ExportSheets bool
}

// SetDefaults registers the report defaults with viper.
func SetDefaults() {
	viper.SetDefault("report.source", SourceGenerated)
	viper.SetDefault("report.output_dir", DefaultOutputDir)
	viper.SetDefault("report.count", DefaultCount)
	viper.SetDefault("report.seed", DefaultSeed)
	viper.SetDefault("report.top_n", DefaultTopN)
	viper.SetDefault("report.fail_on_empty", false)
	viper.SetDefault("report.export_sheets", false)
	viper.SetDefault("database.path", DefaultDatabasePath)
}

// LoadReportConfig reads and validates the report configuration.
func LoadReportConfig() (*ReportConfig, error) {
	SetDefaults()

	cfg := &ReportConfig{
		Source:       viper.GetString("report.source"),
		OutputDir:    filepath.Clean(ExpandPath(viper.GetString("report.output_dir"))),
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		Count:        viper.GetInt("report.count"),
		Seed:         viper.GetInt64("report.seed"),
		TopN:         viper.GetInt("report.top_n"),
		FailOnEmpty:  viper.GetBool("report.fail_on_empty"),
		ExportSheets: viper.GetBool("report.export_sheets"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate reports the first invalid field.
func (c *ReportConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s fails %q (got %v)", common.ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
}
