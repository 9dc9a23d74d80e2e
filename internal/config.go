package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/relink/internal/migrate"
	"github.com/starford/relink/internal/models"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Migrate MigrateConfig     `yaml:"migrate"`
	Report  ReportConfig      `yaml:"report"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Vault.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// VaultConfig describes the vault directory and its naming conventions.
type VaultConfig struct {
	Path          string   `yaml:"path"`
	NoteExt       string   `yaml:"note_ext"`
	ImageExt      string   `yaml:"image_ext"`
	AssetsDir     string   `yaml:"assets_dir"`
	AssetLinkBase string   `yaml:"asset_link_base"`
	Exclude       []string `yaml:"exclude"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.NoteExt, validation.Required, validation.By(isExtension)),
		validation.Field(&c.ImageExt, validation.Required, validation.By(isExtension)),
		validation.Field(&c.AssetsDir, validation.Required, validation.By(isPlainName)),
		validation.Field(&c.AssetLinkBase, validation.Required),
		validation.Field(&c.Exclude, validation.Each(validation.By(isGlob))),
	)
}

// Layout returns the naming conventions as a models.Layout.
func (c *VaultConfig) Layout() models.Layout {
	return models.Layout{
		NoteExt:       c.NoteExt,
		ImageExt:      c.ImageExt,
		AssetsDir:     c.AssetsDir,
		AssetLinkBase: c.AssetLinkBase,
	}
}

// MigrateConfig toggles the individual passes.
type MigrateConfig struct {
	RewriteImages bool `yaml:"rewrite_images"`
	ChainJournals bool `yaml:"chain_journals"`
	RenameFiles   bool `yaml:"rename_files"`
	MoveAssets    bool `yaml:"move_assets"`
	FailFast      bool `yaml:"fail_fast"`
}

// ReportConfig holds the optional run ledger location. An empty path
// disables the ledger.
type ReportConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Enabled reports whether a ledger should be written.
func (c *ReportConfig) Enabled() bool {
	return c.SQLitePath != ""
}

// MigrateOptions converts the configuration into migrator options.
func (c *Config) MigrateOptions() migrate.Options {
	return migrate.Options{
		Layout:        c.Vault.Layout(),
		Exclude:       c.Vault.Exclude,
		RewriteImages: c.Migrate.RewriteImages,
		ChainJournals: c.Migrate.ChainJournals,
		RenameFiles:   c.Migrate.RenameFiles,
		MoveAssets:    c.Migrate.MoveAssets,
		FailFast:      c.Migrate.FailFast,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	layout := models.DefaultLayout()
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Vault: VaultConfig{
			Path:          "./vault",
			NoteExt:       layout.NoteExt,
			ImageExt:      layout.ImageExt,
			AssetsDir:     layout.AssetsDir,
			AssetLinkBase: layout.AssetLinkBase,
		},
		Migrate: MigrateConfig{
			RewriteImages: true,
			ChainJournals: true,
			RenameFiles:   true,
			MoveAssets:    true,
		},
	}
}

func isExtension(value any) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, ".") || len(s) < 2 || strings.ContainsAny(s, `/\`) {
		return errors.New("must start with a dot, e.g. \".md\"")
	}
	return nil
}

func isPlainName(value any) error {
	s, _ := value.(string)
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return errors.New("must be a plain directory name")
	}
	return nil
}

func isGlob(value any) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("invalid glob pattern %q", s)
	}
	return nil
}
