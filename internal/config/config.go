package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/knowdesk/pagekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pagekit.json"

	DefaultAddr        = ":3000"
	DefaultVersion     = "1.0.0"
	DefaultMountID     = "app"
	DefaultPagesDir    = "frontend"
	DefaultManifest    = "static/dist/.vite/manifest.json"
	DefaultAssetPrefix = "/static/dist/"
	DefaultEntry       = "src/app.js"
	DefaultStaticDir   = "static"
	DefaultStaticURL   = "/static/"
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete pagekit.json configuration.
type Config struct {
	// Name is the application name, used as the page title.
	Name string `json:"name,omitempty"`

	// Addr is the listen address of the server.
	Addr string `json:"addr,omitempty"`

	// Version is the asset version embedded in page descriptors.
	Version string `json:"version,omitempty"`

	// MountID is the id of the element pages mount into.
	MountID string `json:"mountId,omitempty"`

	// Routes is the path to an HCL route file. Empty selects the built-in
	// application routes.
	Routes string `json:"routes,omitempty"`

	// Views maps route names to the page component served at the route's
	// URL. Keys beginning with "/" are literal paths.
	Views map[string]string `json:"views,omitempty"`

	Pages   PagesConfig   `json:"pages,omitempty"`
	Assets  AssetsConfig  `json:"assets,omitempty"`
	Static  StaticConfig  `json:"static,omitempty"`
	Log     LogConfig     `json:"log,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PagesConfig says where page sources come from. S3 wins when a bucket
// is set.
type PagesConfig struct {
	Dir string   `json:"dir,omitempty"`
	S3  S3Config `json:"s3,omitempty"`
}

// S3Config locates page sources in a bucket.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty"`
}

// AssetsConfig configures front-end asset resolution.
type AssetsConfig struct {
	Manifest string `json:"manifest,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Entry    string `json:"entry,omitempty"`

	// DevServer is the bundler dev-server origin. When set, the manifest
	// is ignored.
	DevServer string `json:"devServer,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	Dir    string `json:"dir,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// DefaultViews returns the application's page views.
func DefaultViews() map[string]string {
	return map[string]string{
		"/":                "Home/Home",
		"/about":           "About",
		"auth.login":       "auth/Login",
		"auth.register":    "auth/Register",
		"project.index":    "projects/Index",
		"project.create":   "projects/Create",
		"project.detail":   "projects/Detail",
		"project.edit":     "projects/Edit",
		"project.members":  "projects/Members",
		"knowledge.index":  "knowledge/Index",
		"knowledge.create": "knowledge/Create",
		"knowledge.search": "knowledge/Search",
		"knowledge.detail": "knowledge/Detail",
		"knowledge.edit":   "knowledge/Edit",
	}
}

// New returns a configuration with all defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads pagekit.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := New()
			cfg.configPath = path
			return cfg, nil
		}
		return nil, errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("failed to parse %s: %v", path, err).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "pagekit"
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.MountID == "" {
		c.MountID = DefaultMountID
	}
	if c.Views == nil {
		c.Views = DefaultViews()
	}
	if c.Pages.Dir == "" {
		c.Pages.Dir = DefaultPagesDir
	}
	if c.Assets.Manifest == "" {
		c.Assets.Manifest = DefaultManifest
	}
	if c.Assets.Prefix == "" {
		c.Assets.Prefix = DefaultAssetPrefix
	}
	if c.Assets.Entry == "" {
		c.Assets.Entry = DefaultEntry
	}
	if c.Static.Dir == "" {
		c.Static.Dir = DefaultStaticDir
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = DefaultStaticURL
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return errors.New(errors.CodeInvalidConfigAddr).
			WithDetail("addr %q", c.Addr).
			Wrap(err)
	}
	if strings.TrimSpace(c.Version) == "" {
		return errors.New(errors.CodeMissingConfig).WithDetail("version")
	}
	if strings.TrimSpace(c.MountID) == "" {
		return errors.New(errors.CodeMissingConfig).WithDetail("mountId")
	}
	if c.Pages.S3.Bucket != "" && c.Pages.S3.Region == "" {
		return errors.New(errors.CodeMissingConfig).
			WithDetail("pages.s3.region is required with pages.s3.bucket")
	}
	for key, component := range c.Views {
		if key == "" || strings.TrimSpace(component) == "" {
			return errors.New(errors.CodeInvalidConfig).WithDetail("views: %q -> %q", key, component)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New(errors.CodeInvalidConfig).WithDetail("log.level %q", c.Log.Level).Wrap(err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeInvalidConfig).WithDetail("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// PagesPath returns the page source directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Pages.Dir)
}

// RoutesPath returns the HCL route file, or "" for the built-in routes.
func (c *Config) RoutesPath() string {
	if c.Routes == "" {
		return ""
	}
	return c.resolve(c.Routes)
}

// ManifestPath returns the asset manifest path.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Assets.Manifest)
}

// StaticPath returns the static file directory.
func (c *Config) StaticPath() string {
	return c.resolve(c.Static.Dir)
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger builds the slog logger described by the configuration.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
