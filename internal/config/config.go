package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings for the local draft store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// APIConfig points at the remote content store. BaseURL is injected here
// once rather than read from the environment at call sites.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"` // e.g. https://news-backend.example.com/api
	APIKey  string `mapstructure:"api_key"`
	Timeout string `mapstructure:"timeout"` // duration string, e.g. "20s"
}

// RenderConfig controls HTML output.
type RenderConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	SiteTitle string `mapstructure:"site_title"`
}

// UploadsConfig controls optional image re-encoding before upload.
type UploadsConfig struct {
	WebPQuality int `mapstructure:"webp_quality"`
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Redis   RedisConfig   `mapstructure:"redis"`
	API     APIConfig     `mapstructure:"api"`
	Render  RenderConfig  `mapstructure:"render"`
	Uploads UploadsConfig `mapstructure:"uploads"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "20s"
	}
	if c.Render.OutputDir == "" {
		c.Render.OutputDir = "./out"
	}
	if c.Render.SiteTitle == "" {
		c.Render.SiteTitle = "APM News"
	}
	if c.Uploads.WebPQuality <= 0 || c.Uploads.WebPQuality > 100 {
		c.Uploads.WebPQuality = 85
	}
}
