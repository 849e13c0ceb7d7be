package config

// Config holds the application configuration.
type Config struct {
	Catalog  Catalog  `yaml:"catalog"`
	Database Database `yaml:"database"`
	Remote   Remote   `yaml:"remote"`
	Legacy   Legacy   `yaml:"legacy"`
	Import   Import   `yaml:"import"`
	Export   Export   `yaml:"export"`
	Server   Server   `yaml:"server"`
	Metrics  Metrics  `yaml:"metrics"`
	Telegram Telegram `yaml:"telegram"`
	Logger   Logger   `yaml:"logger"`
}

// Catalog selects the store backend for the song catalog.
type Catalog struct {
	// Backend is "sqlite" or "rest".
	Backend string `yaml:"backend" validate:"required,oneof=sqlite rest"`
}

// Database holds the configuration for the sqlite backend.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Remote holds the configuration for the REST document-store backend.
type Remote struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Legacy holds the location of the pre-migration local song list.
type Legacy struct {
	Path string `yaml:"path"`
}

// Import holds the configuration for CSV bulk import.
type Import struct {
	DropPath         string `yaml:"drop_path"`
	AutoStartWatcher bool   `yaml:"auto_start_watcher"`
}

// Export holds the configuration for catalog exports.
type Export struct {
	Path string `yaml:"path"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Metrics holds the configuration for the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Port    uint32 `yaml:"port"`
}

// Telegram holds the configuration for the Telegram bot surface.
type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}
