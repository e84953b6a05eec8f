package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Client   ClientConfig   `mapstructure:"client"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int    `mapstructure:"port"                  validate:"required,gt=0,lt=65536"`
	LogLevel            string `mapstructure:"log_level"             validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"  validate:"gte=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains the login/register settings. Token handling is minimal:
// a token is issued on login, and task routes only demand it when RequireToken is set.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
	RequireToken         bool   `mapstructure:"require_token"`
}

// ClientConfig configures the task client: where the REST API lives and
// where the local cache is kept. Token is the bearer token printed by
// login; it is only needed when the server sets auth.require_token.
type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url"        validate:"required,url"`
	ListPath       string `mapstructure:"list_path"       validate:"required,startswith=/"`
	TasksPath      string `mapstructure:"tasks_path"      validate:"required,startswith=/"`
	LoginPath      string `mapstructure:"login_path"      validate:"required,startswith=/"`
	RegisterPath   string `mapstructure:"register_path"   validate:"required,startswith=/"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	CacheDir       string `mapstructure:"cache_dir"       validate:"required"`
	LogLevel       string `mapstructure:"log_level"       validate:"required,oneof=debug info warn error"`
	Token          string `mapstructure:"token"`
}
