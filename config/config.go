package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/makelab/uploadgate"
	gatehttp "github.com/makelab/uploadgate/http"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for uploadgate.
type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Supabase SupabaseConfig      `mapstructure:"supabase"`
	Auth     AuthConfig          `mapstructure:"auth"`
	Upload   UploadConfig        `mapstructure:"upload"`
	CORS     gatehttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// SupabaseConfig holds object store connection configuration.
// URL and ServiceRoleKey have no defaults; the serve command refuses to
// start without them.
type SupabaseConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	ServiceRoleKey string `mapstructure:"service_role_key"`
	Bucket         string `mapstructure:"bucket" validate:"required"`
}

// AuthConfig holds token verification configuration.
//
// Mode selects the verifier: "firebase" verifies ID tokens against the
// identity provider named in ServiceAccountKey, "static" accepts only the
// tokens listed in StaticTokens (token to user ID). Static mode is for
// local development and tests.
type AuthConfig struct {
	Mode              string            `mapstructure:"mode" validate:"required,oneof=firebase static"`
	ServiceAccountKey string            `mapstructure:"service_account_key"`
	StaticTokens      map[string]string `mapstructure:"static_tokens"`
}

// UploadConfig holds upload size ceilings and signed URL validity windows,
// durations in seconds.
type UploadConfig struct {
	MaxModelSize        int64 `mapstructure:"max_model_size" validate:"min=1"`
	MaxVideoSize        int64 `mapstructure:"max_video_size" validate:"min=1"`
	UploadURLValidity   int   `mapstructure:"upload_url_validity" validate:"min=1"`
	DownloadURLValidity int   `mapstructure:"download_url_validity" validate:"min=1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":         "server.port",
	"supabase-url": "supabase.url",
	"bucket":       "supabase.bucket",
	"auth-mode":    "auth.mode",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 7000)

	v.SetDefault("supabase.bucket", uploadgate.DefaultBucket)

	v.SetDefault("auth.mode", "firebase")

	v.SetDefault("upload.max_model_size", uploadgate.MaxModelFileSize)
	v.SetDefault("upload.max_video_size", uploadgate.MaxVideoFileSize)
	v.SetDefault("upload.upload_url_validity", int(uploadgate.UploadURLValidity.Seconds()))
	v.SetDefault("upload.download_url_validity", int(uploadgate.DownloadURLValidity.Seconds()))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// envAliases maps viper keys to the bare environment variable names the
// deployment environment already provides, in addition to the prefixed
// UPLOADGATE_* forms.
var envAliases = map[string][]string{
	"server.port":               {"PORT"},
	"supabase.url":              {"SUPABASE_URL"},
	"supabase.service_role_key": {"SUPABASE_SERVICE_ROLE_KEY"},
	"auth.service_account_key":  {"FIREBASE_SERVICE_ACCOUNT_KEY"},
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("UPLOADGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		args := append([]string{key}, aliases...)
		_ = v.BindEnv(args...)
	}

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
