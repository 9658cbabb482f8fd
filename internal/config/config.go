package config

import (
	"errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is resolved once at process start and passed by value into every
// component. Precedence: CLI flags, then environment, then the config file.
type Config struct {
	APIToken   EncryptedString `mapstructure:"api_token"`
	ZoneName   string          `mapstructure:"zone_name"`
	RecordName string          `mapstructure:"record_name"`
	LogFile    string          `mapstructure:"log_file"`
	LogLevel   string          `mapstructure:"log_level"`
	DryRun     bool            `mapstructure:"-"`
}

// Overrides carries flag values that take precedence over environment and
// config-file settings. A nil DryRun means the flag was not given.
type Overrides struct {
	ZoneName   string
	RecordName string
	LogFile    string
	LogLevel   string
	DryRun     *bool
}

func newViper() (*viper.Viper, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName(".cloudflare-ddns")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	_ = v.BindEnv("api_token", "CLOUDFLARE_API_TOKEN")
	_ = v.BindEnv("zone_name", "DDNS_ZONE_NAME")
	_ = v.BindEnv("record_name", "DDNS_DNS_NAME")
	_ = v.BindEnv("dry_run", "DDNS_DRY_RUN")
	_ = v.BindEnv("log_file", "DDNS_LOG_FILE")
	_ = v.BindEnv("log_level", "DDNS_LOG_LEVEL")

	v.SetDefault("dry_run", "1")
	v.SetDefault("log_file", "ddns.log")
	v.SetDefault("log_level", "info")

	return v, nil
}

func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func Load(ov Overrides) (Config, error) {
	// A .env next to the working directory is a convenience for scheduler
	// deployments; absence is fine.
	_ = godotenv.Load()

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	if err := readInConfig(v); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())); err != nil {
		return Config{}, err
	}
	cfg.DryRun = !dryRunDisabled(v.GetString("dry_run"))

	if ov.ZoneName != "" {
		cfg.ZoneName = ov.ZoneName
	}
	if ov.RecordName != "" {
		cfg.RecordName = ov.RecordName
	}
	if ov.LogFile != "" {
		cfg.LogFile = ov.LogFile
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
	if ov.DryRun != nil {
		cfg.DryRun = *ov.DryRun
	}

	return cfg, nil
}

// dryRunDisabled reports whether value explicitly turns real updates on.
// Anything other than 0/false/no keeps the default dry-run behavior.
func dryRunDisabled(value string) bool {
	switch strings.ToLower(value) {
	case "0", "false", "no":
		return true
	}
	return false
}

// SaveToken writes the API token to the config file, age-encrypted.
func SaveToken(token string) error {
	v, err := newViper()
	if err != nil {
		return err
	}
	if err := readInConfig(v); err != nil {
		return err
	}

	encrypted, err := EncryptedString(token).MarshalText()
	if err != nil {
		return err
	}
	v.Set("api_token", string(encrypted))

	if err := v.WriteConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v.SafeWriteConfig()
		}
		return err
	}
	return nil
}

// ClearToken removes the stored API token from the config file.
func ClearToken() error {
	v, err := newViper()
	if err != nil {
		return err
	}
	if err := readInConfig(v); err != nil {
		return err
	}
	if v.ConfigFileUsed() == "" {
		return nil
	}

	v.Set("api_token", "")
	return v.WriteConfig()
}
