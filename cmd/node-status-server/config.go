package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/EternisAI/node-status-server/internal/api/http"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Http      http.Config     `mapstructure:"http"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Node      NodeConfig      `mapstructure:"node"`
}

// DashboardConfig controls the optional Node Manager page listener.
type DashboardConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    uint   `mapstructure:"port"`
}

func (c DashboardConfig) Addr() string {
	return http.Config{Host: c.Host, Port: c.Port}.Addr()
}

type NodeConfig struct {
	CredentialFile string        `mapstructure:"credential_file"`
	MarkerFile     string        `mapstructure:"marker_file"`
	StatusCommand  []string      `mapstructure:"status_command"`
	SetupCommand   []string      `mapstructure:"setup_command"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

var config Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", LOG_LEVEL_INFO)
	v.SetDefault("http.host", http.DefaultHost)
	v.SetDefault("http.port", http.DefaultPort)
	v.SetDefault("dashboard.enabled", false)
	v.SetDefault("dashboard.host", http.DefaultHost)
	v.SetDefault("dashboard.port", http.DefaultDashboardPort)
	v.SetDefault("node.credential_file", node.DefaultCredentialFile)
	v.SetDefault("node.marker_file", node.DefaultMarkerFile)
	v.SetDefault("node.status_command", node.DefaultStatusCommand)
	v.SetDefault("node.setup_command", node.DefaultSetupCommand)
	v.SetDefault("node.command_timeout", time.Duration(0))
}

// loadConfig reads application.yaml from the given paths. A missing file is
// not an error: the defaults describe a complete configuration.
func loadConfig(v *viper.Viper, paths ...string) (Config, error) {
	var cfg Config

	setDefaults(v)
	v.SetConfigName("application")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToArgvHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// stringToArgvHookFunc splits a string into a []string on whitespace, so
// NODE_STATUS_COMMAND="sudo gala-node status" becomes a three-element argv.
func stringToArgvHookFunc() mapstructure.DecodeHookFuncType {
	argvType := reflect.TypeOf([]string{})
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != argvType {
			return data, nil
		}
		return strings.Fields(data.(string)), nil
	}
}

func InitConfig() {
	var err error

	_ = godotenv.Load()

	config, err = loadConfig(viper.GetViper(), ".", "./cmd/node-status-server")
	if err != nil {
		panic(err)
	}

	// Initialize logger with configured log level
	initLogger(config.Log.Level)

	// Pretty print config as JSON (only at DEBUG level)
	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		configJSON, err := json.MarshalIndent(config, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}
