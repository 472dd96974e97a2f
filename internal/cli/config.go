package cli

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds CLI configuration, read from runway.yaml and RUNWAY_*
// environment variables.
type Config struct {
	// Tenant is the default tenant when --tenant is not supplied.
	Tenant string `mapstructure:"tenant"`

	// TemplateURL points at a directory of YAML template definitions.
	TemplateURL string `mapstructure:"template_url"`

	// RunStoreURL points at a directory where run state is persisted as
	// JSON; empty keeps runs in memory for the life of the process.
	RunStoreURL string `mapstructure:"run_store_url"`

	// Workers is the dispatcher worker count.
	Workers int `mapstructure:"workers"`

	// StepDelay slows each auto step down, making progress observable.
	StepDelay time.Duration `mapstructure:"step_delay"`

	// TraceFile enables tracing and directs spans to the given file.
	TraceFile string `mapstructure:"trace_file"`
}

// LoadConfig loads configuration from the optional config file and the
// environment. A missing file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("runway")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.runway")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	v.SetEnvPrefix("RUNWAY")
	v.AutomaticEnv()

	v.SetDefault("tenant", "default")
	v.SetDefault("template_url", "templates")
	v.SetDefault("workers", 5)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}
	return config, nil
}
