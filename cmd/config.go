package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/redmcp/client"
	"github.com/redmcp/logger"
)

const envPrefix = "REDMINE"

// Configuration keys. Each maps to REDMINE_<KEY> with dots as underscores.
const (
	keyURL        = "url"
	keyAPIKey     = "api_key"
	keyTimeout    = "timeout"
	keyMaxRetries = "max_retries"
	keyRetryDelay = "retry_delay"
	keyPageSize   = "page_size"
	keyLogLevel   = "log.level"
	keyLogFormat  = "log.format"
	keyStatusAddr = "status_addr"
	keyWorkers    = "workers"
)

func setDefaults(v *viper.Viper) {
	def := client.DefaultConf()
	v.SetDefault(keyTimeout, def.Policy.Timeout.Seconds())
	v.SetDefault(keyMaxRetries, def.Policy.MaxRetries)
	v.SetDefault(keyRetryDelay, def.Policy.BaseDelay.Seconds())
	v.SetDefault(keyPageSize, def.PageSize)

	logDef := logger.DefaultConf()
	v.SetDefault(keyLogLevel, logDef.Level)
	v.SetDefault(keyLogFormat, logDef.Format)

	v.SetDefault(keyStatusAddr, "")
	v.SetDefault(keyWorkers, 1)
}

// config is everything the serve command needs, read once at startup.
type config struct {
	Client     client.Conf
	Log        logger.Conf
	APIKey     string
	StatusAddr string
	Workers    int
}

func loadConfig(v *viper.Viper) (config, error) {
	conf := config{
		Client: client.Conf{
			BaseURL: strings.TrimSpace(v.GetString(keyURL)),
			Policy: client.RetryPolicy{
				MaxRetries: v.GetInt(keyMaxRetries),
			},
			PageSize: v.GetInt(keyPageSize),
		},
		Log: logger.Conf{
			Level:  v.GetString(keyLogLevel),
			Format: v.GetString(keyLogFormat),
		},
		APIKey:     strings.TrimSpace(v.GetString(keyAPIKey)),
		StatusAddr: v.GetString(keyStatusAddr),
		Workers:    v.GetInt(keyWorkers),
	}

	var err error
	if conf.Client.Policy.Timeout, err = seconds(v, keyTimeout); err != nil {
		return config{}, err
	}
	if conf.Client.Policy.BaseDelay, err = seconds(v, keyRetryDelay); err != nil {
		return config{}, err
	}

	if conf.Client.BaseURL == "" {
		return config{}, fmt.Errorf("%s_URL is not set", envPrefix)
	}
	if conf.APIKey == "" {
		return config{}, fmt.Errorf("%s_API_KEY is not set", envPrefix)
	}
	if _, err := conf.Client.Validate(); err != nil {
		return config{}, err
	}
	if conf.Workers < 1 {
		return config{}, fmt.Errorf("workers must be at least 1, got %d", conf.Workers)
	}
	return conf, nil
}

func seconds(v *viper.Viper, key string) (time.Duration, error) {
	s := v.GetFloat64(key)
	if math.IsNaN(s) || s <= 0 || s > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %q", key, v.GetString(key))
	}
	return time.Duration(s * float64(time.Second)), nil
}
