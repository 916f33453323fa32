package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL     string `yaml:"url" mapstructure:"url"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}
type Gemini struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"`
}
type Services struct {
	Sentiment     Service `yaml:"sentiment" mapstructure:"sentiment"`
	Visualization Service `yaml:"visualization" mapstructure:"visualization"`
	Gemini        Gemini  `yaml:"gemini" mapstructure:"gemini"`
}
type Audio struct {
	FFmpegBin  string `yaml:"ffmpeg_bin" mapstructure:"ffmpeg_bin"`
	FFprobeBin string `yaml:"ffprobe_bin" mapstructure:"ffprobe_bin"`
}
type Sentiment struct {
	// Engine is "lexicon" or "remote".
	Engine string `yaml:"engine" mapstructure:"engine"`
}
type Root struct {
	Pipeline struct {
		Name      string `yaml:"name" mapstructure:"name"`
		Version   string `yaml:"version" mapstructure:"version"`
		LogLvl    string `yaml:"log_level" mapstructure:"log_level"`
		LogFormat string `yaml:"log_format" mapstructure:"log_format"`
	} `yaml:"pipeline" mapstructure:"pipeline"`
	Audio     Audio     `yaml:"audio" mapstructure:"audio"`
	Sentiment Sentiment `yaml:"sentiment" mapstructure:"sentiment"`
	Services  Services  `yaml:"services" mapstructure:"services"`
	Paths     struct {
		Data    string `yaml:"data" mapstructure:"data"`
		Outputs string `yaml:"outputs" mapstructure:"outputs"`
	} `yaml:"paths" mapstructure:"paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "tki-conflict")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.log_format", "text")
	v.SetDefault("audio.ffmpeg_bin", "ffmpeg")
	v.SetDefault("audio.ffprobe_bin", "ffprobe")
	v.SetDefault("sentiment.engine", "lexicon")
	v.SetDefault("services.sentiment.url", "")
	v.SetDefault("services.sentiment.timeout", 10)
	v.SetDefault("services.visualization.url", "")
	v.SetDefault("services.visualization.timeout", 60)
	v.SetDefault("services.gemini.api_key", "")
	v.SetDefault("services.gemini.model", "gemini-2.0-flash")
	v.SetDefault("services.gemini.timeout", 60)
	v.SetDefault("paths.data", "data")
	v.SetDefault("paths.outputs", "outputs")
}

// Load reads the configuration from path, or when path is empty from the
// first of config/<CONFIG_ENV>/config.yaml and src/shared/config.yaml that
// exists. Without any file the defaults apply. Environment variables
// prefixed with TKI_ override file values; GOOGLE_API_KEY sets the Gemini
// key.
func Load(path string) (*Root, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("TKI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("services.gemini.api_key", "TKI_SERVICES_GEMINI_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return nil, err
	}

	if path == "" {
		path = findConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfig() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	var guess []string = []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("src", "shared", "config.yaml"),
	}
	for _, p := range guess {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Root) validate() error {
	switch c.Sentiment.Engine {
	case "lexicon":
	case "remote":
		if c.Services.Sentiment.URL == "" {
			return errors.New("config: sentiment.engine remote needs services.sentiment.url")
		}
	default:
		return errors.New("config: sentiment.engine must be lexicon or remote, got " + c.Sentiment.Engine)
	}
	return nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
