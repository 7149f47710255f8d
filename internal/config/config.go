package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

// Data source kinds.
const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
	SourceRemote = "remote"
)

type Conf struct {
	Env       string    `mapstructure:"env"`
	Log       Log       `mapstructure:"log"`
	Data      Data      `mapstructure:"data"`
	Remote    Remote    `mapstructure:"remote"`
	Server    Server    `mapstructure:"server"`
	Favorites Favorites `mapstructure:"favorites"`
	Map       Map       `mapstructure:"map"`
	UI        UI        `mapstructure:"ui"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Data struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
	DSN    string `mapstructure:"dsn"`
}

type Remote struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Server struct {
	Addr  string `mapstructure:"addr"`
	Token string `mapstructure:"token"`
}

type Favorites struct {
	OnFailure string `mapstructure:"on-failure"`
}

type Map struct {
	Center LatLng `mapstructure:"center"`
	Zoom   int    `mapstructure:"zoom"`
}

type UI struct {
	Theme string `mapstructure:"theme"`
}

type LatLng struct {
	Lat float64 `mapstructure:"lat"`
	Lng float64 `mapstructure:"lng"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", Development)
	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "restaurants.log")
	v.SetDefault("data.source", SourceJSON)
	v.SetDefault("data.file", "data/restaurants.json")
	v.SetDefault("data.dsn", "restaurants.db")
	v.SetDefault("remote.url", "http://127.0.0.1:1337")
	v.SetDefault("remote.timeout", 5*time.Second)
	v.SetDefault("server.addr", ":1337")
	v.SetDefault("server.token", "")
	v.SetDefault("favorites.on-failure", "keep")
	v.SetDefault("map.center.lat", 40.722216)
	v.SetDefault("map.center.lng", -73.987501)
	v.SetDefault("map.zoom", 12)
	v.SetDefault("ui.theme", "classic")
}

// Load reads .env (if any), the config file (explicit path, or
// restaurants.yaml in . and ~/.restaurants) and RESTAURANTS_* variables.
func Load(path string) (*Conf, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RESTAURANTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("restaurants")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".restaurants"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Conf
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated settings.
func (c *Conf) Validate() error {
	switch c.Env {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("config: unknown env %q", c.Env)
	}
	switch c.Data.Source {
	case SourceJSON, SourceSQLite, SourceRemote:
	default:
		return fmt.Errorf("config: unknown data.source %q", c.Data.Source)
	}
	switch strings.ToLower(c.Favorites.OnFailure) {
	case "keep", "revert":
	default:
		return fmt.Errorf("config: favorites.on-failure must be keep or revert, got %q", c.Favorites.OnFailure)
	}
	switch strings.ToLower(c.UI.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("config: unknown ui.theme %q", c.UI.Theme)
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("config: remote.timeout must be positive")
	}
	return nil
}
