package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name   string
	Env    string
	Author string // shown in the navbar when set
	HTTP   HTTP
}

type FileLog struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileLog
}

// Remote is the upstream REST API the dashboard reads users and posts from.
type Remote struct {
	BaseURL    string
	TimeoutSec int
}

type Dashboard struct {
	PostsPerPage      int
	DiscardStaleLoads bool
	SessionIdleMin    int
	SettleWaitMs      int
}

type Session struct {
	Secret     string
	Issuer     string
	TTLMin     int
	CookieName string
	Secure     bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Enabled bool
	TTLSec  int
}

type Limits struct {
	RPS           float64
	Burst         int
	MaxConcurrent int64
	MaxBodyBytes  int64
	TimeoutSec    int
}

type Config struct {
	App       App
	Log       Log
	Remote    Remote
	Dashboard Dashboard
	Session   Session
	Redis     Redis `mapstructure:"redis"`
	Cache     Cache
	Limits    Limits
}

func (r Remote) Timeout() time.Duration { return time.Duration(r.TimeoutSec) * time.Second }

func (d Dashboard) SessionIdle() time.Duration {
	return time.Duration(d.SessionIdleMin) * time.Minute
}

func (d Dashboard) SettleWait() time.Duration {
	return time.Duration(d.SettleWaitMs) * time.Millisecond
}

func (s Session) TTL() time.Duration { return time.Duration(s.TTLMin) * time.Minute }

func (c Cache) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Social Media Analytics")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.author", "")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.compress", false)
	v.SetDefault("log.file.filename", "logs/dashboard.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)

	v.SetDefault("remote.baseurl", "https://jsonplaceholder.typicode.com")
	v.SetDefault("remote.timeoutsec", 10)

	v.SetDefault("dashboard.postsperpage", 5)
	v.SetDefault("dashboard.discardstaleloads", false)
	v.SetDefault("dashboard.sessionidlemin", 30)
	v.SetDefault("dashboard.settlewaitms", 1500)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.issuer", "social-dashboard")
	v.SetDefault("session.ttlmin", 24*60)
	v.SetDefault("session.cookiename", "dash_session")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttlsec", 60)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.timeoutsec", 10)
}

// Load reads the YAML file at path (or CONFIG_PATH) and applies APP_* env overrides.
// A missing default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = defaultPath
			explicit = false
		}
	}
	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Dashboard.PostsPerPage <= 0 {
		return errors.New("config: dashboard.postsperpage must be positive")
	}
	if strings.TrimSpace(c.Remote.BaseURL) == "" {
		return errors.New("config: remote.baseurl is required")
	}
	if c.Cache.Enabled && c.Redis.Addr == "" {
		return errors.New("config: cache.enabled requires redis.addr")
	}
	return nil
}
