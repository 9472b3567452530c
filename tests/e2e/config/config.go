package config

import (
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Embedded mode values.
const (
	EmbeddedAuto  = "auto"
	EmbeddedOn    = "true"
	EmbeddedOff   = "false"
	DefaultReset  = "/api/testing/reset"
	envPrefix     = "BLOG_E2E"
	dotEnvFile    = ".env"
	reachDialWait = 250 * time.Millisecond
)

// TestConfig holds all configuration for E2E tests
type TestConfig struct {
	FrontendURL string        `mapstructure:"frontend_url"`
	BackendURL  string        `mapstructure:"backend_url"`
	ResetPath   string        `mapstructure:"reset_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	Headless    bool          `mapstructure:"headless"`
	SlowMo      time.Duration `mapstructure:"slow_mo"`
	Screenshots bool          `mapstructure:"screenshots"`
	Videos      bool          `mapstructure:"videos"`
	Embedded    string        `mapstructure:"embedded"`
	ResultsDir  string        `mapstructure:"results_dir"`
}

var (
	loadOnce sync.Once
	loaded   *TestConfig
	loadErr  error
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("frontend_url", "http://localhost:5173")
	v.SetDefault("backend_url", "http://localhost:3003")
	v.SetDefault("reset_path", DefaultReset)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("wait_timeout", 10*time.Second)
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", time.Duration(0))
	v.SetDefault("screenshots", true)
	v.SetDefault("videos", false)
	v.SetDefault("embedded", EmbeddedAuto)
	v.SetDefault("results_dir", "./test-results")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Load builds a TestConfig from defaults, an optional dotenv file and
// BLOG_E2E_* environment variables. Environment variables win over the file.
func Load(dotEnvPath string) (*TestConfig, error) {
	v := newViper()

	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			v.SetConfigFile(dotEnvPath)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
			promoteDotEnvKeys(v)
		}
	}

	c := &TestConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// promoteDotEnvKeys maps BLOG_E2E_FOO=bar lines of a dotenv file onto the foo key.
// Dotenv keys are read verbatim (lowercased) by viper and do not go through the env prefix.
func promoteDotEnvKeys(v *viper.Viper) {
	prefix := strings.ToLower(envPrefix) + "_"
	for _, key := range v.AllKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if _, set := os.LookupEnv(strings.ToUpper(key)); set {
			continue
		}
		v.Set(name, v.Get(key))
	}
}

func (c *TestConfig) normalize() {
	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	c.Embedded = strings.ToLower(strings.TrimSpace(c.Embedded))
	if c.ResetPath == "" {
		c.ResetPath = DefaultReset
	}
}

// Validate rejects unusable settings.
func (c *TestConfig) Validate() error {
	for name, raw := range map[string]string{"frontend_url": c.FrontendURL, "backend_url": c.BackendURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("invalid " + name + ": " + raw)
		}
	}
	switch c.Embedded {
	case EmbeddedAuto, EmbeddedOn, EmbeddedOff:
	default:
		return errors.New("embedded must be one of auto, true, false")
	}
	if !strings.HasPrefix(c.ResetPath, "/") {
		return errors.New("reset_path must start with /")
	}
	if c.WaitTimeout <= 0 || c.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// ShouldEmbed reports whether the suite should start the reference app in-process.
func (c *TestConfig) ShouldEmbed() bool {
	switch c.Embedded {
	case EmbeddedOn:
		return true
	case EmbeddedOff:
		return false
	}
	return !Reachable(c.FrontendURL) || !Reachable(c.BackendURL)
}

// UseEmbedded points both URLs at one in-process server.
func (c *TestConfig) UseEmbedded(baseURL string) {
	c.FrontendURL = strings.TrimRight(baseURL, "/")
	c.BackendURL = c.FrontendURL
	c.Embedded = EmbeddedOn
}

// GetConfig returns the test configuration, loaded once from .env and the environment.
// A bad configuration is fatal for the whole suite.
func GetConfig() *TestConfig {
	loadOnce.Do(func() {
		loaded, loadErr = Load(dotEnvFile)
		if loadErr == nil {
			log.Printf("[e2e-config] Resolved FrontendURL=%s BackendURL=%s embedded=%s",
				loaded.FrontendURL, loaded.BackendURL, loaded.Embedded)
		}
	})
	if loadErr != nil {
		log.Fatalf("[e2e-config] invalid configuration: %v", loadErr)
	}
	return loaded
}

// Reachable reports whether base accepts a TCP connection and answers an HTTP GET.
func Reachable(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	d := net.Dialer{Timeout: reachDialWait}
	conn, err := d.Dial("tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()

	client := &http.Client{Timeout: 800 * time.Millisecond}
	resp, err := client.Get(base + "/")
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
