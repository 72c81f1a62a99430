package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures the account to show, credentials, and how the canvas is drawn and output.
type Config struct {
	Account     AccountConfig     `yaml:"account"`
	Credentials CredentialsConfig `yaml:"credentials"`
	API         APIConfig         `yaml:"api"`
	Display     DisplayConfig     `yaml:"display"`
	Layout      LayoutConfig      `yaml:"layout"`
	Inky        InkyConfig        `yaml:"inky"`
	Quote0      Quote0Config      `yaml:"quote0"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type AccountConfig struct {
	// Handle without the @
	Username string `yaml:"username"`
	// 1 is the latest tweet
	Nth int `yaml:"nth"`
}

type CredentialsConfig struct {
	// X API v2 bearer token. If empty, read from env X_BEARER_TOKEN
	BearerToken string `yaml:"bearerToken"`
	// OAuth1.0a credentials for v1.1 timelines
	ConsumerKey    string `yaml:"consumerKey"`
	ConsumerSecret string `yaml:"consumerSecret"`
	AccessToken    string `yaml:"accessToken"`
	AccessSecret   string `yaml:"accessSecret"`
}

type APIConfig struct {
	// "v1" (OAuth1 user_timeline) or "v2" (bearer token)
	Version string `yaml:"version"`
	// Statuses requested per fetch; raised to nth when smaller
	Count int `yaml:"count"`
}

// Display modes.
const (
	ModeFile   = "file"
	ModeInky   = "inky"
	ModeQuote0 = "quote0"
)

type DisplayConfig struct {
	Mode   string `yaml:"mode"`
	Colour string `yaml:"colour"`
	// PNG path for file mode
	Output string `yaml:"output"`
	// Canvas size for file mode; hardware sinks report their own
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Border string `yaml:"border"`
}

type LayoutConfig struct {
	TweetFont       string  `yaml:"tweetFont"`
	AccountFont     string  `yaml:"accountFont"`
	StatsFont       string  `yaml:"statsFont"`
	TweetFontSize   float64 `yaml:"tweetFontSize"`
	AccountFontSize float64 `yaml:"accountFontSize"`
	StatsFontSize   float64 `yaml:"statsFontSize"`
	BannerHeight    int     `yaml:"bannerHeight"`
	BorderThickness int     `yaml:"borderThickness"`
	Padding         int     `yaml:"padding"`
	RetweetIcon     string  `yaml:"retweetIcon"`
	LikeIcon        string  `yaml:"likeIcon"`
	Dither          bool    `yaml:"dither"`
}

type InkyConfig struct {
	// "what" or "phat"
	Model    string `yaml:"model"`
	SPIPort  string `yaml:"spiPort"`
	DCPin    string `yaml:"dcPin"`
	ResetPin string `yaml:"resetPin"`
	BusyPin  string `yaml:"busyPin"`
}

type Quote0Config struct {
	// If empty, read from env QUOTE0_TOKEN / QUOTE0_DEVICE
	Token    string `yaml:"token"`
	DeviceID string `yaml:"deviceId"`
	BaseURL  string `yaml:"baseUrl"`
}

type MetricsConfig struct {
	// node_exporter textfile path; empty disables
	Textfile string `yaml:"textfile"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Account: AccountConfig{Username: "unsplash", Nth: 1},
		API:     APIConfig{Version: "v1", Count: 20},
		Display: DisplayConfig{Mode: ModeInky, Colour: "yellow", Output: "debug.png", Width: 400, Height: 300, Border: "white"},
		Layout: LayoutConfig{
			TweetFontSize:   16,
			AccountFontSize: 20,
			StatsFontSize:   24,
			BannerHeight:    40,
			BorderThickness: 1,
			Padding:         5,
		},
		Inky:   InkyConfig{Model: "what", DCPin: "22", ResetPin: "27", BusyPin: "17"},
		Quote0: Quote0Config{BaseURL: "https://dot.mindreset.tech"},
	}
}

// LoadDotEnv loads KEY=value pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&c.Credentials.BearerToken, "X_BEARER_TOKEN")
	fill(&c.Credentials.ConsumerKey, "X_CONSUMER_KEY")
	fill(&c.Credentials.ConsumerSecret, "X_CONSUMER_SECRET")
	fill(&c.Credentials.AccessToken, "X_ACCESS_TOKEN")
	fill(&c.Credentials.AccessSecret, "X_ACCESS_SECRET")
	fill(&c.Quote0.Token, "QUOTE0_TOKEN")
	fill(&c.Quote0.DeviceID, "QUOTE0_DEVICE")
}

// Validate checks values the renderer cannot recover from.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Account.Username) == "" {
		errs = append(errs, errors.New("account.username is required"))
	}
	if c.Account.Nth < 1 {
		errs = append(errs, fmt.Errorf("account.nth must be >= 1, got %d", c.Account.Nth))
	}
	switch strings.ToLower(c.Display.Colour) {
	case "red", "yellow":
	default:
		errs = append(errs, fmt.Errorf("display.colour must be red or yellow, got %q", c.Display.Colour))
	}
	switch strings.ToLower(strings.TrimSpace(c.Display.Border)) {
	case "", "white", "black", "red", "yellow":
	default:
		errs = append(errs, fmt.Errorf("display.border must be white, black, red or yellow, got %q", c.Display.Border))
	}
	switch c.Display.Mode {
	case ModeFile:
		if c.Display.Output == "" {
			errs = append(errs, errors.New("display.output is required in file mode"))
		}
		if c.Display.Width <= 0 || c.Display.Height <= 0 {
			errs = append(errs, fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height))
		}
	case ModeInky, ModeQuote0:
	default:
		errs = append(errs, fmt.Errorf("display.mode must be file, inky or quote0, got %q", c.Display.Mode))
	}
	switch c.API.Version {
	case "v1", "v2":
	default:
		errs = append(errs, fmt.Errorf("api.version must be v1 or v2, got %q", c.API.Version))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
