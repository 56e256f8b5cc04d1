package commands

import (
	"os"
	"time"

	"mirrorfeed/internal/policy"
	"mirrorfeed/internal/scraper/nitter"
	"mirrorfeed/lib/configutil"
)

type ScraperConfig struct {
	Mirrors           []string `json:"mirrors"`
	UserAgent         string   `json:"user_agent"`
	TimeoutSeconds    int      `json:"timeout_seconds"`
	MaxItems          int      `json:"max_items"`
	MinSnippetLength  int      `json:"min_snippet_length"`
	RequestsPerSecond float64  `json:"requests_per_second"`
}

type Config struct {
	AccountsFile        string        `json:"accounts_file"`
	FeedsDir            string        `json:"feeds_dir"`
	StateDir            string        `json:"state_dir"`
	HistoryDatabase     string        `json:"history_database"`
	PublicBaseUrl       string        `json:"public_base_url"`
	AccountDelaySeconds int           `json:"account_delay_seconds"`
	KeepAliveHours      int           `json:"keep_alive_hours"`
	MaxFailures         int           `json:"max_failures"`
	Scraper             ScraperConfig `json:"scraper"`
}

// readConfig loads mirrorfeed.json5 (with the usual .local override).
// A missing config file is fine, every field has a usable default.
func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config]("mirrorfeed.json5")
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}

	if cfg.AccountsFile == "" {
		cfg.AccountsFile = "users.txt"
	}
	if cfg.FeedsDir == "" {
		cfg.FeedsDir = "feeds"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "state"
	}
	if cfg.HistoryDatabase == "" {
		cfg.HistoryDatabase = "history.db"
	}
	if cfg.AccountDelaySeconds == 0 {
		cfg.AccountDelaySeconds = 2
	}

	return cfg, nil
}

func (c Config) scraperOptions() nitter.ClientOptions {
	return nitter.ClientOptions{
		Mirrors:           c.Scraper.Mirrors,
		UserAgent:         c.Scraper.UserAgent,
		Timeout:           time.Duration(c.Scraper.TimeoutSeconds) * time.Second,
		MaxItems:          c.Scraper.MaxItems,
		MinSnippetLength:  c.Scraper.MinSnippetLength,
		RequestsPerSecond: c.Scraper.RequestsPerSecond,
	}
}

func (c Config) policy() policy.Policy {
	p := policy.Default()
	if c.KeepAliveHours > 0 {
		p.KeepAlive = time.Duration(c.KeepAliveHours) * time.Hour
	}
	if c.MaxFailures > 0 {
		p.MaxFailures = c.MaxFailures
	}
	return p
}
