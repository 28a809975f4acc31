package config

import (
	"io"
	"os"
	"time"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type Server struct {
	Address        string   `toml:"address"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed-origins"`
}

type Log struct {
	Level            string `toml:"level"`
	File             string `toml:"file"`
	Formatter        string `toml:"formatter"`
	RepoCallDuration bool   `toml:"repo-call-duration"`

	Converted struct {
		Writer io.Writer
	} `toml:"-"`
}

type Source struct {
	URL            string `toml:"url"`
	Timeout        string `toml:"timeout"`
	Attempts       int    `toml:"attempts"`
	RetryDelay     string `toml:"retry-delay"`
	ConnectTimeout string `toml:"connect-timeout"`

	Converted struct {
		Timeout        time.Duration
		RetryDelay     time.Duration
		ConnectTimeout time.Duration
	} `toml:"-"`
}

type Cache struct {
	Driver  string `toml:"driver"`
	Path    string `toml:"path"`
	Connect string `toml:"connect"`
	Key     string `toml:"key"`
	TTL     string `toml:"ttl"`

	Converted struct {
		TTL time.Duration
	} `toml:"-"`
}

type Parser struct {
	FlagMatch    string `toml:"flag-match"`
	DefaultTag   string `toml:"default-tag"`
	DefaultImage string `toml:"default-image"`
	DefaultSpan  string `toml:"default-span"`
}

type Refresh struct {
	Interval string `toml:"interval"`

	Converted struct {
		Interval time.Duration
	} `toml:"-"`
}

type converter interface {
	Convert()
}

func (c *Log) Convert() {
	if c.File == "-" || c.File == "" {
		c.Converted.Writer = os.Stderr
	} else {
		c.Converted.Writer = &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     28,
		}
	}
}

func (c *Source) Convert() {
	c.Converted.Timeout = parseDuration(c.Timeout, 5*time.Second)
	c.Converted.RetryDelay = parseDuration(c.RetryDelay, time.Second)
	c.Converted.ConnectTimeout = parseDuration(c.ConnectTimeout, 2*time.Second)

	if c.Attempts < 1 {
		c.Attempts = 3
	}
}

func (c *Cache) Convert() {
	c.Converted.TTL = parseDuration(c.TTL, 30*time.Minute)
}

func (c *Parser) Convert() {
	if c.FlagMatch == "" {
		c.FlagMatch = "exact"
	}
}

func (c *Refresh) Convert() {
	c.Converted.Interval = parseDuration(c.Interval, 5*time.Minute)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
