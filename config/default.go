package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

func defaultConfig() (Config, error) {
	var def Config

	err := toml.Unmarshal([]byte(DefaultCfg), &def)

	if err != nil {
		return Config{}, errors.Wrap(err, "parsing default config")
	}

	return def, nil
}

// DefaultCfg shows the default configuration of sheetcms
var DefaultCfg = `
[server]
	port = 8080
	allowed-origins = ["*"]
[log]
	level = "info"     # error, info, debug
	file = "-"         # stderr, or a filename
	formatter = "text" # text, json
	repo-call-duration = false
[source]
	url = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRnShLpqdGMWEby1DreBaPnqrX7gT3h1S9fcsug7vJCpSjdyb_k5hmZwaT91vvP5RiuW0d6ArbB5ATf/pub?output=csv"
	timeout = "5s"
	attempts = 3
	retry-delay = "1s"
	connect-timeout = "2s"
[cache]
	driver = "bolt"    # bolt, memory, sqlite3, postgres
	path = "./storage/cache.db"
	connect = ""       # dsn for the sql drivers
	key = "sheetcms-posts"
	ttl = "30m"
[parser]
	flag-match = "exact" # exact, fold
	default-tag = "General"
	default-image = "images/default.svg"
	default-span = "span1x1"
[refresh]
	interval = "5m"
`
