package config

import (
	"io/ioutil"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the sheetcms configuration
type Config struct {
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
	Source  Source  `toml:"source"`
	Cache   Cache   `toml:"cache"`
	Parser  Parser  `toml:"parser"`
	Refresh Refresh `toml:"refresh"`
}

// Read loads the config data from the given path. Values from the
// environment take precedence over the file.
func Read(path string) (Config, error) {
	c, err := defaultConfig()

	if err != nil {
		return Config{}, errors.WithMessage(err, "initializing default config")
	}

	if path != "" {
		b, err := ioutil.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "reading config from %s", path)
		}

		if err == nil {
			if err = toml.Unmarshal(b, &c); err != nil {
				return Config{}, errors.Wrapf(err, "unmarshaling toml config from %s", path)
			}
		}
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	c.convert()

	return c, nil
}

func (c *Config) convert() {
	for _, p := range []converter{&c.Log, &c.Source, &c.Cache, &c.Parser, &c.Refresh} {
		p.Convert()
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SHEETCMS_SOURCE_URL"); ok {
		c.Source.URL = v
	}

	if v, ok := lookup("SHEETCMS_CACHE_DRIVER"); ok {
		c.Cache.Driver = v
	}

	if v, ok := lookup("SHEETCMS_CACHE_PATH"); ok {
		c.Cache.Path = v
	}

	if v, ok := lookup("SHEETCMS_LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	if v, ok := lookup("SHEETCMS_SERVER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parsing SHEETCMS_SERVER_PORT %q", v)
		}
		c.Server.Port = port
	}

	return nil
}
