package main

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/optimode/emailcheck"
	"github.com/optimode/emailcheck/resolver"
	"github.com/optimode/emailcheck/tld"
)

// Config is the file form of the command-line options.
//
//	workers = 10
//	cache_ttl = "10m"
//	nameservers = ["1.1.1.1", "8.8.8.8:53"]
//
//	[checks]
//	mx = false
//
//	[mx]
//	timeout = "500ms"
//	max_attempts = 2
type Config struct {
	Checks      emailcheck.Options   `toml:"checks"`
	MX          emailcheck.MXOptions `toml:"mx"`
	Nameservers []string             `toml:"nameservers"`
	TLDFile     string               `toml:"tld_file"`
	Workers     int                  `toml:"workers"`
	CacheTTL    time.Duration        `toml:"cache_ttl"`
}

func defaultConfig() Config {
	return Config{
		Checks:   emailcheck.DefaultOptions(),
		MX:       emailcheck.DefaultMXOptions(),
		Workers:  5,
		CacheTTL: 5 * time.Minute,
	}
}

// loadConfig returns the defaults overlaid with the file at path, if any.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	md, err := toml.Decode(string(content), &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// applyArgs lets flags given on the command line override the file.
func (c *Config) applyArgs(a args) {
	if a.NoRegexp {
		c.Checks.Regexp = false
	}
	if a.NoTLD {
		c.Checks.TLD = false
	}
	if a.NoMX {
		c.Checks.MX = false
	}
	if a.Timeout > 0 {
		c.MX.Timeout = a.Timeout
	}
	if a.MaxAttempts != nil {
		c.MX.MaxAttempts = *a.MaxAttempts
	}
	if len(a.Nameservers) > 0 {
		c.Nameservers = a.Nameservers
	}
	if a.TLDFile != "" {
		c.TLDFile = a.TLDFile
	}
	if a.Workers > 0 {
		c.Workers = a.Workers
	}
	if a.CacheTTL != nil {
		c.CacheTTL = *a.CacheTTL
	}
}

func buildValidator(cfg Config) (*emailcheck.Validator, error) {
	v := emailcheck.New().WithMXOptions(cfg.MX)

	if len(cfg.Nameservers) > 0 {
		v.WithResolver(resolver.NewDirect(cfg.Nameservers...))
	}

	if cfg.TLDFile != "" {
		f, err := os.Open(cfg.TLDFile)
		if err != nil {
			return nil, errors.Wrap(err, "opening TLD list")
		}
		defer f.Close()

		list, err := tld.Parse(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing TLD list %s", cfg.TLDFile)
		}
		if list.Len() == 0 {
			return nil, errors.Errorf("TLD list %s is empty", cfg.TLDFile)
		}
		v.WithTLDList(list)
	}

	if cfg.CacheTTL > 0 {
		v.WithCache(cfg.CacheTTL)
	}
	return v, nil
}
