package configfinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads fitdemo.yaml from root and applies it over the defaults.
func LoadConfig(root string) (domain.Config, error) {
	return LoadConfigFile(filepath.Join(root, ConfigFile))
}

// LoadConfigFile is LoadConfig for an explicit file path.
func LoadConfigFile(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "configfinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, invalid(path, err)
	}

	f := y.Fitdemo
	if s := strings.TrimSpace(f.BaseURL); s != "" {
		cfg.BaseURL = s
	}
	if f.Delay != "" {
		d, err := time.ParseDuration(f.Delay)
		if err != nil || d < 0 {
			return cfg, invalid(path, fmt.Errorf("delay %q: must be a non-negative duration", f.Delay))
		}
		cfg.Delay = d
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil || d <= 0 {
			return cfg, invalid(path, fmt.Errorf("timeout %q: must be a positive duration", f.Timeout))
		}
		cfg.Timeout = d
	}
	if f.LogCapacity != nil {
		if *f.LogCapacity <= 0 {
			return cfg, invalid(path, fmt.Errorf("log_capacity must be positive, got %d", *f.LogCapacity))
		}
		cfg.LogCapacity = *f.LogCapacity
	}
	if f.Login.Username != "" {
		cfg.Login.Username = f.Login.Username
	}
	if f.Login.Password != "" {
		cfg.Login.Password = f.Login.Password
	}
	for id, ep := range f.Endpoints {
		ep = strings.TrimSpace(ep)
		if ep == "" {
			continue
		}
		if !strings.HasPrefix(ep, "/") {
			ep = "/" + ep
		}
		cfg.Endpoints[id] = ep
	}

	return cfg, nil
}

func invalid(path string, err error) error {
	return &domain.OpError{
		Op:   "configfinder.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  err,
	}
}

type yamlConfig struct {
	Fitdemo struct {
		BaseURL     string `yaml:"base_url"`
		Delay       string `yaml:"delay"`
		Timeout     string `yaml:"timeout"`
		LogCapacity *int   `yaml:"log_capacity"`

		Login struct {
			Username string `yaml:"username"`
			Password string `yaml:"password"`
		} `yaml:"login"`

		Endpoints map[string]string `yaml:"endpoints"`
	} `yaml:"fitdemo"`
}
