package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nDmitry/iainsufeed/internal/entity"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Default returns the configuration used when nothing else is set.
func Default() *entity.Config {
	return &entity.Config{
		HomepageURL: "https://iainsurakarta.ac.id/",
		BaseURL:     "https://iainsurakarta.ac.id",
		MaxArticles: 10,
		Category:    "Artikel",
		Feed: entity.FeedConfig{
			Title:       "IAINSU - Manfaat dan Kesehatan",
			Description: "RSS Feed artikel dari iainsurakarta.ac.id dengan konten lengkap",
			Link:        "https://iainsurakarta.ac.id",
			Language:    "id",
			Generator:   "IAINSU RSS Scraper",
		},
		OutputPath:    "docs/feed.xml",
		Transport:     entity.TransportHTTP,
		RequestDelay:  2,
		Retries:       3,
		ChallengeWait: 10,
	}
}

// Read builds the configuration from defaults, the optional file at
// configPath and environment variables, in that order of precedence.
func Read(configPath string) (*entity.Config, error) {
	config := Default()

	if configPath != "" {
		if err := readFile(configPath, config); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(config, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func readFile(configPath string, config *entity.Config) error {
	contents, err := os.ReadFile(configPath)

	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(contents, config)
	default:
		err = json.Unmarshal(contents, config)
	}

	if err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}

	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(config *entity.Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"FEED_HOMEPAGE_URL": &config.HomepageURL,
		"FEED_BASE_URL":     &config.BaseURL,
		"FEED_OUTPUT_PATH":  &config.OutputPath,
		"FEED_ATOM_PATH":    &config.AtomPath,
		"FEED_JSON_PATH":    &config.JSONPath,
		"FEED_TRANSPORT":    &config.Transport,
		"FEED_SCHEDULE":     &config.Schedule,
		"FEED_USER_AGENT":   &config.UserAgent,
		"PROXY_HOST":        &config.Proxy.Host,
		"PROXY_PORT":        &config.Proxy.Port,
		"PROXY_USERNAME":    &config.Proxy.Username,
		"PROXY_PASSWORD":    &config.Proxy.Password,
		"REDIS_ADDR":        &config.RedisAddr,
		"S3_BUCKET":         &config.S3.Bucket,
		"S3_KEY":            &config.S3.Key,
		"S3_REGION":         &config.S3.Region,
		"CHROME_PATH":       &config.ChromePath,
	}

	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"FEED_MAX_ARTICLES": &config.MaxArticles,
		"CACHE_TTL_MINUTES": &config.CacheTTL,
	}

	for key, dst := range ints {
		v, ok := lookup(key)

		if !ok || strings.TrimSpace(v) == "" {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))

		if err != nil {
			return fmt.Errorf("%w: %s is not a number: %q", ErrInvalidConfig, key, v)
		}

		*dst = n
	}

	if v, ok := lookup("FEED_STRICT_GUID"); ok && strings.TrimSpace(v) != "" {
		strict, err := strconv.ParseBool(strings.TrimSpace(v))

		if err != nil {
			return fmt.Errorf("%w: FEED_STRICT_GUID is not a boolean: %q", ErrInvalidConfig, v)
		}

		config.StrictGUID = strict
	}

	return nil
}

// Validate reports the first problem that would prevent a run.
func Validate(config *entity.Config) error {
	if err := validateURL("homepage URL", config.HomepageURL); err != nil {
		return err
	}

	if err := validateURL("base URL", config.BaseURL); err != nil {
		return err
	}

	if config.MaxArticles < 1 {
		return fmt.Errorf("%w: max articles must be positive, got %d", ErrInvalidConfig, config.MaxArticles)
	}

	if config.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}

	switch config.Transport {
	case entity.TransportHTTP, entity.TransportBrowser:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, config.Transport)
	}

	if config.Retries < 1 {
		return fmt.Errorf("%w: retries must be positive, got %d", ErrInvalidConfig, config.Retries)
	}

	if config.RequestDelay < 0 || config.ChallengeWait < 0 || config.CacheTTL < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}

	if config.S3.Bucket != "" && config.S3.Key == "" {
		return fmt.Errorf("%w: S3 bucket %s has no object key", ErrInvalidConfig, config.S3.Bucket)
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidConfig, name, raw)
	}

	return nil
}
