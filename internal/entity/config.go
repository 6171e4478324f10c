package entity

import (
	"net"
	"net/url"
)

const (
	TransportHTTP    = "http"
	TransportBrowser = "browser"
)

type Config struct {
	HomepageURL string `json:"homepageUrl" yaml:"homepage_url"`
	// Base for resolving relative article links.
	BaseURL     string `json:"baseUrl" yaml:"base_url"`
	MaxArticles int    `json:"maxArticles" yaml:"max_articles"`
	Category    string `json:"category" yaml:"category"`

	Feed       FeedConfig `json:"feed" yaml:"feed"`
	OutputPath string     `json:"outputPath" yaml:"output_path"`
	AtomPath   string     `json:"atomPath" yaml:"atom_path"`
	JSONPath   string     `json:"jsonPath" yaml:"json_path"`
	// Emit isPermaLink="false" for digest based GUIDs.
	StrictGUID bool `json:"strictGuid" yaml:"strict_guid"`

	Transport string `json:"transport" yaml:"transport"`
	// In seconds.
	RequestDelay int `json:"requestDelaySeconds" yaml:"request_delay_seconds"`
	Retries      int `json:"retries" yaml:"retries"`
	// In seconds.
	ChallengeWait    int      `json:"challengeWaitSeconds" yaml:"challenge_wait_seconds"`
	ChallengeMarkers []string `json:"challengeMarkers" yaml:"challenge_markers"`
	UserAgent        string   `json:"userAgent" yaml:"user_agent"`
	ChromePath       string   `json:"chromePath" yaml:"chrome_path"`
	Proxy            Proxy    `json:"proxy" yaml:"proxy"`

	RedisAddr string `json:"redisAddr" yaml:"redis_addr"`
	// In minutes, 0 disables the page cache.
	CacheTTL int `json:"cacheTtlMinutes" yaml:"cache_ttl_minutes"`

	S3 S3Config `json:"s3" yaml:"s3"`

	// Cron expression, empty runs once and exits.
	Schedule string `json:"schedule" yaml:"schedule"`
}

type FeedConfig struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
	Language    string `json:"language" yaml:"language"`
	Generator   string `json:"generator" yaml:"generator"`
}

type Proxy struct {
	Host     string `json:"host" yaml:"host"`
	Port     string `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

type S3Config struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
	Region string `json:"region" yaml:"region"`
}

// Meta converts the feed section into channel metadata.
func (c FeedConfig) Meta() FeedMeta {
	return FeedMeta{
		Title:       c.Title,
		Description: c.Description,
		Link:        c.Link,
		Language:    c.Language,
		Generator:   c.Generator,
	}
}

// Enabled reports whether enough is configured to route traffic through the proxy.
func (p Proxy) Enabled() bool {
	return p.Host != "" && p.Port != ""
}

func (p Proxy) HasCredentials() bool {
	return p.Username != "" || p.Password != ""
}

// Server returns host:port.
func (p Proxy) Server() string {
	return net.JoinHostPort(p.Host, p.Port)
}

// URL returns the proxy URL with credentials, or "" when the proxy is disabled.
func (p Proxy) URL() string {
	if !p.Enabled() {
		return ""
	}

	u := &url.URL{Scheme: "http", Host: p.Server()}

	if p.HasCredentials() {
		u.User = url.UserPassword(p.Username, p.Password)
	}

	return u.String()
}
