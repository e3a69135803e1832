package config

import (
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/hf-downloader/internal/engine"
	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyRateLimitEnabled   = "rate_limit_enabled"
	KeyRateLimit          = "rate_limit_value"
	KeyEnginePath         = "aria2c_path"
	KeyConnections        = "connections_per_file"
	KeyEndpoint           = "hub_endpoint"
	KeyToken              = "hub_token"
	KeyRevision           = "hub_revision"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultRateLimit          = "2M"
	DefaultConnections        = engine.DefaultConnections
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "hf-downloads")
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, strings.TrimSpace(dir))
}

// GetRateLimitEnabled returns whether the rate limit is applied
func (s *Settings) GetRateLimitEnabled() bool {
	return s.app.Preferences().Bool(KeyRateLimitEnabled)
}

// SetRateLimitEnabled toggles the rate limit
func (s *Settings) SetRateLimitEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyRateLimitEnabled, enabled)
}

// GetRateLimit returns the stored rate limit text
func (s *Settings) GetRateLimit() string {
	return s.app.Preferences().StringWithFallback(KeyRateLimit, DefaultRateLimit)
}

// SetRateLimit stores the rate limit text as typed
func (s *Settings) SetRateLimit(limit string) {
	s.app.Preferences().SetString(KeyRateLimit, strings.TrimSpace(limit))
}

// EffectiveRateLimit returns the limit to pass to the engine, empty when disabled
func (s *Settings) EffectiveRateLimit() string {
	if !s.GetRateLimitEnabled() {
		return ""
	}
	return s.GetRateLimit()
}

// GetEnginePath returns the explicit aria2c path, empty to search PATH
func (s *Settings) GetEnginePath() string {
	return s.app.Preferences().String(KeyEnginePath)
}

// SetEnginePath sets the explicit aria2c path
func (s *Settings) SetEnginePath(path string) {
	s.app.Preferences().SetString(KeyEnginePath, strings.TrimSpace(path))
}

// GetConnections returns the number of connections per file
func (s *Settings) GetConnections() int {
	value := s.app.Preferences().Int(KeyConnections)
	if value <= 0 {
		s.SetConnections(DefaultConnections)
		return DefaultConnections
	}
	return value
}

// SetConnections sets the number of connections per file, clamped to 1..16
func (s *Settings) SetConnections(count int) {
	if count < 1 {
		count = 1
	}
	if count > engine.MaxConnections {
		count = engine.MaxConnections
	}
	s.app.Preferences().SetInt(KeyConnections, count)
}

// GetEndpoint returns the Hub endpoint, falling back to HF_ENDPOINT and the public Hub
func (s *Settings) GetEndpoint() string {
	if ep := s.app.Preferences().String(KeyEndpoint); ep != "" {
		return ep
	}
	if ep := os.Getenv("HF_ENDPOINT"); ep != "" {
		return ep
	}
	return hub.DefaultEndpoint
}

// SetEndpoint sets the Hub endpoint; the public Hub is stored as empty
func (s *Settings) SetEndpoint(endpoint string) {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == hub.DefaultEndpoint {
		endpoint = ""
	}
	s.app.Preferences().SetString(KeyEndpoint, endpoint)
}

// GetToken returns the access token, falling back to HF_TOKEN
func (s *Settings) GetToken() string {
	if token := s.app.Preferences().String(KeyToken); token != "" {
		return token
	}
	return os.Getenv("HF_TOKEN")
}

// SetToken stores the access token
func (s *Settings) SetToken(token string) {
	s.app.Preferences().SetString(KeyToken, strings.TrimSpace(token))
}

// GetRevision returns the branch, tag or commit to list
func (s *Settings) GetRevision() string {
	rev := s.app.Preferences().String(KeyRevision)
	if rev == "" {
		s.SetRevision(hub.DefaultRevision)
		return hub.DefaultRevision
	}
	return rev
}

// SetRevision sets the revision, empty resets to the default branch
func (s *Settings) SetRevision(rev string) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		rev = hub.DefaultRevision
	}
	s.app.Preferences().SetString(KeyRevision, rev)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to open the repository folder when a job finishes
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to open the repository folder when a job finishes
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// HubOptions builds lister options from the stored endpoint, token and revision
func (s *Settings) HubOptions(dataset bool) hub.Options {
	return hub.Options{
		Endpoint: s.GetEndpoint(),
		Token:    s.GetToken(),
		Revision: s.GetRevision(),
		Dataset:  dataset,
	}
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"zh":     "中文",
	}
}
