package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultConfigPath = "./configs/config.yaml"

// DefaultSummaryPrompt is the built-in summary prompt template. The
// {transcription} placeholder is replaced with the transcript text.
const DefaultSummaryPrompt = `Summarize the following meeting transcript.

Requirements:
1. Drop filler and small talk
2. Extract the conclusions reached in the meeting
3. Keep the key arguments and discussion points behind each conclusion
4. Write a business-oriented summary report
5. Use Markdown formatting

Transcript:
{transcription}`

// Manager loads the YAML configuration and exposes it through accessor
// methods. A missing or malformed file is never fatal: the documented
// defaults apply and a warning is logged. Components must read through the
// accessors on every use rather than caching values at construction, so a
// Reload is picked up without restarting them.
type Manager struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

// New creates a manager for the given config file path. An empty path falls
// back to the CONFIG_PATH environment variable, then to configs/config.yaml.
func New(path string) *Manager {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	m := &Manager{path: path}
	m.v = m.read()
	return m
}

func (m *Manager) read() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(m.path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("path", m.path).Msg("Config file not usable, falling back to defaults")
	}
	return v
}

// Reload re-reads the config file. Concurrent readers see either the old or
// the new values, never a partial mix.
func (m *Manager) Reload() {
	v := m.read()

	m.mu.Lock()
	m.v = v
	m.mu.Unlock()

	log.Info().Str("path", m.path).Msg("Configuration reloaded")
}

func (m *Manager) get() *viper.Viper {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v
}

func setDefaults(v *viper.Viper) {
	// Whisper
	v.SetDefault("whisper.url", "http://localhost:8765")
	v.SetDefault("whisper.timeout", 300)
	v.SetDefault("whisper.language", "zh")

	// Claude CLI
	v.SetDefault("claude.command", "claude")
	v.SetDefault("claude.timeout", 120)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.upload_max_size", 100) // MB

	// Summary
	v.SetDefault("summary.prompt_template", DefaultSummaryPrompt)
}

// WhisperURL returns the transcription service base URL.
func (m *Manager) WhisperURL() string {
	return m.get().GetString("whisper.url")
}

// WhisperTimeout returns the per-call transcription timeout.
func (m *Manager) WhisperTimeout() time.Duration {
	return time.Duration(m.get().GetInt("whisper.timeout")) * time.Second
}

// WhisperLanguage returns the default transcription language code.
func (m *Manager) WhisperLanguage() string {
	return m.get().GetString("whisper.language")
}

// ClaudeCommand returns the AI tool invocation command.
func (m *Manager) ClaudeCommand() string {
	return m.get().GetString("claude.command")
}

// ClaudeTimeout returns the per-call AI tool timeout.
func (m *Manager) ClaudeTimeout() time.Duration {
	return time.Duration(m.get().GetInt("claude.timeout")) * time.Second
}

// ServerHost returns the bind host.
func (m *Manager) ServerHost() string {
	return m.get().GetString("server.host")
}

// ServerPort returns the bind port.
func (m *Manager) ServerPort() int {
	return m.get().GetInt("server.port")
}

// Addr returns the host:port bind address.
func (m *Manager) Addr() string {
	return fmt.Sprintf("%s:%d", m.ServerHost(), m.ServerPort())
}

// UploadMaxSizeMB returns the upload ceiling in megabytes.
func (m *Manager) UploadMaxSizeMB() int {
	return m.get().GetInt("server.upload_max_size")
}

// UploadMaxSizeBytes returns the upload ceiling in bytes.
func (m *Manager) UploadMaxSizeBytes() int64 {
	return int64(m.UploadMaxSizeMB()) << 20
}

// SummaryPromptTemplate returns the summary prompt template.
func (m *Manager) SummaryPromptTemplate() string {
	tpl := m.get().GetString("summary.prompt_template")
	if tpl == "" {
		return DefaultSummaryPrompt
	}
	return tpl
}
