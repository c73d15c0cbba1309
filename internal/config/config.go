package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/subsonic-grabber/internal/constants"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// ServerURL is the address of the Subsonic server, e.g. "https://music.example.com".
	ServerURL string `mapstructure:"server_url"`
	// Username is the account name used for token authentication.
	Username string `mapstructure:"username"`
	// Password is the account password; only its salted hash is sent to the server.
	Password string `mapstructure:"password"`
	// APIVersion is the protocol version announced to the server.
	APIVersion string `mapstructure:"api_version"`
	// ClientName identifies this client to the server.
	ClientName string `mapstructure:"client_name"`
	// OutputPath is the directory path where downloaded files will be saved.
	OutputPath string `mapstructure:"output_path"`
	// ReplaceSongs indicates whether to replace existing song files.
	ReplaceSongs bool `mapstructure:"replace_songs"`
	// EmbedCover indicates whether to embed cover art into the song tags.
	EmbedCover bool `mapstructure:"embed_cover"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxLogLength caps the size of dumped HTTP traffic at debug level (e.g., "1MB", "64KB").
	MaxLogLength string `mapstructure:"max_log_length"`
	// SongsCacheSize is the number of song records kept in memory.
	SongsCacheSize int `mapstructure:"songs_cache_size"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxLogLength is the parsed HTTP dump limit in bytes.
	ParsedMaxLogLength uint64
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".subsonic-grabber.yaml"

	// DefaultAPIVersion is the protocol version announced when none is configured.
	DefaultAPIVersion = "1.16.1"

	// DefaultClientName identifies this client to the server when none is configured.
	DefaultClientName = "subsonic-grabber"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB
)

// Static error definitions for better error handling.
var (
	// ErrEmptyServerURL indicates that the server address is missing.
	ErrEmptyServerURL = errors.New("server URL cannot be empty")
	// ErrEmptyUsername indicates that the username is missing.
	ErrEmptyUsername = errors.New("username cannot be empty")
	// ErrEmptyPassword indicates that the password is missing.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidSongsCacheSize indicates that the songs cache size is negative.
	ErrInvalidSongsCacheSize = errors.New("songs cache size cannot be negative")
)

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	if cfg.ServerURL == "" {
		return ErrEmptyServerURL
	}

	if strings.TrimSpace(cfg.Username) == "" {
		return ErrEmptyUsername
	}

	if cfg.Password == "" {
		return ErrEmptyPassword
	}

	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = DefaultAPIVersion
	}

	if strings.TrimSpace(cfg.ClientName) == "" {
		cfg.ClientName = DefaultClientName
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedMaxLogLength = DefaultMaxLogLength

	if maxLogLength := strings.TrimSpace(cfg.MaxLogLength); maxLogLength != "" {
		parsedMaxLogLength, err := humanize.ParseBytes(maxLogLength)
		if err != nil {
			return fmt.Errorf("failed to parse max log length: %w", err)
		}

		if parsedMaxLogLength > 0 {
			cfg.ParsedMaxLogLength = parsedMaxLogLength
		}
	}

	if cfg.SongsCacheSize < 0 {
		return ErrInvalidSongsCacheSize
	}

	return nil
}

// Credentials are the values persisted by SaveCredentials.
type Credentials struct {
	// ServerURL is the server address.
	ServerURL string
	// Username is the account name.
	Username string
	// Password is the account password.
	Password string
}

// SaveCredentials saves the server address and credentials to the config file
// while preserving the original format and order.
func SaveCredentials(credentials *Credentials) error {
	configFile := getConfigFilePath()

	values := map[string]string{
		"server_url": credentials.ServerURL,
		"username":   credentials.Username,
		"password":   credentials.Password,
	}

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, values, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	updateValuesInNode(&node, values)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile string, values map[string]string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	for key, value := range values {
		viper.Set(key, value)
	}

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateValuesInNode sets top-level keys in the YAML node tree.
// Keys that are not present yet are appended to the mapping.
func updateValuesInNode(node *yaml.Node, values map[string]string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]
	pending := make(map[string]string, len(values))

	for key, value := range values {
		pending[key] = value
	}

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		value, ok := pending[keyNode.Value]
		if !ok {
			continue
		}

		// Update the value while preserving style.
		valueNode.Value = value

		// Ensure it's quoted if it contains special characters.
		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		delete(pending, keyNode.Value)
	}

	for _, key := range slices.Sorted(maps.Keys(pending)) {
		mapNode.Content = append(mapNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: pending[key], Style: yaml.DoubleQuotedStyle},
		)
	}
}
