// Package config provides the configuration structure for the lexicon-service.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"

	"github.com/book-expert/lexicon-service/internal/lexutils"
)

// Compiler kinds selectable via configuration.
const (
	CompilerKagome = "kagome"
	CompilerMeCab  = "mecab"
)

// Default file names inside the save directory.
const (
	defaultUserDictFile = "user_dict.json"
	defaultCompiledFile = "user.dic"
)

const defaultCompileTimeoutSeconds = 300

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                         string `toml:"url"`
	DictionarySubject           string `toml:"dictionary_subject"`
	DictionaryObjectStoreBucket string `toml:"dictionary_object_store_bucket"`
}

// LexiconConfig holds the dictionary subsystem configuration.
type LexiconConfig struct {
	BaseDictDir           string `toml:"base_dict_dir"`
	UserDictPath          string `toml:"user_dict_path"`
	CompiledDictPath      string `toml:"compiled_dict_path"`
	Compiler              string `toml:"compiler"`
	MeCabDictIndexPath    string `toml:"mecab_dict_index_path"`
	MeCabSystemDicDir     string `toml:"mecab_system_dic_dir"`
	CompileTimeoutSeconds int    `toml:"compile_timeout_seconds"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS    NATSConfig    `toml:"nats"`
	Lexicon LexiconConfig `toml:"lexicon"`
	Paths   PathsConfig   `toml:"paths"`
}

// Load loads the configuration for the lexicon-service and fills in defaults
// for the optional dictionary paths.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults resolves unset dictionary paths against the per-user save
// directory and picks the in-process compiler when none is named.
func (c *Config) ApplyDefaults() {
	saveDir := lexutils.GetSaveDir()

	if c.Lexicon.UserDictPath == "" {
		c.Lexicon.UserDictPath = filepath.Join(saveDir, defaultUserDictFile)
	}

	if c.Lexicon.CompiledDictPath == "" {
		c.Lexicon.CompiledDictPath = filepath.Join(saveDir, defaultCompiledFile)
	}

	if c.Lexicon.Compiler == "" {
		c.Lexicon.Compiler = CompilerKagome
	}

	if c.Lexicon.CompileTimeoutSeconds <= 0 {
		c.Lexicon.CompileTimeoutSeconds = defaultCompileTimeoutSeconds
	}
}
