package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bookline.yaml configuration.
type Config struct {
	Book     BookConfig     `yaml:"book"`
	Postable PostableConfig `yaml:"postable"`
	Git      GitConfig      `yaml:"git"`
}

// BookConfig identifies the set of books.
type BookConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// PostableConfig tunes the postable account picker.
type PostableConfig struct {
	SearchLimit int `yaml:"search_limit"`
}

// GitConfig controls git integration for the book directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a bookline.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default(name, currency string) *Config {
	return &Config{
		Book: BookConfig{
			Name:     name,
			Currency: currency,
		},
		Postable: PostableConfig{
			SearchLimit: 20,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Bookline",
			AuthorEmail: "books@bookline.dev",
		},
	}
}
