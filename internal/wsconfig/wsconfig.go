// Package wsconfig loads the workspace configuration: markdown link
// conventions, LSP-facing refactoring preferences, and the LLM model name,
// bound from .iwe/config.toml the way the teacher's cmd/app binds its
// Options struct with viper (cmd/app/cmd.go, cmd/app/flags.go) — here via
// viper's TOML unmarshal instead of flag binding, since this workspace has
// no CLI flags of its own to bind onto the same keys.
package wsconfig

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// MarkdownOptions controls link URL rendering, mirroring spec §6's
// markdown.refs_extension convention.
type MarkdownOptions struct {
	RefsExtension string `mapstructure:"refs_extension"`
}

// Configuration is the workspace-wide configuration passed explicitly from
// the server down through every operation that needs it (spec §9: "no
// process-wide singletons in the core").
type Configuration struct {
	Markdown MarkdownOptions `mapstructure:"markdown"`

	// SequentialKeys selects Graph.random_key's allocation strategy.
	SequentialKeys bool `mapstructure:"sequential_keys"`

	// WikiLinks, when set, makes link-new and attach emit [[key]] instead
	// of [text](key) (spec §4.10 "Link-new").
	WikiLinks bool `mapstructure:"wiki_links"`

	// AttachTemplate is the date template used to name the file Attach
	// appends to (spec §9, §4.10); Go's reference-time layout, e.g.
	// "2006-01-02" for one file per day.
	AttachTemplate string `mapstructure:"attach_template"`

	// LLMModel names the model passed to llmclient.Client.Query for the
	// Transform/Generate action providers (spec §4.10).
	LLMModel string `mapstructure:"llm_model"`
}

// Default returns the configuration in effect when no config.toml is
// present: no extension on link URLs, sequential keys, Markdown links.
func Default() Configuration {
	return Configuration{
		Markdown:       MarkdownOptions{RefsExtension: ""},
		SequentialKeys: true,
		AttachTemplate: "2006-01-02",
		LLMModel:       "gpt-4o-mini",
	}
}

// Loader reads a workspace's configuration. The concrete TOML file read is
// the external collaborator named at its interface only (spec §1); a real
// Loader wraps viper, tests can substitute a fixed Configuration.
type Loader interface {
	Load(workspaceRoot string) (Configuration, error)
}

// FileLoader loads .iwe/config.toml under a workspace root via viper,
// falling back to Default() for every unset key.
type FileLoader struct{}

// Load implements Loader.
func (FileLoader) Load(workspaceRoot string) (Configuration, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(workspaceRoot, ".iwe"))

	v.SetDefault("markdown.refs_extension", cfg.Markdown.RefsExtension)
	v.SetDefault("sequential_keys", cfg.SequentialKeys)
	v.SetDefault("wiki_links", cfg.WikiLinks)
	v.SetDefault("attach_template", cfg.AttachTemplate)
	v.SetDefault("llm_model", cfg.LLMModel)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, fmt.Errorf("reading %s: %w", filepath.Join(workspaceRoot, ".iwe", "config.toml"), err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling workspace configuration: %w", err)
	}
	return cfg, nil
}
