package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"codenerd/internal/completion"
	"codenerd/internal/languageserver"
)

// hostConfig is the on-disk shape of .editor/config.json. The "logging"
// key is read directly by internal/logging; this struct only needs the
// sections this host itself consumes.
type hostConfig struct {
	Completion      completion.Config            `json:"completion"`
	LanguageServers []languageserver.ServerConfig `json:"language_servers"`
}

func configPath(workspace string) string {
	return filepath.Join(workspace, ".editor", "config.json")
}

func loadHostConfig(workspace string) hostConfig {
	cfg := hostConfig{Completion: completion.DefaultConfig()}
	data, err := os.ReadFile(configPath(workspace))
	if err != nil {
		return cfg
	}
	var onDisk hostConfig
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return cfg
	}
	if onDisk.Completion != (completion.Config{}) {
		cfg.Completion = onDisk.Completion
	}
	cfg.LanguageServers = onDisk.LanguageServers
	return cfg
}

func defaultLanguageServerConfigs() []languageserver.ServerConfig {
	return []languageserver.ServerConfig{
		{ID: "gopls", Enabled: true, Command: "gopls", Args: []string{"serve"}, Languages: []string{"go"}},
	}
}
