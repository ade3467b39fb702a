package config

import (
	"encoding/json"
	"os"
)

// ChannelSource is one entry of the channels config file: a channel whose
// recent uploads are pulled into discovery-based snapshots.
type ChannelSource struct {
	Key       string `json:"key"`
	ChannelID string `json:"channel_id"`
	Label     string `json:"label"`
}

// KeywordSource is one entry of the keywords config file: a set of search
// queries whose newest matches are pulled into discovery-based snapshots.
type KeywordSource struct {
	Key     string   `json:"key"`
	Queries []string `json:"queries"`
	Label   string   `json:"label"`
}

// LoadChannelSources reads the channel source list from path. A missing or
// malformed file degrades to an empty list, never an error: discovery simply
// finds nothing from that side.
func LoadChannelSources(path string) []ChannelSource {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var sources []ChannelSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil
	}
	return sources
}

// LoadKeywordSources reads the keyword source list from path, with the same
// degrade-to-empty behavior as LoadChannelSources.
func LoadKeywordSources(path string) []KeywordSource {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var sources []KeywordSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil
	}
	return sources
}
