package config

import (
	"encoding/json"
	"os"

	"ytmovers/snapshot"
)

// LoadTracked reads the static tracked-video registry from path. A missing
// or malformed file falls back to the built-in default registry so the
// capture and fetch pathways always have something to work with.
func LoadTracked(path string) snapshot.Registry {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultTracked()
	}

	var reg snapshot.Registry
	if err := json.Unmarshal(data, &reg); err != nil || len(reg) == 0 {
		return DefaultTracked()
	}
	return reg
}

// DefaultTracked returns the built-in registry of followed videos. It is
// constant configuration: callers receive a fresh copy and the ranker only
// reads from it.
func DefaultTracked() snapshot.Registry {
	return snapshot.Registry{
		"hasan_x8d6K399WW4": {
			ChannelName: "HasanAbi",
			VideoID:     "x8d6K399WW4",
			Label:       "HasanAbi – we are Charlie Kirk",
		},
		"boyboy_Sfrjpy5cJCs": {
			ChannelName: "Boy Boy",
			VideoID:     "Sfrjpy5cJCs",
			Label:       "BoyBoy – I snuck into a major arms dealer conference",
		},
		"NavaraMedia_UC2VT3RkiYo": {
			ChannelName: "Navara Media",
			VideoID:     "UC2VT3RkiYo",
			Label:       "NavaraMedia – The blueprint for an actual revolution",
		},
		"Zeteo_MEtvCw1LzRc": {
			ChannelName: "Zeteo",
			VideoID:     "MEtvCw1LzRc",
			Label:       "Zeteo – Will Mamdami Challenge the Democratic Leadership",
		},
		"TimDillon_khKJS50odJw": {
			ChannelName: "Tim Dillon",
			VideoID:     "khKJS50odJw",
			Label:       "Tim Dillon – Golden Age of Travel",
		},
		"PuntersPolitics_3oLIodU0BCU": {
			ChannelName: "Punters Politics",
			VideoID:     "3oLIodU0BCU",
			Label:       "Punters Politics – Australia gets played by Santos",
		},
		"CaspianReport_cVCDjEfPzII": {
			ChannelName: "Caspian Report",
			VideoID:     "cVCDjEfPzII",
			Label:       "Caspian Report – Vietnam is beating China at its own game",
		},
		"LBC_DAshS2Tl4yw": {
			ChannelName: "LBC",
			VideoID:     "DAshS2Tl4yw",
			Label:       "LBC – A plan translated from Russian",
		},
	}
}
