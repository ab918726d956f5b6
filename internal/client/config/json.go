package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/docudefense/internal/flagx"
	"github.com/dmitrijs2005/docudefense/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type JsonConfig struct {
	BaseURL             *string         `json:"base_url"`
	DatabasePath        *string         `json:"database_path"`
	DownloadDir         *string         `json:"download_dir"`
	PageSize            *int            `json:"page_size"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	SearchPath          *string         `json:"search_path"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. No flag means nothing is loaded. Panics on read or unmarshal
// errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFilePath(args)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.DownloadDir != nil {
		cfg.DownloadDir = *jc.DownloadDir
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SearchPath != nil {
		cfg.SearchPath = *jc.SearchPath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
