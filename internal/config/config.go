// file: internal/config/config.go
// version: 1.0.0
// guid: 3f2a1b0c-9d8e-4f5a-b6c7-d8e9f0a1b2c3

// Package config holds the live bot configuration. The settings session is
// the only writer; everything else reads snapshots through a Manager.
package config

import (
	"github.com/spf13/viper"
)

// Platform identifies a streaming platform.
type Platform string

const (
	Qobuz      Platform = "qobuz"
	Tidal      Platform = "tidal"
	Deezer     Platform = "deezer"
	Soundcloud Platform = "soundcloud"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{Qobuz, Tidal, Deezer, Soundcloud}

// QobuzSettings holds Qobuz credentials and preferences.
type QobuzSettings struct {
	Enabled  bool   `json:"enabled"`
	Quality  int    `json:"quality"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TidalSettings holds Tidal credentials and preferences.
type TidalSettings struct {
	Enabled      bool   `json:"enabled"`
	Quality      int    `json:"quality"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	CountryCode  string `json:"country_code"`
}

// DeezerSettings holds Deezer credentials and preferences.
type DeezerSettings struct {
	Enabled bool   `json:"enabled"`
	Quality int    `json:"quality"`
	ARL     string `json:"arl"`
}

// SoundcloudSettings holds SoundCloud preferences. No credentials required.
type SoundcloudSettings struct {
	Enabled bool `json:"enabled"`
	Quality int  `json:"quality"`
}

// Settings is the full configuration tree. The zero value is not usable;
// call Load (or Defaults in tests) to build one.
type Settings struct {
	// Telegram
	BotToken  string  `json:"bot_token"`
	OwnerID   int64   `json:"owner_id"`
	SudoUsers []int64 `json:"sudo_users"`
	LogChatID int64   `json:"log_chat_id"`
	CmdSuffix string  `json:"cmd_suffix"`

	// Downloads
	DownloadDir         string `json:"download_dir"`
	Enabled             bool   `json:"enabled"`
	ConcurrentDownloads int    `json:"concurrent_downloads"`
	MaxSearchResults    int    `json:"max_search_results"`
	EnableDatabase      bool   `json:"enable_database"`
	AutoConvert         bool   `json:"auto_convert"`

	// Quality
	DefaultQuality  int      `json:"default_quality"`
	FallbackQuality int      `json:"fallback_quality"`
	DefaultCodec    string   `json:"default_codec"`
	SupportedCodecs []string `json:"supported_codecs"`

	// Platforms
	Qobuz      QobuzSettings      `json:"qobuz"`
	Tidal      TidalSettings      `json:"tidal"`
	Deezer     DeezerSettings     `json:"deezer"`
	Soundcloud SoundcloudSettings `json:"soundcloud"`

	// Local status/metrics listener, empty disables it
	StatusAddr string `json:"status_addr"`

	// Path to the pebble store, empty disables persistence
	StorePath string `json:"store_path"`
}

// Defaults returns the built-in settings, matching the sample config.
func Defaults() Settings {
	return Settings{
		DownloadDir:         "downloads",
		Enabled:             true,
		ConcurrentDownloads: 4,
		MaxSearchResults:    20,
		EnableDatabase:      true,
		AutoConvert:         true,
		DefaultQuality:      3,
		FallbackQuality:     2,
		DefaultCodec:        "flac",
		SupportedCodecs:     []string{"flac", "mp3", "m4a", "ogg", "opus"},
		Qobuz:               QobuzSettings{Enabled: true, Quality: 3},
		Tidal:               TidalSettings{Enabled: true, Quality: 3},
		Deezer:              DeezerSettings{Enabled: true, Quality: 2},
		Soundcloud:          SoundcloudSettings{Enabled: true, Quality: 0},
		StorePath:           "streamrip-bot.pebble",
	}
}

// Load builds Settings from viper (flags, config file, environment).
func Load() Settings {
	s := Defaults()

	viper.SetDefault("download_dir", s.DownloadDir)
	viper.SetDefault("streamrip.enabled", s.Enabled)
	viper.SetDefault("streamrip.concurrent_downloads", s.ConcurrentDownloads)
	viper.SetDefault("streamrip.max_search_results", s.MaxSearchResults)
	viper.SetDefault("streamrip.enable_database", s.EnableDatabase)
	viper.SetDefault("streamrip.auto_convert", s.AutoConvert)
	viper.SetDefault("quality.default", s.DefaultQuality)
	viper.SetDefault("quality.fallback", s.FallbackQuality)
	viper.SetDefault("quality.codec", s.DefaultCodec)
	viper.SetDefault("quality.supported_codecs", s.SupportedCodecs)
	viper.SetDefault("qobuz.enabled", true)
	viper.SetDefault("qobuz.quality", 3)
	viper.SetDefault("tidal.enabled", true)
	viper.SetDefault("tidal.quality", 3)
	viper.SetDefault("deezer.enabled", true)
	viper.SetDefault("deezer.quality", 2)
	viper.SetDefault("soundcloud.enabled", true)
	viper.SetDefault("soundcloud.quality", 0)
	viper.SetDefault("store_path", s.StorePath)

	s.BotToken = viper.GetString("bot_token")
	s.OwnerID = viper.GetInt64("owner_id")
	s.SudoUsers = viperInt64s("sudo_users")
	s.LogChatID = viper.GetInt64("log_chat_id")
	s.CmdSuffix = viper.GetString("cmd_suffix")

	s.DownloadDir = viper.GetString("download_dir")
	s.Enabled = viper.GetBool("streamrip.enabled")
	s.ConcurrentDownloads = viper.GetInt("streamrip.concurrent_downloads")
	s.MaxSearchResults = viper.GetInt("streamrip.max_search_results")
	s.EnableDatabase = viper.GetBool("streamrip.enable_database")
	s.AutoConvert = viper.GetBool("streamrip.auto_convert")

	s.DefaultQuality = viper.GetInt("quality.default")
	s.FallbackQuality = viper.GetInt("quality.fallback")
	s.DefaultCodec = viper.GetString("quality.codec")
	if codecs := viper.GetStringSlice("quality.supported_codecs"); len(codecs) > 0 {
		s.SupportedCodecs = codecs
	}

	s.Qobuz.Enabled = viper.GetBool("qobuz.enabled")
	s.Qobuz.Quality = viper.GetInt("qobuz.quality")
	s.Qobuz.Email = viper.GetString("qobuz.email")
	s.Qobuz.Password = viper.GetString("qobuz.password")

	s.Tidal.Enabled = viper.GetBool("tidal.enabled")
	s.Tidal.Quality = viper.GetInt("tidal.quality")
	s.Tidal.AccessToken = viper.GetString("tidal.access_token")
	s.Tidal.RefreshToken = viper.GetString("tidal.refresh_token")
	s.Tidal.UserID = viper.GetString("tidal.user_id")
	s.Tidal.CountryCode = viper.GetString("tidal.country_code")

	s.Deezer.Enabled = viper.GetBool("deezer.enabled")
	s.Deezer.Quality = viper.GetInt("deezer.quality")
	s.Deezer.ARL = viper.GetString("deezer.arl")

	s.Soundcloud.Enabled = viper.GetBool("soundcloud.enabled")
	s.Soundcloud.Quality = viper.GetInt("soundcloud.quality")

	s.StatusAddr = viper.GetString("status_addr")
	s.StorePath = viper.GetString("store_path")

	return s
}

func viperInt64s(key string) []int64 {
	vals := viper.GetIntSlice(key)
	if len(vals) == 0 {
		return nil
	}
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out
}

// PlatformConfigured reports whether a platform is enabled and has the
// credentials it needs. SoundCloud needs none.
func (s Settings) PlatformConfigured(p Platform) bool {
	switch p {
	case Qobuz:
		return s.Qobuz.Enabled && s.Qobuz.Email != ""
	case Tidal:
		return s.Tidal.Enabled && s.Tidal.AccessToken != ""
	case Deezer:
		return s.Deezer.Enabled && s.Deezer.ARL != ""
	case Soundcloud:
		return s.Soundcloud.Enabled
	default:
		return false
	}
}

// PlatformEnabled reports the bare enabled toggle for a platform.
func (s Settings) PlatformEnabled(p Platform) bool {
	switch p {
	case Qobuz:
		return s.Qobuz.Enabled
	case Tidal:
		return s.Tidal.Enabled
	case Deezer:
		return s.Deezer.Enabled
	case Soundcloud:
		return s.Soundcloud.Enabled
	default:
		return false
	}
}

// PlatformQuality returns the configured quality level for a platform.
func (s Settings) PlatformQuality(p Platform) int {
	switch p {
	case Qobuz:
		return s.Qobuz.Quality
	case Tidal:
		return s.Tidal.Quality
	case Deezer:
		return s.Deezer.Quality
	case Soundcloud:
		return s.Soundcloud.Quality
	default:
		return 0
	}
}

// IsAuthorized reports whether a user may issue commands. The owner and the
// sudo list are always authorized; with no owner configured the bot is open.
func (s Settings) IsAuthorized(userID int64) bool {
	if s.OwnerID == 0 {
		return true
	}
	if userID == s.OwnerID {
		return true
	}
	for _, id := range s.SudoUsers {
		if id == userID {
			return true
		}
	}
	return false
}
