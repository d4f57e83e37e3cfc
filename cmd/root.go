// file: cmd/root.go
// version: 1.0.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/streamrip-bot/internal/bot"
	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/download"
	"github.com/jdfalk/streamrip-bot/internal/engine"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/metrics"
	"github.com/jdfalk/streamrip-bot/internal/server"
	"github.com/jdfalk/streamrip-bot/internal/session"
	"github.com/jdfalk/streamrip-bot/internal/store"
	"github.com/jdfalk/streamrip-bot/internal/task"
)

var cfgFile string
var botToken string
var ownerID int64
var downloadDir string
var storePath string
var statusAddr string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamrip-bot",
	Short: "Telegram front-end for the streamrip music downloader",
	Long: `Streamrip Bot bridges Telegram and streamrip: it accepts music URLs
from Qobuz, Tidal, Deezer and SoundCloud, resolves quality and codec
interactively, and delivers the downloaded audio back into the chat.`,
}

// runCmd starts the bot.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	Long:  `Connect to Telegram and serve download commands until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.BotToken == "" {
			return fmt.Errorf("bot token not configured (set bot_token in the config file or BOT_TOKEN in the environment)")
		}

		mgr := config.NewManager(cfg)

		var st *store.Store
		if cfg.StorePath != "" {
			var err error
			st, err = store.Open(cfg.StorePath)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()
			if err := mgr.AttachStore(st); err != nil {
				log.Printf("Could not apply persisted settings: %v", err)
			}
		}

		if path := viper.ConfigFileUsed(); path != "" {
			stop, err := mgr.WatchFile(path)
			if err != nil {
				log.Printf("Config watch disabled: %v", err)
			} else {
				defer stop()
			}
		}

		gw, err := gateway.NewTelegram(mgr.Snapshot().BotToken)
		if err != nil {
			return fmt.Errorf("failed to connect to Telegram: %w", err)
		}

		fetcher := engine.NewStreamrip()
		tasks := task.NewRegistry()
		selectors := session.NewRegistry()
		settingsReg := session.NewRegistry()

		var history download.HistoryStore
		if st != nil {
			history = st
		}
		orch := download.New(gw, mgr, fetcher, tasks, selectors, history)

		metrics.Register()
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if addr := mgr.Snapshot().StatusAddr; addr != "" {
			var hist server.HistoryLister
			if st != nil {
				hist = st
			}
			srv := server.New(tasks, hist)
			srv.Start(addr)
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				srv.Shutdown(shutdownCtx)
			}()
		}

		b := bot.New(gw.API(), gw, mgr, orch, fetcher, tasks, selectors, settingsReg)
		if err := b.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		log.Println("Bot stopped")
		return nil
	},
}

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

// configInitCmd writes a sample config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".streamrip-bot.yaml")
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}

		sample := map[string]any{
			"bot_token":    "YOUR_BOT_TOKEN",
			"owner_id":     0,
			"sudo_users":   []int64{},
			"cmd_suffix":   "",
			"download_dir": "downloads",
			"store_path":   "streamrip-bot.pebble",
			"status_addr":  "",
			"streamrip": map[string]any{
				"enabled":              true,
				"concurrent_downloads": 4,
				"max_search_results":   20,
				"enable_database":      true,
				"auto_convert":         true,
			},
			"quality": map[string]any{
				"default":          3,
				"fallback":         2,
				"codec":            "flac",
				"supported_codecs": []string{"flac", "mp3", "m4a", "ogg", "opus"},
			},
			"qobuz":      map[string]any{"enabled": true, "quality": 3, "email": "", "password": ""},
			"tidal":      map[string]any{"enabled": true, "quality": 3, "access_token": "", "refresh_token": ""},
			"deezer":     map[string]any{"enabled": true, "quality": 2, "arl": ""},
			"soundcloud": map[string]any{"enabled": true, "quality": 0},
		}
		data, err := yaml.Marshal(sample)
		if err != nil {
			return fmt.Errorf("failed to render sample config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Println("Wrote sample config to", path)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.streamrip-bot.yaml)")
	rootCmd.PersistentFlags().StringVar(&botToken, "token", "", "Telegram bot token")
	rootCmd.PersistentFlags().Int64Var(&ownerID, "owner", 0, "Telegram user id of the bot owner (0 means open access)")
	rootCmd.PersistentFlags().StringVar(&downloadDir, "dir", "downloads", "working directory for downloads")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "streamrip-bot.pebble", "path to the settings/history store (empty disables persistence)")
	rootCmd.PersistentFlags().StringVar(&statusAddr, "status-addr", "", "address for the status/metrics listener (empty disables it)")

	viper.BindPFlag("bot_token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("owner_id", rootCmd.PersistentFlags().Lookup("owner"))
	viper.BindPFlag("download_dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("store_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("status_addr", rootCmd.PersistentFlags().Lookup("status-addr"))

	rootCmd.AddCommand(runCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".streamrip-bot")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	// Ensure the download directory exists
	if dir := viper.GetString("download_dir"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Printf("Error creating download directory: %v\n", err)
		}
	}
}
