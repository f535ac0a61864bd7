package main

import (
	"context"
	"fmt"
	"os"

	"github.com/UTDS16/battleship/client/app"
	"github.com/UTDS16/battleship/common/config"
	"github.com/UTDS16/battleship/common/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	nickname   string
	transport  string
	url        string
)

var rootCmd = &cobra.Command{
	Use:   "bship",
	Short: "battleship peer",
	Long:  `bship finds and hosts battleship games over a shared nats, redis or in-process bus.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, v, err := config.Load(configFile)
		if err != nil {
			return err
		}
		applyFlags(cmd, conf)
		if err := conf.Validate(); err != nil {
			return err
		}

		logger := log.New(conf.AppName, conf.Log.Level)
		logger.Info("config: %+v", *conf)
		config.Watch(v, func(changed *config.Config) {
			logger.SetLevel(changed.Log.Level)
			logger.Info("log level set to %s", changed.Log.Level)
		})

		return app.Run(context.Background(), conf, logger)
	},
}

func applyFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("logLevel") {
		conf.Log.Level = logLevel
	}
	if flags.Changed("nickname") {
		conf.Nickname = nickname
	}
	if flags.Changed("transport") {
		conf.Transport.Kind = transport
	}
	if flags.Changed("url") {
		switch conf.Transport.Kind {
		case "redis":
			conf.Transport.Redis.Addr = url
		default:
			conf.Transport.Nats.URL = url
		}
	}
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "resource", "resource/application.yml", "resource file, empty for built-in defaults")
	rootCmd.Flags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&nickname, "nickname", "Anon", "nickname shown to other players")
	rootCmd.Flags().StringVar(&transport, "transport", "nats", "bus: nats, redis or local")
	rootCmd.Flags().StringVar(&url, "url", "", "broker address (nats url or redis host:port)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
