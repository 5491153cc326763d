package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wy414012/proxmox-backup/internal/api"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pbs-client",
	Short: "Command line client for the backup server's configuration API",
	Long: `pbs-client drives the same backend API as the web console:
  - log in and print the resulting ticket
  - list datastore configuration records
  - create a datastore
  - update a datastore, clearing fields with --clear`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("server", "", "backend base URL, e.g. https://backup.example.com:8007")
	flags.String("username", "", "user to authenticate as")
	flags.String("password", "", "password (prefer PBS_PASSWORD)")
	flags.Bool("insecure", false, "skip TLS verification")
	flags.Int("timeout", 30, "request timeout in seconds")
	flags.Bool("verbose", false, "enable verbose (debug) output")

	viper.SetEnvPrefix("pbs")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(datastoreCmd)
}

func setupLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	if viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newClient builds a backend client from flags/environment and logs in.
func newClient(ctx context.Context) (*api.Client, error) {
	server := viper.GetString("server")
	if server == "" {
		return nil, fmt.Errorf("--server (or PBS_SERVER) is required")
	}
	username := viper.GetString("username")
	if username == "" {
		return nil, fmt.Errorf("--username (or PBS_USERNAME) is required")
	}
	password := viper.GetString("password")
	if password == "" {
		return nil, fmt.Errorf("--password (or PBS_PASSWORD) is required")
	}

	client := api.NewClient(server, viper.GetBool("insecure"),
		time.Duration(viper.GetInt("timeout"))*time.Second)

	if _, err := client.Login(ctx, username, password); err != nil {
		return nil, err
	}
	log.Debug().Str("username", username).Msg("logged in")

	return client, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and print the resulting ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("username: %s\n", client.Session.Username())
		fmt.Printf("ticket:   %s\n", client.Session.Ticket())
		return nil
	},
}
