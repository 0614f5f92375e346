package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matt-g-everett/hubcfg/api"
	"github.com/matt-g-everett/hubcfg/broker"
	"github.com/matt-g-everett/hubcfg/config"
	"github.com/matt-g-everett/hubcfg/provision"
)

type app struct {
	configPath string
	useLiteral bool
	logLevel   string
	logFile    string
}

func (a *app) options() provision.Options {
	return provision.Options{
		Path:       a.configPath,
		UseLiteral: a.useLiteral,
	}
}

func (a *app) setupLogging() error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if a.logFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   a.logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	} else {
		log.SetOutput(os.Stderr)
	}
	return nil
}

func (a *app) load() (*config.Store, error) {
	return provision.Load(a.options())
}

func newRootCmd() *cobra.Command {
	a := new(app)

	root := &cobra.Command{
		Use:          "hubcfg",
		Short:        "Validate and inspect the heartbeat hub configuration",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML or TOML config file")
	root.PersistentFlags().BoolVar(&a.useLiteral, "literal", false, "start from the compiled-in hub values instead of the defaults")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to a rotated file instead of stderr")

	root.AddCommand(
		newValidateCmd(a),
		newShowCmd(a),
		newInitCmd(a),
		newProbeCmd(a),
		newServeCmd(a),
	)
	return root
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report every problem with the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.options().Values()
			if err != nil {
				return err
			}

			if _, err := config.New(v); err != nil {
				var verr *config.ValidationError
				if !errors.As(err, &verr) {
					return err
				}
				for _, fe := range verr.Errors {
					fmt.Fprintln(cmd.OutOrStdout(), fe)
				}
				return fmt.Errorf("configuration has %d problem(s)", len(verr.Errors))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "configuration OK")
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}

			fields := s.LogFields()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(fields)
			}

			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-17s %v\n", k, fields[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the compiled-in hub values to a YAML or TOML file, without secrets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := provision.WriteFile(path, provision.Literal()); err != nil {
				return err
			}
			log.WithField("path", path).Info("Wrote config file")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newProbeCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that the broker accepts the configured credentials and subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}
			broker.RouteLogs()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := broker.Probe(ctx, s); err != nil {
				return err
			}

			log.WithField("broker", s.MQTTBrokerURL()).Info("Broker probe succeeded")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "give up after this long")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the redacted configuration over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return api.NewApi(s).Serve(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":3000", "address to listen on")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
