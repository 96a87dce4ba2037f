/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nscale/story-e2e/pkg/constants"
	"github.com/nscale/story-e2e/test/api"
	"github.com/nscale/story-e2e/test/api/storytwin"
)

// options are flags common to all commands. Defaults come from the
// environment so flags only need to be given to override it.
type options struct {
	config *api.TestConfig
}

func (o *options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.config.Username, "username", o.config.Username, "User name to authenticate as.")
	f.StringVar(&o.config.Password, "password", o.config.Password, "Password to authenticate with.")
	f.BoolVar(&o.config.DebugLogging, "debug", o.config.DebugLogging, "Enable debug logging, including request and response logging.")
}

type runOptions struct {
	*options

	format string
}

func (o *runOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.config.BaseURL, "base-url", o.config.BaseURL, "Story API to test, an in-process twin is used when empty.")
	f.DurationVar(&o.config.RequestTimeout, "request-timeout", o.config.RequestTimeout, "Timeout for a single HTTP request.")
	f.DurationVar(&o.config.TestTimeout, "timeout", o.config.TestTimeout, "Timeout for the whole scenario.")
	f.BoolVar(&o.config.ValidateContract, "validate-contract", o.config.ValidateContract, "Validate responses against the OpenAPI description.")
	f.BoolVar(&o.config.LogRequests, "log-requests", o.config.LogRequests, "Log every request.")
	f.BoolVar(&o.config.LogResponses, "log-responses", o.config.LogResponses, "Log every response body.")
	f.StringVarP(&o.format, "output", "o", api.FormatYAML, "Report format, one of yaml or json.")
}

type twinOptions struct {
	*options

	listen string
}

func (o *twinOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.listen, "listen", ":8080", "Address to serve the story twin on.")
}

func newLogger(debug bool) (logr.Logger, error) {
	config := zap.NewProductionConfig()

	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zapLog, err := config.Build()
	if err != nil {
		return logr.Discard(), err
	}

	return zapr.NewLogger(zapLog), nil
}

// serveTwin serves a story twin on the listener until the context is done.
func serveTwin(ctx context.Context, log logr.Logger, listener net.Listener, credentials storytwin.Credentials) error {
	twin := storytwin.New(credentials)

	server := &http.Server{
		Handler:           twin.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "twin shutdown failed")
		}
	}()

	log.Info("serving story twin", "address", listener.Addr().String())

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func run(cmd *cobra.Command, o *runOptions, log logr.Logger) error {
	if err := o.config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.config.TestTimeout)
	defer cancel()

	if o.config.UseTwin() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listening for story twin: %w", err)
		}

		twinCtx, stopTwin := context.WithCancel(context.Background())
		defer stopTwin()

		credentials := storytwin.Credentials{UserName: o.config.Username, Password: o.config.Password}

		go func() {
			if err := serveTwin(twinCtx, log.WithName("twin"), listener, credentials); err != nil {
				log.Error(err, "story twin failed")
			}
		}()

		o.config.BaseURL = "http://" + listener.Addr().String()
	}

	client, err := api.NewAPIClientWithConfig(o.config, api.WithLogger(log.WithName("client")))
	if err != nil {
		return err
	}

	report := api.StoryWorkflow().Run(logr.NewContext(ctx, log), client, o.config)

	if err := report.Render(cmd.OutOrStdout(), o.format); err != nil {
		return err
	}

	return report.Err()
}

func newRunCommand(o *options, log *logr.Logger) *cobra.Command {
	runOpts := &runOptions{options: o}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the story lifecycle scenario and print a report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, runOpts, *log)
		},
	}

	runOpts.AddFlags(cmd.Flags())

	return cmd
}

func newTwinCommand(o *options, log *logr.Logger) *cobra.Command {
	twinOpts := &twinOptions{options: o}

	cmd := &cobra.Command{
		Use:   "twin",
		Short: "Serve an in-memory replica of the story API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.config.Validate(); err != nil {
				return err
			}

			listener, err := net.Listen("tcp", twinOpts.listen)
			if err != nil {
				return err
			}

			credentials := storytwin.Credentials{UserName: o.config.Username, Password: o.config.Password}

			return serveTwin(cmd.Context(), *log, listener, credentials)
		},
	}

	twinOpts.AddFlags(cmd.Flags())

	return cmd
}

func newRootCommand(config *api.TestConfig) *cobra.Command {
	o := &options{config: config}

	log := logr.Discard()

	cmd := &cobra.Command{
		Use:           constants.Application,
		Short:         "End-to-end tests for the Story Spoiler API",
		Version:       constants.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			l, err := newLogger(o.config.DebugLogging)
			if err != nil {
				return err
			}

			log = l

			log.Info("service starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

			return nil
		},
	}

	o.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newRunCommand(o, &log),
		newTwinCommand(o, &log),
	)

	return cmd
}

func main() {
	config, err := api.LoadTestConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(config).ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1) //nolint:gocritic // stop has been called explicitly
	}
}
