// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/lms-bridge/internal/authorization"
	"github.com/canonical/lms-bridge/internal/config"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/monitoring/prometheus"
	"github.com/canonical/lms-bridge/internal/openfga"
	"github.com/canonical/lms-bridge/internal/sites"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/pkg/authentication"
	"github.com/canonical/lms-bridge/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newAuthorizer(
	ctx context.Context,
	specs *config.EnvSpec,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (*authorization.Authorizer, error) {
	if !specs.AuthorizationEnabled {
		logger.Info("Using noop authorizer")
		return authorization.NewAuthorizer(
			openfga.NewNoopClient(tracer, monitor, logger),
			tracer,
			monitor,
			logger,
		), nil
	}

	ofga := openfga.NewClient(
		openfga.NewConfig(
			specs.OpenfgaApiScheme,
			specs.OpenfgaApiHost,
			specs.OpenfgaStoreId,
			specs.OpenfgaApiToken,
			specs.OpenfgaModelId,
			specs.Debug,
			tracer,
			monitor,
			logger,
		),
	)
	authorizer := authorization.NewAuthorizer(ofga, tracer, monitor, logger)

	logger.Info("Authorization is enabled")
	if err := authorizer.ValidateModel(ctx); err != nil {
		return nil, fmt.Errorf("invalid authorization model provided: %v", err)
	}

	return authorizer, nil
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		return fmt.Errorf("issues with environment sourcing: %s", err)
	}
	if err := specs.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("lms-bridge", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	settings, err := sites.NewProvider(specs.SiteSettingsFile, logger)
	if err != nil {
		return fmt.Errorf("failed to load site settings: %v", err)
	}
	if err := settings.Watch(ctx); err != nil {
		logger.Warnf("site settings will not be reloaded: %v", err)
	}

	registry, closeBackends := newRegistry(specs, tracer, monitor, logger)
	defer closeBackends()

	set, err := registry.Resolve(specs.BackendSelection())
	if err != nil {
		return fmt.Errorf("failed to resolve backends: %v", err)
	}

	authn, err := authentication.NewAuthenticator(
		ctx,
		authentication.NewConfig(
			specs.AuthenticationEnabled,
			specs.AuthenticationIssuer,
			specs.AuthenticationJwksURL,
			specs.AuthenticationHMACSecret,
			specs.SessionCookieName,
			specs.SessionKeyPrefix,
			specs.RedisAddr,
			specs.RedisPassword,
			specs.RedisDB,
		),
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to setup authentication: %v", err)
	}

	authorizer, err := newAuthorizer(ctx, specs, tracer, monitor, logger)
	if err != nil {
		return err
	}

	router := web.NewRouter(
		specs.ApiPrefix,
		set,
		settings,
		web.ListPolicy{Users: specs.AllowListAllUsers, Enrollments: specs.AllowListAllEnrollment},
		authn,
		authorizer,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
