/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/warrantysync/pkg/cli"
	"github.com/carverauto/warrantysync/pkg/config"
	"github.com/carverauto/warrantysync/pkg/export"
	"github.com/carverauto/warrantysync/pkg/importer"
	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
	"github.com/carverauto/warrantysync/pkg/sync"
	"github.com/carverauto/warrantysync/pkg/version"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "warrantysync: %v\n\n", err)
		cli.ShowHelp(stderr)

		return cli.ExitUsage
	}

	if opts.Help {
		cli.ShowHelp(stdout)

		return cli.ExitOK
	}

	if opts.Version {
		fmt.Fprintln(stdout, version.GetFullVersion())

		return cli.ExitOK
	}

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "warrantysync: %v\n", err)

		return cli.ExitUsage
	}

	log, closeLog, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "warrantysync: failed to initialize logging: %v\n", err)

		return cli.ExitUsage
	}

	defer func() { _ = closeLog() }()

	log = log.WithField("run_id", uuid.NewString())

	if safe, err := config.SanitizeForLog(cfg); err == nil {
		log.Debug().RawJSON("config", safe).Msg("Effective configuration")
	}

	cfg.Tracing.ServiceVersion = version.GetVersion()

	shutdownTracing, err := logger.InitializeTracing(ctx, cfg.Tracing, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")

		return cli.ExitUsage
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	syncer, err := sync.NewDefault(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create syncer")

		return cli.ExitUsage
	}

	return execute(ctx, syncer, opts, log)
}

func loadConfig(ctx context.Context, opts *cli.Options) (*sync.Config, error) {
	var cfg sync.Config

	if err := config.NewConfig(nil).LoadAndValidate(ctx, opts.ConfigPath, &cfg); err != nil {
		return nil, err
	}

	if opts.Class != "" {
		cfg.DeviceClass = opts.Class
	}

	if opts.Verbose {
		cfg.Logging.Debug = true
		cfg.Logging.Level = "debug"
	}

	if opts.LogFile != "" {
		cfg.Logging.Output = opts.LogFile
	}

	return &cfg, nil
}

func execute(ctx context.Context, syncer *sync.Syncer, opts *cli.Options, log logger.Logger) int {
	var err error

	log.Info().Str("mode", opts.Mode()).Msg("Starting warranty sync")

	switch opts.Mode() {
	case sync.ModeImport:
		records, loadErr := importer.Load(opts.ImportPath)
		if loadErr != nil {
			log.Error().Err(loadErr).Str("path", opts.ImportPath).Msg("Failed to read import file")

			return cli.ExitUsage
		}

		_, err = syncer.Import(ctx, records, opts.DryRun)
	case sync.ModeExport:
		_, err = syncer.Export(ctx, func(devices []models.Device, batch models.ResolutionBatch) error {
			rows := export.BuildRows(devices, batch)

			log.Info().Str("path", opts.ExportPath).Int("rows", len(rows)).Msg("Writing export file")

			return export.WriteFile(opts.ExportPath, rows)
		})
	default:
		_, err = syncer.Run(ctx, opts.DryRun)
	}

	if err == nil {
		return cli.ExitOK
	}

	if errors.Is(err, context.Canceled) {
		log.Warn().Msg("Interrupted")
	}

	return cli.ExitFailed
}
