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

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	outputStdout = "stdout"
	outputStderr = "stderr"
)

type Config struct {
	Level      string `json:"level"`
	Debug      bool   `json:"debug"`
	Output     string `json:"output"` // stdout, stderr or a file path
	TimeFormat string `json:"time_format"`
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// New builds a logger from config. The returned close func releases the log
// file when Output names one and is a no-op otherwise.
func New(config *Config) (Logger, func() error, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output, closeFn, err := openOutput(config.Output)
	if err != nil {
		return nil, nil, err
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			_ = closeFn()

			return nil, nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zeroLogger{logger: zl}, closeFn, nil
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch output {
	case "", outputStdout:
		return os.Stdout, noop, nil
	case outputStderr:
		return os.Stderr, noop, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file '%s': %w", output, err)
	}

	return f, f.Close, nil
}
