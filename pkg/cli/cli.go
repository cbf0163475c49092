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

// Package cli parses the warrantysync command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Parse parses args (without the program name). Both -flag and --flag
// spellings are accepted for every option.
func Parse(args []string) (*Options, error) {
	opts := &Options{}

	fs := flag.NewFlagSet("warrantysync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.BoolVar(&opts.Help, "h", false, "show help")
	fs.BoolVar(&opts.Help, "help", false, "show help")
	fs.BoolVar(&opts.Verbose, "v", false, "debug logging")
	fs.BoolVar(&opts.Verbose, "verbose", false, "debug logging")
	fs.BoolVar(&opts.Version, "version", false, "print version")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "do not publish")
	fs.StringVar(&opts.ConfigPath, "c", "", "config file")
	fs.StringVar(&opts.ConfigPath, "config", "", "config file")
	fs.StringVar(&opts.ImportPath, "i", "", "import file")
	fs.StringVar(&opts.ImportPath, "import", "", "import file")
	fs.StringVar(&opts.ExportPath, "e", "", "export file")
	fs.StringVar(&opts.ExportPath, "export", "", "export file")
	fs.StringVar(&opts.LogFile, "logfile", "", "log file")
	fs.StringVar(&opts.Class, "class", "", "device class")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrUsage, errUnexpectedArgs, strings.Join(fs.Args(), " "))
	}

	if opts.Help || opts.Version {
		return opts, nil
	}

	if err := opts.validate(fs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return opts, nil
}

func (o *Options) validate(fs *flag.FlagSet) error {
	if o.ImportPath != "" && o.ExportPath != "" {
		return errImportAndExport
	}

	var err error

	// "-c ''" is almost always a shell quoting mistake.
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}

		if _, isBool := f.Value.(interface{ IsBoolFlag() bool }); isBool {
			return
		}

		if strings.TrimSpace(f.Value.String()) == "" {
			err = fmt.Errorf("%w: --%s", errEmptyValue, f.Name)
		}
	})

	return err
}
