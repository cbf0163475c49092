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

package cli

// Process exit codes.
const (
	ExitOK     = 0
	ExitUsage  = 1
	ExitFailed = 2
)

// Options holds the parsed command line.
type Options struct {
	Help       bool
	Verbose    bool
	Version    bool
	DryRun     bool
	ConfigPath string
	ImportPath string
	ExportPath string
	LogFile    string
	Class      string
}

// Mode names the run selected by the flags.
func (o *Options) Mode() string {
	switch {
	case o.ImportPath != "":
		return "import"
	case o.ExportPath != "":
		return "export"
	case o.DryRun:
		return "dry_run"
	default:
		return "sync"
	}
}
