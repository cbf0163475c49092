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

import (
	"fmt"
	"io"
)

// ShowHelp writes the usage message to w.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `warrantysync: sync hardware warranty data into Panorama9
Usage:
  warrantysync [-h|--help] [-v|--verbose] [--version] [-c|--config FILE]
               [-i|--import FILE] [--logfile FILE] [-e|--export FILE]
               [--class NAME] [--dry-run]

Modes:
  (default)          fetch devices, look up warranties and update Panorama9
  -i, --import FILE  update devices from a JSON import file
  -e, --export FILE  write resolved warranties to FILE (.xlsx or CSV)

Options:
  -h, --help         show this help message
  -v, --verbose      enable debug logging
      --version      print the version and exit
  -c, --config FILE  path to the JSON config file
      --logfile FILE write logs to FILE instead of stdout
      --class NAME   Panorama9 device class to fetch (default "computers")
      --dry-run      resolve warranties but do not update Panorama9

Environment:
  WARRANTYSYNC_PANORAMA9_API_KEY, WARRANTYSYNC_DELL_API_KEY and any other
  config key, upper-cased and joined by underscores, override the file.

Exit codes:
  0  success
  1  usage or configuration error
  2  upstream or transport failure
`)
}
