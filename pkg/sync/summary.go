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

package sync

import (
	"time"

	"github.com/carverauto/warrantysync/pkg/logger"
)

// Run modes reported in the summary line.
const (
	ModeSync   = "sync"
	ModeDryRun = "dry_run"
	ModeExport = "export"
	ModeImport = "import"
)

// Summary holds the counters of one run.
type Summary struct {
	Mode          string
	Devices       int
	Resolved      int
	NotFound      int
	Unsupported   int
	Faults        int
	Published     int
	PublishFailed int
	Duration      time.Duration
}

func (s *Summary) addResolution(res *Resolution) {
	if res == nil {
		return
	}

	s.Resolved += len(res.Batch)
	s.Unsupported += res.Unsupported

	for i := range res.Skipped {
		switch res.Skipped[i].Outcome {
		case OutcomeNotFound:
			s.NotFound++
		case OutcomeFault:
			s.Faults++
		case OutcomeResolved, OutcomeUnsupported:
		}
	}
}

func (s *Summary) addPublish(res *PublishResult) {
	if res == nil {
		return
	}

	s.Published += res.Published
	s.PublishFailed += len(res.Failed)
}

func (s *Summary) counts() map[string]int {
	return map[string]int{
		"devices":        s.Devices,
		"resolved":       s.Resolved,
		"not_found":      s.NotFound,
		"unsupported":    s.Unsupported,
		"faults":         s.Faults,
		"published":      s.Published,
		"publish_failed": s.PublishFailed,
	}
}

// Log writes the end-of-run summary as a single structured line.
func (s *Summary) Log(log logger.Logger, err error) {
	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("mode", s.Mode).
		Int("devices", s.Devices).
		Int("resolved", s.Resolved).
		Int("not_found", s.NotFound).
		Int("unsupported", s.Unsupported).
		Int("faults", s.Faults).
		Int("published", s.Published).
		Int("publish_failed", s.PublishFailed).
		Dur("duration", s.Duration).
		Msg("Warranty sync finished")
}
