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
	"errors"

	"github.com/carverauto/warrantysync/pkg/models"
)

// Outcome is the classified result of one warranty lookup.
type Outcome int

const (
	OutcomeResolved Outcome = iota
	OutcomeNotFound
	OutcomeUnsupported
	OutcomeFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Classify maps a strategy error onto an Outcome. A nil error is a success,
// lookup misses (scrape mismatches included) are NotFound, and everything
// else is a transport fault.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, models.ErrUnsupportedManufacturer):
		return OutcomeUnsupported
	case errors.Is(err, models.ErrLookupNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFault
	}
}
