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

package panorama9

import "errors"

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errMissingEndpoint      = errors.New("panorama9 endpoint is required")
	errMissingAPIKey        = errors.New("panorama9 api key is required")
	errEmptyDeviceID        = errors.New("device id is empty")
)
