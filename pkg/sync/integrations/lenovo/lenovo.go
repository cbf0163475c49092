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

// Package lenovo resolves warranty dates for Lenovo hardware by submitting the
// public warranty lookup form and reading the result page.
package lenovo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

const (
	DefaultLookupURL = "http://support.lenovo.com/us/en/warrantylookup"

	// DateLayout is how the result page prints dates.
	DateLayout = "2006-01-02"

	resultSelector = "#warranty_result_div"
	cellSelector   = ".cell3"

	labelStartDate = "Start Date"
	labelEndDate   = "End Date"
)

var (
	errInvalidIdentifier    = errors.New("serial number or model is INVALID")
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errMissingDates         = errors.New("result page has no start or end date")
)

// Strategy scrapes the Lenovo warranty lookup page. Each lookup runs in its
// own cookie session.
type Strategy struct {
	lookupURL string
	client    *http.Client
	logger    logger.Logger
}

// New builds a Lenovo strategy. client is used as a template: its transport
// and timeout are shared, its cookie jar is replaced per lookup.
func New(cfg *models.LenovoConfig, client *http.Client, log logger.Logger) (*Strategy, error) {
	lookupURL := DefaultLookupURL
	if cfg != nil && cfg.LookupURL != "" {
		lookupURL = cfg.LookupURL
	}

	if _, err := url.Parse(lookupURL); err != nil {
		return nil, fmt.Errorf("invalid lenovo lookup url: %w", err)
	}

	if client == nil {
		client = &http.Client{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Strategy{
		lookupURL: lookupURL,
		client:    client,
		logger:    log.WithComponent("lenovo"),
	}, nil
}

// Lookup resolves device by serial number and machine type. Devices whose
// serial or model is the INVALID sentinel are not found without touching
// the network.
func (s *Strategy) Lookup(ctx context.Context, device *models.Device) (*models.WarrantyRecord, error) {
	if device.SerialNumber == models.InvalidIdentifier || device.Model == models.InvalidIdentifier {
		return nil, fmt.Errorf("%w: %w", models.ErrLookupNotFound, errInvalidIdentifier)
	}

	client, err := s.session()
	if err != nil {
		return nil, err
	}

	page, pageURL, err := s.get(ctx, client, http.MethodGet, s.lookupURL, "")
	if err != nil {
		return nil, err
	}

	form, err := parseLookupForm(page, pageURL)
	if err != nil {
		return nil, err
	}

	if err := form.fill(device.SerialNumber, device.Model); err != nil {
		return nil, err
	}

	method, target, body := form.request()

	s.logger.Debug().
		Str("device_id", device.DeviceID).
		Str("method", method).
		Str("action", form.action.String()).
		Msg("Submitting warranty lookup form")

	result, _, err := s.get(ctx, client, method, target, body)
	if err != nil {
		return nil, err
	}

	return parseResult(result)
}

func (s *Strategy) session() (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("%w: cookie jar: %w", models.ErrTransportFault, err)
	}

	client := *s.client
	client.Jar = jar

	return &client, nil
}

// get performs one request and parses the HTML it returns. The returned URL is
// the final one after redirects, for resolving relative links.
func (s *Strategy) get(ctx context.Context, client *http.Client, method, target, body string) (*goquery.Document, *url.URL, error) {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrTransportFault, err)
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrTransportFault, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, fmt.Errorf("%w: %w: %d from %s", models.ErrTransportFault, errUnexpectedStatusCode, resp.StatusCode, target)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parse html: %w", models.ErrTransportFault, err)
	}

	return doc, resp.Request.URL, nil
}

// parseResult reads the start and end dates out of the result container.
func parseResult(doc *goquery.Document) (*models.WarrantyRecord, error) {
	container := doc.Find(resultSelector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: %s not found", models.ErrScrapeStructureMismatch, resultSelector)
	}

	var (
		shipped, warrantyEnd time.Time
		parseErr             error
	)

	container.Find(cellSelector).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())

		label, value, ok := strings.Cut(text, ":")
		if !ok {
			parseErr = fmt.Errorf("%w: cell %q has no label", models.ErrScrapeStructureMismatch, text)

			return false
		}

		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)

		var target *time.Time

		switch label {
		case labelStartDate:
			target = &shipped
		case labelEndDate:
			target = &warrantyEnd
		default:
			return true
		}

		t, err := time.Parse(DateLayout, value)
		if err != nil {
			parseErr = fmt.Errorf("%w: %s %q: %w", models.ErrScrapeStructureMismatch, label, value, err)

			return false
		}

		*target = t

		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	if shipped.IsZero() || warrantyEnd.IsZero() {
		return nil, fmt.Errorf("%w: %w", models.ErrLookupNotFound, errMissingDates)
	}

	return models.NewWarrantyRecord(shipped, warrantyEnd), nil
}
