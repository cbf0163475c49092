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

package lenovo

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/carverauto/warrantysync/pkg/models"
)

const (
	formSelector = "form#serialNumberForm"

	serialField  = "SerialCode"
	machineField = "MachineType"
)

// lookupForm is the warranty lookup form as found on the landing page.
type lookupForm struct {
	action *url.URL
	method string
	values url.Values
	fields map[string]bool // every named control, submitted or not
}

// parseLookupForm finds the serial number form in doc and collects the values
// a browser would submit for it. base is the URL the page was served from.
func parseLookupForm(doc *goquery.Document, base *url.URL) (*lookupForm, error) {
	form := doc.Find(formSelector).First()
	if form.Length() == 0 {
		return nil, fmt.Errorf("%w: %s not found", models.ErrScrapeStructureMismatch, formSelector)
	}

	action, err := base.Parse(strings.TrimSpace(form.AttrOr("action", "")))
	if err != nil {
		return nil, fmt.Errorf("%w: bad form action: %w", models.ErrScrapeStructureMismatch, err)
	}

	method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", http.MethodGet)))
	if method != http.MethodPost {
		method = http.MethodGet
	}

	values, fields := collectControls(form)

	return &lookupForm{
		action: action,
		method: method,
		values: values,
		fields: fields,
	}, nil
}

// fill sets the serial and machine type controls. Read-only controls are
// overwritten like any other. A form lacking either control is a mismatch.
func (f *lookupForm) fill(serial, model string) error {
	for _, name := range []string{serialField, machineField} {
		if !f.fields[name] {
			return fmt.Errorf("%w: %s has no %s control", models.ErrScrapeStructureMismatch, formSelector, name)
		}
	}

	f.values.Set(serialField, serial)
	f.values.Set(machineField, model)

	return nil
}

// request builds the submission for the filled form.
func (f *lookupForm) request() (method, target, body string) {
	encoded := f.values.Encode()

	if f.method == http.MethodPost {
		return http.MethodPost, f.action.String(), encoded
	}

	u := *f.action
	u.RawQuery = encoded

	return http.MethodGet, u.String(), ""
}

func collectControls(form *goquery.Selection) (url.Values, map[string]bool) {
	values := url.Values{}
	fields := map[string]bool{}

	form.Find("input[name], select[name], textarea[name]").Each(func(_ int, s *goquery.Selection) {
		fields[s.AttrOr("name", "")] = true
	})

	form.Find("input[name]").Each(func(_ int, in *goquery.Selection) {
		if isDisabled(in) {
			return
		}

		name, _ := in.Attr("name")

		switch strings.ToLower(in.AttrOr("type", "text")) {
		case "submit", "button", "image", "reset", "file":
			return
		case "checkbox", "radio":
			if _, checked := in.Attr("checked"); !checked {
				return
			}

			values.Add(name, in.AttrOr("value", "on"))
		default:
			values.Add(name, in.AttrOr("value", ""))
		}
	})

	form.Find("select[name]").Each(func(_ int, sel *goquery.Selection) {
		if isDisabled(sel) {
			return
		}

		name, _ := sel.Attr("name")

		selected := sel.Find("option[selected]")
		if selected.Length() == 0 {
			if _, multiple := sel.Attr("multiple"); multiple {
				return
			}

			selected = sel.Find("option").First()
		}

		selected.Each(func(_ int, opt *goquery.Selection) {
			values.Add(name, optionValue(opt))
		})
	})

	form.Find("textarea[name]").Each(func(_ int, ta *goquery.Selection) {
		if isDisabled(ta) {
			return
		}

		name, _ := ta.Attr("name")
		values.Add(name, ta.Text())
	})

	return values, fields
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}

	return strings.TrimSpace(opt.Text())
}

func isDisabled(s *goquery.Selection) bool {
	_, disabled := s.Attr("disabled")

	return disabled
}
