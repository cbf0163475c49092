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

// Package export writes the warranty report as CSV or XLSX.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carverauto/warrantysync/pkg/models"
)

// Header is the first row of every export.
var Header = []string{
	"Device UID",
	"Name",
	"Service Tag",
	"Manufacturer",
	"Warranty End Date",
	"Shipped Date",
	"Unit Cost",
}

var errEmptyPath = errors.New("export path is empty")

// Row is one device line of the report. Date and cost cells are empty when
// the warranty was not resolved.
type Row struct {
	DeviceID     string
	Name         string
	ServiceTag   string
	Manufacturer string
	WarrantyEnd  string
	Shipped      string
	UnitCost     string
}

// Values returns the cells in Header order.
func (r *Row) Values() []string {
	return []string{r.DeviceID, r.Name, r.ServiceTag, r.Manufacturer, r.WarrantyEnd, r.Shipped, r.UnitCost}
}

// BuildRows returns one row per device with a supported manufacturer, in
// inventory order.
func BuildRows(devices []models.Device, batch models.ResolutionBatch) []Row {
	rows := make([]Row, 0, len(devices))

	for i := range devices {
		d := &devices[i]
		if d.Vendor() == models.ManufacturerOther {
			continue
		}

		row := Row{
			DeviceID:     d.DeviceID,
			Name:         d.Name,
			ServiceTag:   d.SerialNumber,
			Manufacturer: d.Manufacturer,
		}

		if rec, ok := batch[d.DeviceID]; ok {
			row.WarrantyEnd = rec.WarrantyDate.Date()
			row.Shipped = rec.ShippingDate.Date()
			row.UnitCost = rec.Price.String()
		}

		rows = append(rows, row)
	}

	return rows
}

// IsXLSX reports whether path names a spreadsheet export.
func IsXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// WriteFile writes rows to path, as XLSX for a .xlsx extension and CSV
// otherwise.
func WriteFile(path string, rows []Row) (err error) {
	if path == "" {
		return errEmptyPath
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	if IsXLSX(path) {
		return WriteXLSX(f, rows)
	}

	return WriteCSV(f, rows)
}
