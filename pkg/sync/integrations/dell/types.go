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

package dell

// WarrantyResponse is the body of the getassetwarranty call.
type WarrantyResponse struct {
	AssetWarrantyResponse []AssetWarranty `json:"AssetWarrantyResponse"`
}

// AssetWarranty carries the header and entitlements of one service tag.
type AssetWarranty struct {
	AssetHeaderData      AssetHeader   `json:"AssetHeaderData"`
	AssetEntitlementData []Entitlement `json:"AssetEntitlementData"`
}

// AssetHeader describes the asset itself.
type AssetHeader struct {
	ServiceTag  string `json:"ServiceTag"`
	MachineDesc string `json:"MachineDescription,omitempty"`
	ShipDate    string `json:"ShipDate"`
}

// Entitlement is one service contract attached to the asset.
type Entitlement struct {
	ServiceLevelDescription string `json:"ServiceLevelDescription"`
	ServiceLevelCode        string `json:"ServiceLevelCode,omitempty"`
	EntitlementType         string `json:"EntitlementType,omitempty"`
	StartDate               string `json:"StartDate"`
	EndDate                 string `json:"EndDate"`
}
