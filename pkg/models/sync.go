package models

// Panorama9Config describes how to reach the fleet platform API.
type Panorama9Config struct {
	Endpoint   string `json:"endpoint"`               // e.g. https://dashboard.panorama9.com
	APIKey     string `json:"api_key" sensitive:"true"`
	AuthScheme string `json:"auth_scheme,omitempty"` // Authorization header scheme, "OAuth" by default
}

// DellConfig configures the Dell asset warranty API lookup.
type DellConfig struct {
	Endpoint string `json:"endpoint"` // e.g. https://api.dell.com
	APIKey   string `json:"api_key" sensitive:"true"`

	// ServiceLevel is the entitlement description that counts as the warranty.
	ServiceLevel string `json:"service_level,omitempty"`
}

// LenovoConfig configures the Lenovo warranty lookup page scraper.
type LenovoConfig struct {
	LookupURL string `json:"lookup_url"`
}
