package models

// Profile is a looked-up player. Name falls back to Username and Country is
// the two-letter ISO code.
type Profile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Player bundles a profile with its decoded stats.
type Player struct {
	Profile Profile       `json:"profile"`
	Stats   []MetricStats `json:"stats"`
}
