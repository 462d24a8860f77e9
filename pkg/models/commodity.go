// Package models defines the data structures served by the MandiWatch API.
package models

// CommodityRecord is one parsed market quote.
//
// Price fields are kept as text exactly as the upstream page formats
// them; parsing them to floats would silently rewrite precision the
// source never promised.
type CommodityRecord struct {
	Price     string            `json:"price"`
	Change    string            `json:"change"`
	High      string            `json:"high"`
	Low       string            `json:"low"`
	Expiry    string            `json:"expiry,omitempty"`     // contract expiry, e.g. "apr-26"
	Unit      string            `json:"unit,omitempty"`       // e.g. "INR/10g", "INR/kg"
	Types     map[string]string `json:"types,omitempty"`      // bullion sub-quotes, e.g. gold 22k/24k
	UpdatedAt string            `json:"updated_at"`           // IST, "2006-01-02 15:04:05"
}

// Snapshot maps a normalized commodity name to its record. One scrape
// pass produces a whole new Snapshot; it is never mutated afterwards.
// A record is either fully populated or absent — partial rows are
// dropped by the scraper, never stored.
type Snapshot map[string]CommodityRecord

// Names returns the commodity names present in the snapshot.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
