// Package geo serves the county and locality lists used by the client address forms.
package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
)

// Directory is an immutable county → localities index
type Directory struct {
	counties   []string
	localities map[string][]string
}

// LoadFile reads a {"<county>": ["<locality>", ...]} JSON document from path
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open locality directory: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a locality directory document
func Load(r io.Reader) (*Directory, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode locality directory: %w", err)
	}
	return New(raw), nil
}

// New builds a directory from an in-memory map. Inputs are copied and sorted.
func New(data map[string][]string) *Directory {
	d := &Directory{
		counties:   make([]string, 0, len(data)),
		localities: make(map[string][]string, len(data)),
	}
	for county, locs := range data {
		d.counties = append(d.counties, county)
		sorted := append([]string(nil), locs...)
		sort.Strings(sorted)
		d.localities[county] = sorted
	}
	sort.Strings(d.counties)
	return d
}

// Counties returns all counties sorted
func (d *Directory) Counties() []string {
	return append([]string(nil), d.counties...)
}

// Localities returns the sorted localities of a county, or an empty list
func (d *Directory) Localities(county string) []string {
	locs, ok := d.localities[county]
	if !ok {
		return []string{}
	}
	return append([]string(nil), locs...)
}

// SearchLocalities matches localities containing query, ignoring case
func (d *Directory) SearchLocalities(query string) []domain.LocalityMatchDTO {
	q := strings.ToLower(query)
	results := []domain.LocalityMatchDTO{}
	for _, county := range d.counties {
		for _, loc := range d.localities[county] {
			if strings.Contains(strings.ToLower(loc), q) {
				results = append(results, domain.LocalityMatchDTO{Judet: county, Localitate: loc})
			}
		}
	}
	return results
}

// SearchCounties matches counties containing query, ignoring case
func (d *Directory) SearchCounties(query string) []string {
	q := strings.ToLower(query)
	results := []string{}
	for _, county := range d.counties {
		if strings.Contains(strings.ToLower(county), q) {
			results = append(results, county)
		}
	}
	return results
}
