package ebv

import (
	"fmt"
	"strings"
)

// EntityKey is the seven-field entity type used as an overlay lookup key.
type EntityKey struct {
	Kind        uint8
	Domain      uint8
	Country     uint16
	Category    uint8
	Subcategory uint8
	Specific    uint8
	Extra       uint8
}

// String renders the key in the dotted notation used by the EBV document.
func (k EntityKey) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d.%d.%d", k.Kind, k.Domain, k.Country, k.Category, k.Subcategory, k.Specific, k.Extra)
}

// Store layers site-specific names over the built-in tables.
type Store struct {
	entities map[EntityKey]string
	enums    map[string]map[uint64]string
}

type File struct {
	Entities []FileEntity                `json:"entities" yaml:"entities"`
	Enums    map[string]map[uint64]string `json:"enums" yaml:"enums"`
}

type FileEntity struct {
	Kind        int    `json:"kind" yaml:"kind"`
	Domain      int    `json:"domain" yaml:"domain"`
	Country     int    `json:"country" yaml:"country"`
	Category    int    `json:"category" yaml:"category"`
	Subcategory int    `json:"subcategory" yaml:"subcategory"`
	Specific    int    `json:"specific" yaml:"specific"`
	Extra       int    `json:"extra" yaml:"extra"`
	Name        string `json:"name" yaml:"name"`
}

func FromFile(file File) (*Store, error) {
	store := &Store{
		entities: make(map[EntityKey]string),
		enums:    make(map[string]map[uint64]string),
	}
	for i, e := range file.Entities {
		for _, f := range []struct {
			name string
			v    int
			max  int
		}{
			{"kind", e.Kind, 0xFF},
			{"domain", e.Domain, 0xFF},
			{"country", e.Country, 0xFFFF},
			{"category", e.Category, 0xFF},
			{"subcategory", e.Subcategory, 0xFF},
			{"specific", e.Specific, 0xFF},
			{"extra", e.Extra, 0xFF},
		} {
			if f.v < 0 || f.v > f.max {
				return nil, fmt.Errorf("entities[%d]: %s out of range", i, f.name)
			}
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("entities[%d]: empty name", i)
		}
		key := EntityKey{
			Kind:        uint8(e.Kind),
			Domain:      uint8(e.Domain),
			Country:     uint16(e.Country),
			Category:    uint8(e.Category),
			Subcategory: uint8(e.Subcategory),
			Specific:    uint8(e.Specific),
			Extra:       uint8(e.Extra),
		}
		if _, exists := store.entities[key]; exists {
			return nil, fmt.Errorf("entities[%d]: duplicate entity type %s", i, key)
		}
		store.entities[key] = name
	}
	for field, values := range file.Enums {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("enums: empty field tag")
		}
		m := make(map[uint64]string, len(values))
		for v, name := range values {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("enums[%s][%d]: empty name", field, v)
			}
			m[v] = name
		}
		store.enums[field] = m
	}
	return store, nil
}

// Describe looks the value up in the overlay first and then in the built-in
// tables. A nil store only consults the built-in tables.
func (s *Store) Describe(field string, value uint64) (string, bool) {
	if s != nil {
		if m, ok := s.enums[field]; ok {
			if name, ok := m[value]; ok {
				return name, true
			}
		}
	}
	return Describe(field, value)
}

// DescribeEntity names an entity type. Without an overlay entry the name is
// composed from the kind, domain and country tables.
func (s *Store) DescribeEntity(k EntityKey) (string, bool) {
	if s != nil {
		if name, ok := s.entities[k]; ok {
			return name, true
		}
	}
	kind, ok := entityKindNames[EntityKind(k.Kind)]
	if !ok {
		return "", false
	}
	parts := []string{kind}
	if EntityKind(k.Kind) == KindPlatform {
		if d, ok := domainNames[Domain(k.Domain)]; ok {
			parts = append(parts, d)
		}
	}
	if c, ok := countryNames[Country(k.Country)]; ok && k.Country != 0 {
		parts = append(parts, c)
	}
	return strings.Join(parts, "/"), true
}

func (s *Store) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.entities) == 0 && len(s.enums) == 0
}
