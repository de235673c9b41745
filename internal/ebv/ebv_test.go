package ebv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPDUTypeFamily(t *testing.T) {
	tests := []struct {
		typ    PDUType
		family ProtocolFamily
	}{
		{PDUTypeEntityState, FamilyEntityInformation},
		{PDUTypeDetonation, FamilyWarfare},
		{PDUTypeComment, FamilySimulationManagement},
		{PDUTypeSignal, FamilyRadioCommunications},
		{PDUTypeElectromagneticEmission, FamilyDistributedEmission},
		{PDUTypeEntityStateUpdate, FamilyEntityInformation},
	}
	for _, tc := range tests {
		got, ok := tc.typ.Family()
		if !ok || got != tc.family {
			t.Fatalf("%v.Family() = %v, %v; want %v", tc.typ, got, ok, tc.family)
		}
	}
	if _, ok := PDUType(200).Family(); ok {
		t.Fatalf("type 200 should not have a family")
	}
	if got := PDUType(200).String(); got != "unknown PDU type 200" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestDescribeUsesWireWidth(t *testing.T) {
	if name, ok := Describe("forceId", 2); !ok || name != "Opposing" {
		t.Fatalf("forceId 2 = %q, %v", name, ok)
	}
	if _, ok := Describe("forceId", 0x102); ok {
		t.Fatalf("forceId wider than a byte must not resolve")
	}
	if name, ok := Describe("encodingScheme", 0x4000|12); !ok || name != "Raw Binary Data" {
		t.Fatalf("encodingScheme = %q, %v", name, ok)
	}
	if _, ok := Describe("noSuchField", 1); ok {
		t.Fatalf("unknown field resolved")
	}
}

func TestStoreOverlayFallsBack(t *testing.T) {
	store, err := FromFile(File{
		Entities: []FileEntity{{Kind: 1, Domain: 1, Country: 225, Category: 1, Subcategory: 1, Specific: 3, Name: "M1A2 Abrams"}},
		Enums:    map[string]map[uint64]string{"forceId": {4: "Coalition"}},
	})
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if name, ok := store.Describe("forceId", 4); !ok || name != "Coalition" {
		t.Fatalf("overlay forceId 4 = %q, %v", name, ok)
	}
	if name, ok := store.Describe("forceId", 1); !ok || name != "Friendly" {
		t.Fatalf("fallback forceId 1 = %q, %v", name, ok)
	}
	key := EntityKey{Kind: 1, Domain: 1, Country: 225, Category: 1, Subcategory: 1, Specific: 3}
	if name, _ := store.DescribeEntity(key); name != "M1A2 Abrams" {
		t.Fatalf("entity name = %q", name)
	}
	key.Specific = 9
	if name, _ := store.DescribeEntity(key); name != "Platform/Land/United States" {
		t.Fatalf("composed entity name = %q", name)
	}
	var empty *Store
	if !empty.IsEmpty() {
		t.Fatalf("nil store should be empty")
	}
	if name, ok := empty.Describe("domain", 2); !ok || name != "Air" {
		t.Fatalf("nil store describe = %q, %v", name, ok)
	}
}

func TestFromFileRejectsBadEntries(t *testing.T) {
	cases := map[string]File{
		"range":     {Entities: []FileEntity{{Kind: 256, Name: "x"}}},
		"country":   {Entities: []FileEntity{{Country: -1, Name: "x"}}},
		"name":      {Entities: []FileEntity{{Kind: 1, Name: "  "}}},
		"duplicate": {Entities: []FileEntity{{Kind: 1, Name: "a"}, {Kind: 1, Name: "b"}}},
		"enum":      {Enums: map[string]map[uint64]string{"forceId": {1: ""}}},
	}
	for name, file := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromFile(file); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "overlay.yaml")
	yamlDoc := strings.Join([]string{
		"entities:",
		"  - {kind: 1, domain: 2, country: 224, category: 1, subcategory: 9, specific: 0, name: Typhoon}",
		"enums:",
		"  detonationResult:",
		"    30: Practice hit",
		"",
	}, "\n")
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	store, err := EnsureLoaded(yamlPath)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if name, _ := store.Describe("detonationResult", 30); name != "Practice hit" {
		t.Fatalf("yaml enum = %q", name)
	}

	jsonPath := filepath.Join(dir, "overlay.json")
	jsonDoc := `{"entities":[{"kind":3,"domain":1,"country":225,"category":1,"name":"Rifleman"}],"enums":{"forceId":{"7":"Exercise control"}}}`
	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	store, err = Load(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if name, _ := store.Describe("forceId", 7); name != "Exercise control" {
		t.Fatalf("json enum = %q", name)
	}
	if _, err := EnsureLoaded(dir); err == nil {
		t.Fatalf("directory should be rejected")
	}
	if _, err := EnsureLoaded(" "); err == nil {
		t.Fatalf("empty path should be rejected")
	}
}

func TestEnsureLoadedReusesUnchangedOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	write := func(doc string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("write overlay: %v", err)
		}
	}
	write("enums:\n  forceId:\n    7: Control\n")
	first, err := EnsureLoaded(path)
	if err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	again, err := EnsureLoaded(path)
	if err != nil || again != first {
		t.Fatalf("second load = %p, %v; want cached %p", again, err, first)
	}

	write("enums:\n  forceId:\n    7: Exercise control\n")
	changed, err := EnsureLoaded(path)
	if err != nil {
		t.Fatalf("EnsureLoaded after edit: %v", err)
	}
	if changed == first {
		t.Fatalf("edited overlay served from cache")
	}
	if name, _ := changed.Describe("forceId", 7); name != "Exercise control" {
		t.Fatalf("reloaded enum = %q", name)
	}
}
