package dis

import (
	"encoding/json"
	"strings"
	"testing"

	"example.com/disgate/internal/ebv"
)

func TestDumpIndexesListElements(t *testing.T) {
	out := Dump(samplePDUs()[0])
	for _, want := range []string{
		"<EntityStatePdu>\n",
		`<protocolVersion type="uint8" desc="IEEE 1278.1A-1998">6</protocolVersion>`,
		`<pduType type="uint8" desc="Entity State">1</pduType>`,
		`<length type="uint16">176</length>`,
		`<forceId type="uint8" desc="Friendly">1</forceId>`,
		`<entityType type="EntityType" desc="Platform/Land/United States">`,
		`<articulationParameters0 type="ArticulationParameter">`,
		`<articulationParameters1 type="ArticulationParameter">`,
		`<psi type="float32">1.5</psi>`,
		`<characters type="uint8[11]">414c504841203100000000</characters>`,
		"</EntityStatePdu>\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "padding") {
		t.Fatalf("dump shows padding:\n%s", out)
	}
}

func TestTreeOverlayDescriptions(t *testing.T) {
	store, err := ebv.FromFile(ebv.File{
		Entities: []ebv.FileEntity{{Kind: 1, Domain: 1, Country: 225, Category: 1, Subcategory: 1, Specific: 3, Name: "M1A2 Abrams"}},
	})
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	root := Tree(samplePDUs()[0], WithDescriber(store))
	var found bool
	for _, c := range root.Children {
		if c.Name == "entityType" {
			found = true
			if c.Description != "M1A2 Abrams" {
				t.Fatalf("entityType description %q", c.Description)
			}
		}
	}
	if !found {
		t.Fatalf("entityType missing from tree")
	}
	if _, err := json.Marshal(root); err != nil {
		t.Fatalf("tree is not JSON encodable: %v", err)
	}
}

func TestTreeReportsEffectiveSignalBits(t *testing.T) {
	p := NewSignalPdu()
	p.Data = []byte{1, 2}
	out := Dump(p)
	if !strings.Contains(out, `<dataLength type="uint16">16</dataLength>`) {
		t.Fatalf("dump:\n%s", out)
	}
	if !strings.Contains(out, `<data type="uint8[2]">0102</data>`) {
		t.Fatalf("dump:\n%s", out)
	}
}
