package gazetteer

import "testing"

func TestFindAll(t *testing.T) {
	table := New(defaultEntries)

	locs := table.FindAll("busco depto en Candioti o por los bulevares")
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %v", locs)
	}
	if locs[0] != "Candioti" || locs[1] != "Bulevares" {
		t.Fatalf("unexpected locations: %v", locs)
	}
}

func TestFindAllDeduplicates(t *testing.T) {
	table := New(defaultEntries)

	locs := table.FindAll("bulevar o boulevard, da igual")
	if len(locs) != 1 || locs[0] != "Bulevares" {
		t.Fatalf("expected single canonical Bulevares, got %v", locs)
	}
}

func TestFindAllAccentInsensitive(t *testing.T) {
	table := New(defaultEntries)

	locs := table.FindAll("algo en María Selva estaría bien")
	if len(locs) != 1 || locs[0] != "María Selva" {
		t.Fatalf("expected María Selva, got %v", locs)
	}
}

func TestFindAllWordBoundary(t *testing.T) {
	table := New([]Entry{{Alias: "sur", Canonical: "Barrio Sur"}})

	if locs := table.FindAll("un terreno en el sureste"); len(locs) != 0 {
		t.Fatalf("alias matched inside a longer word: %v", locs)
	}
	if locs := table.FindAll("algo por el sur"); len(locs) != 1 {
		t.Fatalf("expected boundary match, got %v", locs)
	}
}

func TestFindAllEmpty(t *testing.T) {
	table := New(defaultEntries)

	if locs := table.FindAll("alquiler depto 2 ambientes con cochera"); len(locs) != 0 {
		t.Fatalf("expected no locations, got %v", locs)
	}
}
