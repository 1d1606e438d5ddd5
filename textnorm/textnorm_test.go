package textnorm

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Güemes  Norte", "guemes norte"},
		{"CANDIOTI", "candioti"},
		{"María Selva", "maria selva"},
		{"  dos   espacios  ", "dos espacios"},
		{"Paraná", "parana"},
	}
	for _, c := range cases {
		if got := Fold(c.in); got != c.want {
			t.Fatalf("Fold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Siete Jefes", "siete-jefes"},
		{"Bulevares", "bulevares"},
		{"Santa Fe, Capital", "santa-fe-capital"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Fatalf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
