package domain

import "testing"

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                    "",
		"   ":                 "",
		"Akira Kurosawa":      "Akira Kurosawa",
		"  Akira   Kurosawa ": "Akira Kurosawa",
		"Seven\tSamurai\n":    "Seven Samurai",
	}
	for in, want := range cases {
		if got := NormalizeHumanName(in); got != want {
			t.Fatalf("NormalizeHumanName(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestValidReleaseYear(t *testing.T) {
	t.Parallel()

	if ValidReleaseYear(1894) {
		t.Fatalf("ValidReleaseYear(1894)=true, want false")
	}
	if !ValidReleaseYear(MinReleaseYear) {
		t.Fatalf("ValidReleaseYear(%d)=false, want true", MinReleaseYear)
	}
}
