package models

import "testing"

func TestNormalizeGender(t *testing.T) {
	cases := map[string]string{
		"male":   "Male",
		"MALE":   "Male",
		"Female": "Female",
		"oThEr":  "Other",
		"":       "",
	}
	for in, want := range cases {
		if got := NormalizeGender(in); got != want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidGender(t *testing.T) {
	for _, g := range []string{GenderMale, GenderFemale, GenderOther} {
		if !ValidGender(g) {
			t.Errorf("ValidGender(%q) = false", g)
		}
	}
	for _, g := range []string{"", "male", "Unknown", "M"} {
		if ValidGender(g) {
			t.Errorf("ValidGender(%q) = true", g)
		}
	}
}
