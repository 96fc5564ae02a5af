package validator

import "testing"

func TestValidator(t *testing.T) {
	v := New()
	if !v.Valid() {
		t.Error("new validator should be valid")
	}

	v.Check(true, "title", "must be provided")
	if !v.Valid() {
		t.Error("passing check should not record an error")
	}

	v.Check(false, "title", "must be provided")
	if v.Valid() {
		t.Error("failing check should record an error")
	}
	if v.Errors["title"] != "must be provided" {
		t.Errorf("unexpected error message: %q", v.Errors["title"])
	}

	// The first recorded message for a key wins.
	v.AddError("title", "something else")
	if v.Errors["title"] != "must be provided" {
		t.Errorf("existing error was overwritten: %q", v.Errors["title"])
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"reader@example.com", true},
		{"reader+tag@example.co.uk", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.email, EmailRX); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("Fantasy", "Fiction", "Fantasy", "Horror") {
		t.Error("expected Fantasy to be permitted")
	}
	if PermittedValue("Cookbook", "Fiction", "Fantasy", "Horror") {
		t.Error("expected Cookbook to be rejected")
	}
}

func TestUnique(t *testing.T) {
	if !Unique([]string{"a", "b", "c"}) {
		t.Error("expected distinct values to be unique")
	}
	if Unique([]string{"a", "b", "a"}) {
		t.Error("expected repeated values to be non-unique")
	}
}
