package docx

import "testing"

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		styleID string
		want    int
	}{
		{"Heading1", 1},
		{"Heading2", 2},
		{"Heading9", 9},
		{"heading3", 3},
		{"Title", 1},
		{"title", 1},
		{"Subtitle", 2},
		{"Titre1", 1},
		{"Überschrift2", 2},
		{"Normal", 0},
		{"BodyText", 0},
		{"Heading", 0},   // no level digit
		{"Heading10", 0}, // two digits, not a level
		{"Heading0", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := HeadingLevel(tt.styleID); got != tt.want {
			t.Errorf("HeadingLevel(%q) = %d, want %d", tt.styleID, got, tt.want)
		}
	}
}

func TestIsHeading(t *testing.T) {
	if !IsHeading("Heading1") {
		t.Error("IsHeading(Heading1) = false, want true")
	}
	if !IsHeading("Title") {
		t.Error("IsHeading(Title) = false, want true")
	}
	if IsHeading("Normal") {
		t.Error("IsHeading(Normal) = true, want false")
	}
	if IsHeading("") {
		t.Error("IsHeading(\"\") = true, want false")
	}
}
