package bot

import (
	"testing"

	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

func TestClosestName(t *testing.T) {
	catalog := []fish.Definition{
		{Name: "Minnow"},
		{Name: "Carp"},
		{Name: "Coelacanth"},
	}

	got, ok := closestName("minow", catalog)
	if !ok || got != "Minnow" {
		t.Errorf("closestName(minow) = %q, %v", got, ok)
	}

	got, ok = closestName("coelecanth", catalog)
	if !ok || got != "Coelacanth" {
		t.Errorf("closestName(coelecanth) = %q, %v", got, ok)
	}

	if _, ok := closestName("xyzzy", catalog); ok {
		t.Error("suggested a name for garbage input")
	}

	if _, ok := closestName("minnow", nil); ok {
		t.Error("suggested a name from an empty catalog")
	}
}
