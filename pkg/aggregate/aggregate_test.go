package aggregate

import (
	"strings"
	"testing"

	"github.com/echosight/echosight/pkg/detect"
)

func TestSummarizeGroupingIsOrderStable(t *testing.T) {
	batch := detect.Batch{
		{Object: "cup", Location: "left"},
		{Object: "person", Location: "center"},
		{Object: "cup", Location: "right"},
	}

	s := Summarize(batch)

	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if len(s.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(s.Groups))
	}
	if s.Groups[0].Object != "cup" || s.Groups[1].Object != "person" {
		t.Errorf("group order = [%s, %s], want [cup, person]",
			s.Groups[0].Object, s.Groups[1].Object)
	}
	if got := strings.Join(s.Groups[0].Locations, ","); got != "left,right" {
		t.Errorf("cup locations = %q, want %q", got, "left,right")
	}
	if got := strings.Join(s.Groups[1].Locations, ","); got != "center" {
		t.Errorf("person locations = %q, want %q", got, "center")
	}
}

func TestSummarizeLatestIsFirstRawEntry(t *testing.T) {
	batch := detect.Batch{
		{Object: "book", Location: "top right"},
		{Object: "book", Location: "top left"},
		{Object: "chair", Location: "center"},
	}

	s := Summarize(batch)
	if s.Latest == nil {
		t.Fatal("expected a representative entry")
	}
	if s.Latest.Object != "book" || s.Latest.Location != "top right" {
		t.Errorf("Latest = %+v, want first raw entry", s.Latest)
	}
}

func TestSummarizeDeduplicatesLocations(t *testing.T) {
	batch := detect.Batch{
		{Object: "dog", Location: "center"},
		{Object: "dog", Location: "center"},
		{Object: "dog", Location: "bottom left"},
	}

	s := Summarize(batch)
	g := s.Groups[0]
	if g.Count != 3 {
		t.Errorf("Count = %d, want 3 (duplicates included)", g.Count)
	}
	if len(g.Locations) != 2 {
		t.Errorf("Locations = %v, want 2 distinct entries", g.Locations)
	}
}

func TestLines(t *testing.T) {
	batch := detect.Batch{
		{Object: "cup", Location: "left"},
		{Object: "cup", Location: "right"},
		{Object: "person", Location: "center"},
	}

	lines := Summarize(batch).Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if lines[0] != "cup x2: left, right" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "person: center" {
		t.Errorf("line 1 = %q (count must be omitted when 1)", lines[1])
	}
}

func TestEmptyBatch(t *testing.T) {
	s := Summarize(detect.Batch{})

	if !s.Empty() {
		t.Error("expected Empty() for empty batch")
	}
	if s.Description() != NoObjectsMessage {
		t.Errorf("Description = %q, want %q", s.Description(), NoObjectsMessage)
	}
	if s.Latest != nil {
		t.Errorf("Latest = %+v, want nil", s.Latest)
	}
}
