// Package aggregate turns raw detection batches into grouped,
// de-duplicated summaries ready for display and announcement.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/echosight/echosight/pkg/detect"
)

// NoObjectsMessage is the canonical description for an empty batch.
// An empty batch is a valid "nothing found" result, never an error.
const NoObjectsMessage = "No objects detected"

// Group collects every detection sharing one object label.
type Group struct {
	// Object is the shared label.
	Object string

	// Locations holds the distinct locations in arrival order.
	Locations []string

	// Count is the number of detections in the group, duplicates included.
	Count int
}

// Summary is the announceable digest of one detection batch.
type Summary struct {
	// Groups are keyed by object label in first-seen order.
	Groups []Group

	// Total is the number of detections in the raw batch.
	Total int

	// Latest is the first entry of the original, ungrouped response,
	// used as the "last detection" representative. Nil for empty batches.
	Latest *detect.Detection
}

// Summarize groups batch by object label, preserving first-seen order of
// labels and arrival order of locations within a group.
func Summarize(batch detect.Batch) Summary {
	s := Summary{Total: len(batch)}
	if len(batch) == 0 {
		return s
	}

	first := batch[0]
	s.Latest = &first

	index := make(map[string]int, len(batch))
	for _, d := range batch {
		i, ok := index[d.Object]
		if !ok {
			index[d.Object] = len(s.Groups)
			s.Groups = append(s.Groups, Group{
				Object:    d.Object,
				Locations: []string{d.Location},
				Count:     1,
			})
			continue
		}

		g := &s.Groups[i]
		g.Count++
		if !contains(g.Locations, d.Location) {
			g.Locations = append(g.Locations, d.Location)
		}
	}
	return s
}

// Empty reports whether the batch held no detections.
func (s Summary) Empty() bool {
	return s.Total == 0
}

// Lines renders one description line per label: the label, an occurrence
// count when above one, and the comma-joined distinct locations.
func (s Summary) Lines() []string {
	lines := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		if g.Count > 1 {
			lines = append(lines, fmt.Sprintf("%s x%d: %s", g.Object, g.Count, strings.Join(g.Locations, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", g.Object, strings.Join(g.Locations, ", ")))
		}
	}
	return lines
}

// Description renders the multi-line summary, or the canonical
// no-objects message for an empty batch.
func (s Summary) Description() string {
	if s.Empty() {
		return NoObjectsMessage
	}
	return strings.Join(s.Lines(), "\n")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
