package aggregate

import (
	"fmt"
	"strings"

	"github.com/echosight/echosight/pkg/detect"
)

// Sentence builds a natural-language narration of a batch for speech.
// People are counted first with one position sentence each, then the
// remaining objects are listed with conjunction rules.
func Sentence(batch detect.Batch) string {
	if len(batch) == 0 {
		return NoObjectsMessage
	}

	var persons []detect.Detection
	var others []string
	for _, d := range batch {
		if d.Object == "person" {
			persons = append(persons, d)
		} else {
			others = append(others, fmt.Sprintf("%s in %s", d.Object, d.Location))
		}
	}

	var sentences []string

	if n := len(persons); n > 0 {
		if n == 1 {
			sentences = append(sentences, "There is 1 person.")
		} else {
			sentences = append(sentences, fmt.Sprintf("There are %d persons.", n))
		}
		for _, p := range persons {
			sentences = append(sentences, fmt.Sprintf("One in %s.", p.Location))
		}
	}

	if len(others) > 0 {
		sentences = append(sentences, "Also, I see: "+joinWithAnd(others)+".")
	}

	return strings.Join(sentences, " ")
}

// joinWithAnd joins items as "a", "a and b", or "a, b, and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
