package extraction

import (
	"encoding/json"
	"strings"

	"github.com/phrazzld/focus-api/internal/domain"
)

const (
	fallbackMaxCandidates = 3
	fallbackTitleLimit    = 50
	fallbackEllipsis      = "..."
	fallbackMinutes       = 30
)

// fallbackCandidate fixes the key order of fallback output.
type fallbackCandidate struct {
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Priority         string  `json:"priority"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	DueDate          *string `json:"due_date"`
}

// fallbackCandidates builds placeholder candidates from the first non-blank
// lines of text. It is deterministic and cannot fail.
func fallbackCandidates(text string) json.RawMessage {
	candidates := make([]fallbackCandidate, 0, fallbackMaxCandidates)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		candidates = append(candidates, fallbackCandidate{
			Title:            truncateTitle(line),
			Category:         domain.CategoryWork,
			Priority:         domain.PriorityMedium,
			EstimatedMinutes: fallbackMinutes,
		})
		if len(candidates) == fallbackMaxCandidates {
			break
		}
	}

	// Marshalling plain strings and ints cannot fail.
	raw, _ := json.Marshal(candidates)
	return raw
}

// truncateTitle keeps titles of up to 50 characters and shortens longer ones
// to 47 characters plus an ellipsis.
func truncateTitle(line string) string {
	runes := []rune(line)
	if len(runes) <= fallbackTitleLimit {
		return line
	}
	return string(runes[:fallbackTitleLimit-len(fallbackEllipsis)]) + fallbackEllipsis
}
