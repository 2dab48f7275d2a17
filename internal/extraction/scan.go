package extraction

import (
	"encoding/json"
	"strings"
)

// ExtractJSONArray returns the first balanced [...] span in completion and
// checks that it parses as JSON.
//
// Brackets are counted without regard to JSON string literals, so a "]"
// inside a quoted title closes a level like any other.
func ExtractJSONArray(completion string) (string, error) {
	start := strings.IndexByte(completion, '[')
	if start == -1 {
		return "", &Error{Kind: KindNoArrayFound, Fragment: completion}
	}

	depth := 0
	end := -1
	for i := start; i < len(completion); i++ {
		switch completion[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 {
			end = i
			break
		}
	}
	if end == -1 {
		return "", &Error{Kind: KindUnbalancedBrackets}
	}

	fragment := completion[start : end+1]
	var parsed any
	if err := json.Unmarshal([]byte(fragment), &parsed); err != nil {
		return "", &Error{
			Kind:       KindInvalidJSON,
			Fragment:   fragment,
			Diagnostic: err.Error(),
			Err:        err,
		}
	}

	return fragment, nil
}
