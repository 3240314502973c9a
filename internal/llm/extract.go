package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON recovers a JSON document from model output that may carry
// surrounding prose or markdown fences. Strategies in order, first success
// wins:
//
//  1. parse the whole text directly,
//  2. parse the interior of the first ``` fenced block,
//  3. parse the substring from the first '{' to the last '}'.
//
// This is a best-effort heuristic; callers must validate the resulting
// shape before trusting it.
func ExtractJSON(input string, out any) error {
	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	if m := fencedBlock.FindStringSubmatch(input); len(m) == 2 && m[1] != "" {
		if err := json.Unmarshal([]byte(m[1]), out); err == nil {
			return nil
		}
	}

	first := strings.Index(input, "{")
	last := strings.LastIndex(input, "}")
	if first != -1 && last > first {
		if err := json.Unmarshal([]byte(input[first:last+1]), out); err == nil {
			return nil
		}
	}

	return &ParseError{Message: "could not extract structured data from generation output"}
}
