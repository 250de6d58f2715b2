// Package envelope locates the JSON object embedded in a model response.
// Responses frequently wrap their payload in markdown fences or surround it
// with prose, so callers never hand raw responses to the JSON decoder
// directly.
package envelope

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoObject reports that no JSON object candidate could be located in a
// response.
var ErrNoObject = errors.New("no JSON object found in response")

// fencedJSON matches a ```json code fence and captures the braced object
// inside it. The non-greedy body stops at the brace closing the fence.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// Extract returns the JSON object candidate inside text. Rules apply in
// order: a ```json fenced block wins, then the whole trimmed text when it is
// brace-delimited, then the substring from the first "{" to the last "}".
// Extraction only locates a candidate; decoding it is the caller's problem.
func Extract(text string) ([]byte, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return []byte(m[1]), nil
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return []byte(trimmed), nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, ErrNoObject
	}
	return []byte(trimmed[start : end+1]), nil
}
