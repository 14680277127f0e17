package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ashureev/avika/internal/domain"
)

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

var errNoJSONObject = errors.New("no JSON object in reply")

// parseLetter accepts a reply that is exactly one option letter.
func parseLetter(text string) (domain.Letter, bool) {
	l, ok := domain.ParseLetter(text)
	if !ok {
		return "", false
	}
	return l, true
}

// parseBatch extracts the outermost {...} span of text and keeps entries whose
// key is an asked question id and whose value is a valid letter.
func parseBatch(text string, asked map[int]struct{}) (map[int]domain.Letter, error) {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		return nil, errNoJSONObject
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode batch reply: %w", err)
	}

	out := make(map[int]domain.Letter, len(decoded))
	for key, value := range decoded {
		id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(key), "Q"))
		if err != nil {
			continue
		}
		if _, ok := asked[id]; !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		if l := domain.Letter(s); l.Valid() {
			out[id] = l
		}
	}
	return out, nil
}
