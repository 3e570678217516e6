package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sharpPicks/domain"
)

// ParsePicks decodes a model reply. It accepts {"picks": [...]} or a bare
// array, optionally wrapped in a ```json fence or surrounded by prose. Only a
// broken envelope is an error; an element that fails to decode comes back
// with DecodeErr set.
func ParsePicks(content string) ([]domain.RawPick, error) {
	body := extractJSON(content)
	if body == "" {
		return nil, errors.New("no JSON found in reply")
	}

	if strings.HasPrefix(body, "[") {
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(body), &elems); err != nil {
			return nil, fmt.Errorf("decode picks array: %w", err)
		}
		return decodeEach(elems), nil
	}

	var wrapped struct {
		Picks *[]json.RawMessage `json:"picks"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
		return nil, fmt.Errorf("decode picks object: %w", err)
	}
	if wrapped.Picks == nil {
		return nil, errors.New(`reply has no "picks" field`)
	}
	return decodeEach(*wrapped.Picks), nil
}

func decodeEach(elems []json.RawMessage) []domain.RawPick {
	picks := make([]domain.RawPick, 0, len(elems))
	for i, elem := range elems {
		var p domain.RawPick
		if err := json.Unmarshal(elem, &p); err != nil {
			p = domain.RawPick{DecodeErr: &domain.ValidationError{
				Field:  fmt.Sprintf("picks[%d]", i),
				Reason: err.Error(),
			}}
		}
		picks = append(picks, p)
	}
	return picks
}

func extractJSON(content string) string {
	s := strings.TrimSpace(content)

	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		s = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return ""
	}
	return s[start : end+1]
}
