package groq

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/brainlift/pkg/dok"
	apperrors "github.com/matzehuels/brainlift/pkg/errors"
)

// pick is a single candidate the model selected.
type pick struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

var thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
var jsonRe = regexp.MustCompile(`(?s)\{.*\}`)

// cleanResponse normalizes raw model output down to a JSON object.
// Reasoning models wrap their answer in think blocks, chat models love
// markdown code fences, and some prepend prose before the JSON. All three
// are stripped.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimSpace(thinkRe.ReplaceAllString(content, ""))

	if strings.HasPrefix(content, "```") {
		parts := strings.Split(content, "```")
		if len(parts) >= 2 {
			content = parts[1]
			content = strings.TrimPrefix(content, "json")
			content = strings.TrimSpace(content)
		}
	}

	if !strings.HasPrefix(content, "{") {
		if m := jsonRe.FindString(content); m != "" {
			content = m
		}
	}
	return content
}

// parsePicks extracts the model's connection picks from raw output.
func parsePicks(content string) ([]pick, error) {
	content = cleanResponse(content)
	if content == "" {
		return nil, apperrors.New(apperrors.ErrCodeLLMBadResponse, "empty response")
	}

	var result struct {
		Connections []pick `json:"connections"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeLLMBadResponse, err, "parse response")
	}
	return result.Connections, nil
}

// validPicks filters picks down to known candidate indexes, defaults
// missing kinds to supports, and enforces the at-most-one rule the prompt
// states. Models occasionally return more than asked; the first valid pick
// wins.
func validPicks(picks []pick, candidates []dok.Item) []pick {
	valid := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		valid[c.Index] = true
	}

	var out []pick
	for _, p := range picks {
		if !valid[p.ID] {
			continue
		}
		if p.Type == "" {
			p.Type = string(dok.KindSupports)
		}
		out = append(out, p)
		if len(out) == 1 {
			break
		}
	}
	return out
}
