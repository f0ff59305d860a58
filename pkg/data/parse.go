package data

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var jsonBlockRe = regexp.MustCompile(`\{[^{}]*\}`)

// ExtractJSON pulls the first flat JSON object out of a free-text model
// answer. Models wrap their JSON in prose often enough that this is the
// primary cleanup step before unmarshalling.
func ExtractJSON(ans string) (string, error) {
	match := jsonBlockRe.FindString(ans)
	if match == "" {
		return "", errors.New("no json object in answer")
	}
	return match, nil
}

// RoutingFields holds a parsed supervisor answer. Empty fields mean the model
// omitted the key.
type RoutingFields struct {
	Agent       string
	Description string
	Priority    int
	HasPriority bool
}

// ParseRoutingLines scans a "key: value" formatted answer for the agent,
// description and priority fields. This is the legacy parser, kept for models
// that ignore the JSON response contract.
func ParseRoutingLines(content string) RoutingFields {
	var out RoutingFields
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "agent":
			out.Agent = value
		case "description":
			out.Description = value
		case "priority":
			if p, err := strconv.Atoi(value); err == nil {
				out.Priority = p
				out.HasPriority = true
			}
		}
	}
	return out
}
