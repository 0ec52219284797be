package agent

import (
	"catanbench/game"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Choice is a parsed backend reply.
type Choice struct {
	Index     int
	Reasoning string
}

var firstIntegerPattern = regexp.MustCompile(`\b\d+\b`)

const repairTemplate = `The reply below was meant to be a single JSON object of the form
{"action_index": <integer>, "reasoning": "<string>"}.
Rewrite it as exactly that JSON object and nothing else. Keep the action it chose.

Reply:
%s`

// parse tries progressively looser readings of reply: the whole reply as
// JSON, the first JSON object inside it, a reply naming one of the current
// move descriptions, a repaired reply, and finally the first bare integer.
func (a *Agent) parse(ctx context.Context, reply string) (Choice, error) {
	if choice, err := parseStrict(reply); err == nil {
		return choice, nil
	}
	if choice, err := parseEmbedded(reply); err == nil {
		return choice, nil
	}
	if index, ok := a.describer.Current().Lookup(strings.Trim(reply, " \t\r\n\"'`.")); ok {
		a.logger.Debug().Msgf("reply names action %d by its description", index)
		return Choice{Index: index, Reasoning: "Matched description: " + truncate(reply, 100)}, nil
	}
	if a.repair != nil {
		choice, err := a.repairReply(ctx, reply)
		if err == nil {
			return choice, nil
		}
		a.logger.Warn().Err(err).Msg("repair of unparseable reply failed")
	}
	if choice, ok := firstInteger(reply); ok {
		a.logger.Warn().Msgf("no JSON in reply, using first integer %d", choice.Index)
		return choice, nil
	}
	return Choice{}, fmt.Errorf("%w: %q", ErrNoJSON, truncate(reply, 120))
}

func (a *Agent) repairReply(ctx context.Context, reply string) (Choice, error) {
	repaired, err := a.repair.Query(ctx, fmt.Sprintf(repairTemplate, reply), 0, a.timeout)
	if err != nil {
		return Choice{}, err
	}
	if choice, err := parseStrict(repaired); err == nil {
		return choice, nil
	}
	return parseEmbedded(repaired)
}

// parseStrict reads s as one JSON object carrying action_index. Floats and
// numeric strings are truncated to an integer.
func parseStrict(s string) (Choice, error) {
	decoder := json.NewDecoder(strings.NewReader(strings.TrimSpace(s)))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return Choice{}, err
	}
	raw, ok := fields["action_index"]
	if !ok {
		return Choice{}, errors.New("reply has no action_index")
	}
	index, ok := game.ToInt(raw)
	if !ok {
		return Choice{}, fmt.Errorf("action_index %v is not a number", raw)
	}
	reasoning, _ := fields["reasoning"].(string)
	return Choice{Index: index, Reasoning: reasoning}, nil
}

// parseEmbedded returns the first balanced {...} block of s that reads as a
// choice. Braces in surrounding prose are skipped.
func parseEmbedded(s string) (Choice, error) {
	s = stripFence(s)
	err := error(ErrNoJSON)
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if object := balancedObject(s[start:]); object != "" {
			var choice Choice
			if choice, err = parseStrict(object); err == nil {
				return choice, nil
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return Choice{}, err
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return s
}

// balancedObject returns the {...} block opening at s[0], or "" when it
// never closes.
func balancedObject(s string) string {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func firstInteger(s string) (Choice, bool) {
	match := firstIntegerPattern.FindString(s)
	if match == "" {
		return Choice{}, false
	}
	index, err := strconv.Atoi(match)
	if err != nil {
		return Choice{}, false
	}
	return Choice{Index: index, Reasoning: "Extracted from: " + truncate(s, 100)}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
