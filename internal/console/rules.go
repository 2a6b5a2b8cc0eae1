package console

import (
	"regexp"
	"strconv"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
)

type Field string

const (
	FieldNextMap  Field = "nextmap"
	FieldTimeLeft Field = "timeleft"
)

// Rule extracts one field from console output. Extract receives the
// submatches of Pattern and returns false if the match is not usable.
type Rule struct {
	Name    string
	Field   Field
	Pattern *regexp.Regexp
	Extract func([]string) (string, bool)
}

// DefaultRules covers the output of the engine itself and of the usual
// administration plugins (SourceMod, Mani). Rules are tried in order; the
// first match wins for each field.
var DefaultRules = []Rule{
	{
		Name:    "next_map_label",
		Field:   FieldNextMap,
		Pattern: regexp.MustCompile(`(?i)Next\s+Map:\s*([^\s"']+)`),
		Extract: firstGroup,
	},
	{
		Name:    "nextmap_cvar",
		Field:   FieldNextMap,
		Pattern: regexp.MustCompile(`(?i)"nextmap"\s+(?:is|=)\s+"?([^"\s]+)"?`),
		Extract: firstGroup,
	},
	{
		Name:    "next_map_set",
		Field:   FieldNextMap,
		Pattern: regexp.MustCompile(`(?i)Next\s+map\s+(?:set\s+to|is)\s*[:\s]*([^\s"']+)`),
		Extract: firstGroup,
	},
	{
		Name:    "time_left_label",
		Field:   FieldTimeLeft,
		Pattern: regexp.MustCompile(`(?i)Time\s+Left[:\s]*([\d:]+)`),
		Extract: firstGroup,
	},
	{
		Name:    "timeleft",
		Field:   FieldTimeLeft,
		Pattern: regexp.MustCompile(`(?i)timeleft[:\s]*([\d:]+)`),
		Extract: firstGroup,
	},
	{
		Name:    "no_timelimit",
		Field:   FieldTimeLeft,
		Pattern: regexp.MustCompile(`(?i)no\s+timelimit`),
		Extract: func([]string) (string, bool) { return NoTimeLimit, true },
	},
	{
		Name:    "mp_timelimit_quoted",
		Field:   FieldTimeLeft,
		Pattern: regexp.MustCompile(`(?i)"mp_timelimit"\s*(?:=|:)\s*"?(\d+)"?`),
		Extract: timeLimit,
	},
	{
		Name:    "mp_timelimit",
		Field:   FieldTimeLeft,
		Pattern: regexp.MustCompile(`(?i)mp_timelimit\s*[:=]\s*([0-9]+)`),
		Extract: timeLimit,
	},
}

const NoTimeLimit = "No timelimit"

func firstGroup(m []string) (string, bool) {
	if len(m) < 2 || m[1] == "" {
		return "", false
	}

	return m[1], true
}

// timeLimit converts a mp_timelimit value, in minutes, to a time left
// description.
func timeLimit(m []string) (string, bool) {
	s, ok := firstGroup(m)
	if !ok {
		return "", false
	}

	minutes, err := strconv.Atoi(s)
	if err != nil {
		return "", false
	}

	if minutes <= 0 {
		return NoTimeLimit, true
	}

	return strconv.Itoa(minutes) + " minutes (timelimit)", true
}

// Match is a value found by a rule.
type Match struct {
	Rule  string
	Field Field
	Value string
}

// Apply runs the rules on one console response and fills the fields of
// info which are still empty.
func Apply(rules []Rule, output string, info *status.ConsoleInfo) []Match {
	var matches []Match

	for _, rule := range rules {
		target := fieldTarget(info, rule.Field)
		if target == nil || *target != "" {
			continue
		}

		m := rule.Pattern.FindStringSubmatch(output)
		if m == nil {
			continue
		}

		value, ok := rule.Extract(m)
		if !ok {
			continue
		}

		*target = value
		matches = append(matches, Match{
			Rule:  rule.Name,
			Field: rule.Field,
			Value: value,
		})
	}

	return matches
}

func fieldTarget(info *status.ConsoleInfo, field Field) *string {
	switch field {
	case FieldNextMap:
		return &info.NextMap
	case FieldTimeLeft:
		return &info.TimeLeft
	}

	return nil
}
