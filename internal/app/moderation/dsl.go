package moderation

import (
	"regexp"
	"strconv"
	"strings"
)

// Operators in match order. The longer tokens come first so that ">" never
// matches inside ">=".
var operators = []string{"contains", "equals", "matches", ">=", "<=", ">", "<"}

var validFields = map[string]bool{
	"message":    true,
	"user":       true,
	"username":   true,
	"word_count": true,
	"length":     true,
}

var validActions = map[string]bool{
	"mute":   true,
	"ban":    true,
	"delete": true,
	"warn":   true,
	"flag":   true,
}

var rulePattern = regexp.MustCompile(`^when\s+(.+?)\s+then\s+(\w+)$`)

// ParseRule parses "when <condition> then <action>" into an evaluable form.
// Parsing is case-insensitive and whitespace-normalized, and fails softly:
// a malformed rule returns nil rather than an error.
//
// A condition containing the literal word "or" is always split on "or",
// even when it also contains "and" — mixed logic misparses. Known
// limitation inherited from the grammar.
func ParseRule(ruleString string) *ParsedRule {
	normalized := strings.Join(strings.Fields(strings.ToLower(ruleString)), " ")

	m := rulePattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil
	}
	conditionClause, action := m[1], m[2]

	logic := "and"
	var parts []string
	if strings.Contains(conditionClause, " or ") {
		logic = "or"
		parts = strings.Split(conditionClause, " or ")
	} else {
		parts = strings.Split(conditionClause, " and ")
	}

	var conditions []Condition
	for _, part := range parts {
		if cond, ok := parseExpr(strings.TrimSpace(part)); ok {
			conditions = append(conditions, cond)
		}
	}
	if len(conditions) == 0 {
		return nil
	}

	return &ParsedRule{
		Conditions: conditions,
		Logic:      logic,
		Action:     action,
	}
}

// parseExpr matches the expression against each operator in order; the
// first one whose surrounding-spaces split yields exactly two parts wins.
func parseExpr(expr string) (Condition, bool) {
	for _, op := range operators {
		parts := strings.Split(expr, " "+op+" ")
		if len(parts) != 2 {
			continue
		}
		field := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if field == "" || value == "" {
			continue
		}
		return Condition{
			Field:    field,
			Operator: op,
			Value:    parseValue(value),
		}, true
	}
	return Condition{}, false
}

func parseValue(token string) Value {
	if len(token) >= 2 {
		if (token[0] == '"' && token[len(token)-1] == '"') ||
			(token[0] == '\'' && token[len(token)-1] == '\'') {
			token = token[1 : len(token)-1]
		}
	}
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return Value{Str: token, Num: n, IsNum: true}
	}
	return Value{Str: token}
}

// ValidateRule checks every field and operator against the recognized sets,
// plus the action. A rule failing validation must never be admitted to the
// engine.
func ValidateRule(rule *ParsedRule) bool {
	if rule == nil || len(rule.Conditions) == 0 {
		return false
	}
	for _, cond := range rule.Conditions {
		if !validFields[cond.Field] {
			return false
		}
		found := false
		for _, op := range operators {
			if cond.Operator == op {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return validActions[rule.Action]
}
