package moderation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Engine holds the enabled rule set and evaluates messages against it.
// Conditions are re-parsed on every evaluation; rule counts are small
// enough that caching the parsed form is not worth the invalidation
// bookkeeping.
type Engine struct {
	mu     sync.RWMutex
	rules  map[string]*Rule
	logger *zap.SugaredLogger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		rules:  make(map[string]*Rule),
		logger: logger.Sugar(),
	}
}

// AddRule parses and validates the rule's condition before admitting it.
// An invalid rule is rejected whole and never stored.
func (e *Engine) AddRule(rule *Rule) bool {
	parsed := ParseRule(rule.Condition)
	if parsed == nil || !ValidateRule(parsed) {
		e.logger.Warnw("Rejected moderation rule",
			"rule_id", rule.ID,
			"condition", rule.Condition,
		)
		return false
	}
	rule.Action = parsed.Action
	stored := *rule

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[stored.ID] = &stored
	return true
}

func (e *Engine) RemoveRule(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rules[id]; !ok {
		return false
	}
	delete(e.rules, id)
	return true
}

func (e *Engine) ToggleRule(id string, enabled bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	rule, ok := e.rules[id]
	if !ok {
		return false
	}
	rule.Enabled = enabled
	return true
}

// Rules returns copies of the stored rules sorted by id, for the admin
// surface. Callers never see the engine's own records.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Rule, 0, len(e.rules))
	for _, r := range e.rules {
		rc := *r
		out = append(out, &rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Evaluate runs every enabled rule against the message and author and
// returns the set of triggered action names, in first-trigger order.
func (e *Engine) Evaluate(messageText, username string) []string {
	e.mu.RLock()
	rules := make([]*Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Enabled {
			rules = append(rules, r)
		}
	}
	e.mu.RUnlock()
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	actions := []string{}
	seen := map[string]bool{}
	for _, rule := range rules {
		parsed := ParseRule(rule.Condition)
		if parsed == nil {
			continue
		}
		if matchRule(parsed, messageText, username) && !seen[parsed.Action] {
			seen[parsed.Action] = true
			actions = append(actions, parsed.Action)
		}
	}
	return actions
}

func matchRule(rule *ParsedRule, messageText, username string) bool {
	if rule.Logic == "or" {
		for _, cond := range rule.Conditions {
			if matchCondition(cond, messageText, username) {
				return true
			}
		}
		return false
	}
	for _, cond := range rule.Conditions {
		if !matchCondition(cond, messageText, username) {
			return false
		}
	}
	return true
}

// matchCondition resolves the field against the message/author and applies
// the operator. Numeric operators only match numeric fields;
// contains/matches only string fields; equals compares loosely across the
// coerced types.
func matchCondition(cond Condition, messageText, username string) bool {
	var fieldStr string
	var fieldNum float64
	numeric := false

	switch cond.Field {
	case "message":
		fieldStr = strings.ToLower(messageText)
	case "user", "username":
		fieldStr = strings.ToLower(username)
	case "word_count":
		fieldNum = float64(len(strings.Fields(messageText)))
		numeric = true
	case "length":
		fieldNum = float64(utf8.RuneCountInString(messageText))
		numeric = true
	default:
		return false
	}

	switch cond.Operator {
	case "contains":
		return !numeric && strings.Contains(fieldStr, cond.Value.Str)
	case "matches":
		if numeric {
			return false
		}
		re, err := regexp.Compile(cond.Value.Str)
		if err != nil {
			return false
		}
		return re.MatchString(fieldStr)
	case "equals":
		if numeric && cond.Value.IsNum {
			return fieldNum == cond.Value.Num
		}
		if numeric {
			return strconv.FormatFloat(fieldNum, 'f', -1, 64) == cond.Value.Str
		}
		return fieldStr == cond.Value.Str
	case ">":
		return numeric && cond.Value.IsNum && fieldNum > cond.Value.Num
	case "<":
		return numeric && cond.Value.IsNum && fieldNum < cond.Value.Num
	case ">=":
		return numeric && cond.Value.IsNum && fieldNum >= cond.Value.Num
	case "<=":
		return numeric && cond.Value.IsNum && fieldNum <= cond.Value.Num
	}
	return false
}
