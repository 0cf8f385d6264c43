package moderation

// Rule is a stored auto-moderation rule. Condition holds the raw DSL source
// ("when <condition> then <action>" without the surrounding keywords is NOT
// assumed — the full rule text is kept); Action duplicates the parsed action
// so it can be shown before validation.
type Rule struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
	Enabled   bool   `json:"enabled"`
}

// Value is one right-hand operand of a condition expression. Numeric tokens
// are coerced; all other tokens are kept as lowercased strings in Str.
type Value struct {
	Str   string
	Num   float64
	IsNum bool
}

// Condition is one "<field> <operator> <value>" expression.
type Condition struct {
	Field    string
	Operator string
	Value    Value
}

// ParsedRule is the evaluable form of a rule's condition string.
type ParsedRule struct {
	Conditions []Condition
	Logic      string // "and" or "or"
	Action     string
}

type CreateRuleRequest struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Condition string `json:"condition" binding:"required"`
	Action    string `json:"action"`
	Enabled   *bool  `json:"enabled"`
}

type ToggleRuleRequest struct {
	Enabled bool `json:"enabled"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
