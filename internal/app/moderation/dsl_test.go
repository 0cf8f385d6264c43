package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	t.Run("single condition", func(t *testing.T) {
		rule := ParseRule(`when message contains "spam" then delete`)
		require.NotNil(t, rule)

		assert.Equal(t, "delete", rule.Action)
		assert.Equal(t, "and", rule.Logic)
		require.Len(t, rule.Conditions, 1)
		assert.Equal(t, "message", rule.Conditions[0].Field)
		assert.Equal(t, "contains", rule.Conditions[0].Operator)
		assert.Equal(t, "spam", rule.Conditions[0].Value.Str)
		assert.False(t, rule.Conditions[0].Value.IsNum)
	})

	t.Run("and-joined conditions", func(t *testing.T) {
		rule := ParseRule("when word_count > 5 and length > 100 then warn")
		require.NotNil(t, rule)

		assert.Equal(t, "and", rule.Logic)
		require.Len(t, rule.Conditions, 2)
		assert.Equal(t, "word_count", rule.Conditions[0].Field)
		assert.Equal(t, ">", rule.Conditions[0].Operator)
		assert.True(t, rule.Conditions[0].Value.IsNum)
		assert.Equal(t, 5.0, rule.Conditions[0].Value.Num)
	})

	t.Run("or-joined conditions", func(t *testing.T) {
		rule := ParseRule(`when message contains "spam" or message contains "scam" then flag`)
		require.NotNil(t, rule)

		assert.Equal(t, "or", rule.Logic)
		assert.Len(t, rule.Conditions, 2)
	})

	t.Run("or wins when both joiners appear", func(t *testing.T) {
		// Known limitation: "or" anywhere in the clause forces or-splitting.
		rule := ParseRule("when word_count > 2 and length > 5 or length > 50 then warn")
		require.NotNil(t, rule)
		assert.Equal(t, "or", rule.Logic)
	})

	t.Run(">= is not misread as >", func(t *testing.T) {
		rule := ParseRule("when word_count >= 10 then mute")
		require.NotNil(t, rule)
		assert.Equal(t, ">=", rule.Conditions[0].Operator)
	})

	t.Run("case and whitespace are normalized", func(t *testing.T) {
		rule := ParseRule("  WHEN   Message   CONTAINS  Spam   THEN   Delete ")
		require.NotNil(t, rule)
		assert.Equal(t, "delete", rule.Action)
		assert.Equal(t, "spam", rule.Conditions[0].Value.Str)
	})

	t.Run("malformed rules fail softly", func(t *testing.T) {
		assert.Nil(t, ParseRule(""))
		assert.Nil(t, ParseRule("whenever message contains spam then delete"))
		assert.Nil(t, ParseRule("when then delete"))
		assert.Nil(t, ParseRule("when message spam then delete"), "no operator")
	})
}

func TestValidateRule(t *testing.T) {
	t.Run("accepts well-formed rules", func(t *testing.T) {
		for _, src := range []string{
			`when message contains "spam" then delete`,
			"when username equals troll then ban",
			"when word_count > 5 then warn",
			"when length <= 3 then flag",
			`when message matches "h+i" then mute`,
		} {
			rule := ParseRule(src)
			require.NotNil(t, rule, "source %q", src)
			assert.True(t, ValidateRule(rule), "source %q", src)
		}
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		rule := ParseRule("when sender contains bob then warn")
		require.NotNil(t, rule)
		assert.False(t, ValidateRule(rule))
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		rule := ParseRule(`when message contains "x" then explode`)
		require.NotNil(t, rule)
		assert.False(t, ValidateRule(rule))
	})

	t.Run("rejects nil", func(t *testing.T) {
		assert.False(t, ValidateRule(nil))
	})
}
