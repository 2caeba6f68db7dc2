package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obegron/jtable/internal/classify"
	"github.com/obegron/jtable/internal/errors"
	"github.com/obegron/jtable/internal/pretty"
)

func kinds(tokens []classify.Token) []classify.Kind {
	out := make([]classify.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestConvert_NestedValue(t *testing.T) {
	tokens, err := Convert(`{"a":{"b":1}}`, Options{})
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, `  "a": {`, tokens[1].Text())
	assert.Equal(t, classify.Other, tokens[1].Kind)
	assert.Equal(t, classify.Numeric, tokens[2].Kind)
	assert.Equal(t, "1", tokens[2].Value)
	assert.Equal(t, `    "b": 1`, tokens[2].Text())
}

func TestConvert_EmptyObject(t *testing.T) {
	tokens, err := Convert(`{}`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []classify.Token{classify.Verbatim("{}")}, tokens)
}

func TestConvert_Modes(t *testing.T) {
	raw := `{"11":1,"msg":"a, b","ok":true}`

	structural, err := Convert(raw, Options{Mode: Structural})
	require.NoError(t, err)
	line, err := Convert(raw, Options{Mode: Line})
	require.NoError(t, err)
	compat, err := Convert(raw, Options{Mode: Compat})
	require.NoError(t, err)

	assert.Equal(t, structural, line)
	assert.Equal(t, []classify.Kind{classify.Other, classify.Numeric, classify.String, classify.Other, classify.Other}, kinds(structural))

	// The textual mode splits "11": 1 inside the key and loses the string cut at its comma.
	assert.Equal(t, `  "`, compat[1].Prefix)
	assert.Equal(t, classify.Numeric, compat[1].Kind)
	assert.Equal(t, classify.Verbatim(`  "msg": "a, b",`), compat[2])

	for i := range structural {
		assert.Equal(t, structural[i].Text(), compat[i].Text())
	}
}

func TestConvert_PreserveNumbers(t *testing.T) {
	tokens, err := Convert(`{"n":1.50}`, Options{Numbers: pretty.NumbersPreserve})
	require.NoError(t, err)
	assert.Equal(t, "1.50", tokens[1].Value)
}

func TestSession_ClearsStaleLinesOnError(t *testing.T) {
	s := NewSession(Options{})
	require.NoError(t, s.Convert(`{"a":1}`))
	assert.True(t, s.HasTable())
	assert.Empty(t, s.Message())

	err := s.Convert("{invalid")
	require.Error(t, err)
	assert.True(t, errors.IsParsing(err))
	assert.False(t, s.HasTable())
	assert.Nil(t, s.Lines())
	assert.Equal(t, "Invalid JSON. Please check your input.", s.Message())

	require.NoError(t, s.Convert(`[1]`))
	assert.NoError(t, s.Err())
	assert.Len(t, s.Lines(), 3)
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"": Structural, "structural": Structural, "LINE": Line, "compat": Compat} {
		got, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if name != "" {
			assert.Equal(t, got.String(), want.String())
		}
	}
	_, err := ParseMode("regex")
	assert.Error(t, err)
}
