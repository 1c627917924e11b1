package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		key     string
		match   bool
	}{
		{name: "star matches segment", pattern: "company:*:X", key: "company:id:X", match: true},
		{name: "star matches across colons", pattern: "company:*:X", key: "company:a:b:X", match: true},
		{name: "star matches slash", pattern: "api:/api/companies/X/*", key: "api:/api/companies/X/expenses:abc", match: true},
		{name: "anchored at end", pattern: "company:*:X", key: "company:id:XY", match: false},
		{name: "anchored at start", pattern: "company:*:X", key: "xcompany:id:X", match: false},
		{name: "question mark", pattern: "docs:status:?", key: "docs:status:a", match: true},
		{name: "character class", pattern: "wages:company:[ab]", key: "wages:company:b", match: true},
		{name: "character class miss", pattern: "wages:company:[ab]", key: "wages:company:c", match: false},
		{name: "escaped star is literal", pattern: `customer:id:a\*`, key: "customer:id:a*", match: true},
		{name: "escaped star does not expand", pattern: `customer:id:a\*`, key: "customer:id:abc", match: false},
		{name: "regexp metacharacters are literal", pattern: "customer:email:a.b+c@x.com", key: "customer:email:aXb+c@x.com", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := compileGlob(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.key))
		})
	}
}

func TestCompileGlob_UnterminatedClass(t *testing.T) {
	_, err := compileGlob("customer:[abc")
	assert.Error(t, err)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "plain", EscapeGlob("plain"))
	assert.Equal(t, `a\*b\?c\[d\]e\\`, EscapeGlob(`a*b?c[d]e\`))

	re, err := compileGlob("customer:id:" + EscapeGlob("we*rd[id]"))
	require.NoError(t, err)
	assert.True(t, re.MatchString("customer:id:we*rd[id]"))
	assert.False(t, re.MatchString("customer:id:weXXrdi"))
}
