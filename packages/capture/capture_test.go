package capture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, defs ...Definition) *Registry {
	t.Helper()
	reg, err := Compile(defs)
	require.NoError(t, err)
	return reg
}

func TestExtractAll(t *testing.T) {
	tests := []struct {
		name      string
		regex     string
		path      string
		body      string
		expected  string
		wantFound bool
	}{
		{
			name:      "single group multiple matches",
			regex:     `status=(\w+)`,
			body:      "status=ok status=fail",
			expected:  "ok,fail",
			wantFound: true,
		},
		{
			name:      "no groups uses whole match",
			regex:     `\d+`,
			body:      "code 404 and 500",
			expected:  "404,500",
			wantFound: true,
		},
		{
			name:      "no match is absent",
			regex:     `id=(\d+)`,
			body:      "no ids here",
			wantFound: false,
		},
		{
			name:      "multiple groups ordered within each match",
			regex:     `(\w+)=(\d+)`,
			body:      "a=1 b=2",
			expected:  "a,1,b,2",
			wantFound: true,
		},
		{
			name:      "single match single group",
			regex:     `token":"([^"]+)"`,
			body:      `{"token":"abc123"}`,
			expected:  "abc123",
			wantFound: true,
		},
		{
			name:      "optional group that did not participate is empty",
			regex:     `(a)(b)?`,
			body:      "a ab",
			expected:  "a,,a,b",
			wantFound: true,
		},
		{
			name:      "empty match is found but empty",
			regex:     `^x*`,
			body:      "abc",
			expected:  "",
			wantFound: true,
		},
		{
			name:      "json path narrows the payload",
			regex:     `\d+`,
			path:      "data.ids",
			body:      `{"count": 99, "data": {"ids": [1, 22, 333]}}`,
			expected:  "1,22,333",
			wantFound: true,
		},
		{
			name:      "json path on scalar value",
			regex:     `^(\w+)-`,
			path:      "cursor",
			body:      `{"cursor": "page7-next"}`,
			expected:  "page7",
			wantFound: true,
		},
		{
			name:      "missing json path is absent",
			regex:     `.+`,
			path:      "missing",
			body:      `{"cursor": "x"}`,
			wantFound: false,
		},
		{
			name:      "json path on non json body is absent",
			regex:     `.+`,
			path:      "cursor",
			body:      "cursor=x",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := mustCompile(t, Definition{Name: "v", Regex: tt.regex, Path: tt.path})

			values := ExtractAll(reg, tt.body)
			got, ok := values.Get("v")

			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.expected, got)
			assert.True(t, values.Has("v"))
		})
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	reg, err := Compile([]Definition{
		{Name: "good", Regex: `\d+`},
		{Name: "bad", Regex: `(unclosed`},
	})

	require.Error(t, err)
	assert.Nil(t, reg)
	assert.True(t, errors.Is(err, ErrInvalidPattern))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "bad", cfgErr.Name)
	assert.Contains(t, err.Error(), "bad")
}

func TestCompile_UnsupportedSyntaxIsInvalid(t *testing.T) {
	_, err := Compile([]Definition{{Name: "look", Regex: `foo(?=bar)`}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestCompile_MissingPattern(t *testing.T) {
	_, err := Compile([]Definition{{Name: "empty"}})
	assert.ErrorIs(t, err, ErrMissingPattern)
	assert.False(t, errors.Is(err, ErrInvalidPattern))
}

func TestCompile_DuplicateName(t *testing.T) {
	_, err := Compile([]Definition{
		{Name: "id", Regex: `a`},
		{Name: "id", Regex: `b`},
	})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRegistry_Names(t *testing.T) {
	reg := mustCompile(t,
		Definition{Name: "zeta", Regex: `z`},
		Definition{Name: "alpha", Regex: `(a)(b)`},
	)

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	p, ok := reg.Pattern("alpha")
	require.True(t, ok)
	assert.Equal(t, 2, p.Groups())
	assert.Equal(t, `(a)(b)`, p.String())

	_, ok = reg.Pattern("missing")
	assert.False(t, ok)
}

func TestExtractor_ReportsEveryVariable(t *testing.T) {
	reg := mustCompile(t,
		Definition{Name: "state", Regex: `status=(\w+)`},
		Definition{Name: "id", Regex: `id=(\d+)`},
	)

	type reported struct {
		value string
		found bool
	}
	got := make(map[string]reported)
	var order []string

	e := NewExtractor(reg, WithReportFunc(func(name, value string, found bool) {
		got[name] = reported{value, found}
		order = append(order, name)
	}))

	values := e.Extract("status=ok")

	assert.Equal(t, map[string]reported{
		"state": {"ok", true},
		"id":    {"", false},
	}, got)
	assert.Equal(t, []string{"id", "state"}, order)
	assert.Equal(t, map[string]string{"state": "ok"}, values.Map())
	assert.Equal(t, 2, values.Len())
	assert.Same(t, reg, e.Registry())
}

func TestExtractor_FreshSnapshotEachPass(t *testing.T) {
	reg := mustCompile(t, Definition{Name: "state", Regex: `status=(\w+)`})
	e := NewExtractor(reg)

	first := e.Extract("status=ok")
	second := e.Extract("nothing")

	v, ok := first.Get("state")
	assert.True(t, ok)
	assert.Equal(t, "ok", v)

	_, ok = second.Get("state")
	assert.False(t, ok)
}

func TestValues_NilSafe(t *testing.T) {
	var v *Values
	_, ok := v.Get("x")
	assert.False(t, ok)
	assert.False(t, v.Has("x"))
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Map())
}
