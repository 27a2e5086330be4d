package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

func newRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	registry.Register(replaceRule("HL7002", "A", "B"))
	registry.Register(newFuncRule("HL7001", "escape-error", nil))
	registry.Register(&funcRule{
		BaseRule: lint.NewBaseRule("HL7007", "trailing-delimiters", "", nil, true).
			WithSeverity(config.SeverityInfo).Disabled(),
	})

	return registry
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	registry := newRegistry()

	assert.Equal(t, []string{"HL7001", "HL7002", "HL7007"}, registry.IDs())
	require.Len(t, registry.Rules(), 3)
	assert.Equal(t, "HL7001", registry.Rules()[0].ID())

	rule, ok := registry.Get("escape-error")
	require.True(t, ok)
	assert.Equal(t, "HL7001", rule.ID())

	id, _, ok := registry.Resolve("trailing-delimiters")
	require.True(t, ok)
	assert.Equal(t, "HL7007", id)

	_, ok = registry.GetByID("escape-error")
	assert.False(t, ok)

	_, _, ok = registry.Resolve("nope")
	assert.False(t, ok)
}

func TestRegistry_ReplaceDropsOldName(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newFuncRule("HL7001", "old-name", nil))
	registry.Register(newFuncRule("HL7001", "new-name", nil))

	_, ok := registry.Get("old-name")
	assert.False(t, ok)

	_, ok = registry.Get("new-name")
	assert.True(t, ok)
}

func TestRegistry_Suggest(t *testing.T) {
	t.Parallel()

	registry := newRegistry()

	tests := []struct {
		key  string
		want string
	}{
		{key: "escape-eror", want: "escape-error"},
		{key: "HL7O01", want: "HL7001"},
		{key: "trailing", want: "trailing-delimiters"},
		{key: "something-else-entirely", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, registry.Suggest(testCase.key))
		})
	}
}

func TestBaseRule_Defaults(t *testing.T) {
	t.Parallel()

	base := lint.NewBaseRule("HL7999", "demo", "demo rule", []string{"x"}, false)
	assert.True(t, base.DefaultEnabled())
	assert.Equal(t, config.SeverityWarning, base.DefaultSeverity())
	assert.False(t, base.CanFix())

	tuned := base.WithSeverity(config.SeverityError).Disabled()
	assert.False(t, tuned.DefaultEnabled())
	assert.Equal(t, config.SeverityError, tuned.DefaultSeverity())
	assert.True(t, base.DefaultEnabled(), "copies leave the original untouched")

	diags, err := tuned.Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}
