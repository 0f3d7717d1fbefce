package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AllKeys(t *testing.T) {
	for _, key := range Keys {
		t.Run(string(key), func(t *testing.T) {
			prompt, err := Get(key)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(Key("nonexistent-key"))
	assert.ErrorContains(t, err, "not found")
}

func TestMustGet(t *testing.T) {
	assert.Contains(t, MustGet(KeyChatSystem), "resume assistant")
	assert.Panics(t, func() {
		MustGet(Key("nonexistent-key"))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "all placeholders",
			template: "Hello {{.Name}}, welcome to {{.Company}}!",
			data:     map[string]string{"Name": "Alice", "Company": "Acme Corp"},
			want:     "Hello Alice, welcome to Acme Corp!",
		},
		{
			name:     "no placeholders",
			template: "No placeholders here",
			data:     map[string]string{"Key": "Value"},
			want:     "No placeholders here",
		},
		{
			name:     "missing value stays",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestBuild_RequiresEveryPlaceholder(t *testing.T) {
	_, err := build(KeyExtractFile, map[string]string{})
	assert.ErrorContains(t, err, `no value for placeholder "Schema"`)

	prompt, err := build(KeyExtractFile, map[string]string{"Schema": "{}"})
	require.NoError(t, err)
	assert.Empty(t, Placeholders(prompt))
}

func TestBuild_ValuesMayContainBraces(t *testing.T) {
	prompt, err := build(KeyExtractFile, map[string]string{"Schema": "literal {{.Schema}} text"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "literal {{.Schema}} text")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("x {{.A}} y {{.B}} z"))
	assert.Empty(t, Placeholders("nothing here"))
	assert.Empty(t, Placeholders("broken {{.A"))
}
