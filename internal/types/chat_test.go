//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessage_JSON(t *testing.T) {
	data, err := json.Marshal(UserMessage("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hi"}`, string(data))

	data, err = json.Marshal(ModelMessage("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"model","content":"hello"}`, string(data))
}

func TestWindow(t *testing.T) {
	msgs := make([]ChatMessage, 0, 14)
	for i := 0; i < 7; i++ {
		msgs = append(msgs, UserMessage("q"), ModelMessage("a"))
	}

	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{name: "trailing ten", n: 10, wantLen: 10},
		{name: "larger than log", n: 20, wantLen: 14},
		{name: "zero returns all", n: 0, wantLen: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(msgs, tt.n)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, msgs[len(msgs)-tt.wantLen:], got)
		})
	}

	got := Window(msgs, 2)
	got[0].Content = "changed"
	assert.Equal(t, "q", msgs[12].Content, "window is a copy")
}
