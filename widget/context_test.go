package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ThrownLemon/claude-code-plugins/color"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

func session(input, output, window int) *core.Session {
	return &core.Session{ContextWindow: core.ContextWindow{
		TotalInputTokens:  input,
		TotalOutputTokens: output,
		ContextWindowSize: window,
	}}
}

func TestContextPercent(t *testing.T) {
	r := newRegistry(t, nil, nil)

	assert.Equal(t, 26, ContextPercent(session(45000, 8000, 200000)))
	assert.Equal(t, 0, ContextPercent(session(45000, 8000, 0)))
	assert.Equal(t, 0, ContextPercent(session(45000, 8000, -5)))

	out := render(t, r, "context_percent", session(45000, 8000, 200000))
	assert.Equal(t, "26%", color.Strip(out))
	assert.Equal(t, color.FG("green")+"26%"+color.Reset, out)

	assert.Equal(t, "0%", color.Strip(render(t, r, "context_percent", session(45000, 8000, 0))))
}

func TestContextPercentThresholds(t *testing.T) {
	r := newRegistry(t, nil, nil)
	assert.Contains(t, render(t, r, "context_percent", session(80, 0, 100)), color.FG("yellow"))
	assert.Contains(t, render(t, r, "context_percent", session(95, 0, 100)), color.FG("red"))

	r = newRegistry(t, map[string]any{
		"widgets": map[string]any{"context_percent": map[string]any{"mid": 10.0, "high": 20.0}},
	}, nil)
	assert.Contains(t, render(t, r, "context_percent", session(15, 0, 100)), color.FG("yellow"))
}

func TestContextPercentBar(t *testing.T) {
	r := newRegistry(t, map[string]any{
		"widgets": map[string]any{"context_percent": map[string]any{
			"show_bar": true, "bar_length": 10, "fill_char": "#", "empty_char": ".",
		}},
	}, nil)
	assert.Equal(t, "##........ 26%", color.Strip(render(t, r, "context_percent", session(45000, 8000, 200000))))
	assert.Equal(t, "########## 150%", color.Strip(render(t, r, "context_percent", session(150, 0, 100))))
}

func TestContextLength(t *testing.T) {
	in := session(45000, 8000, 200000)
	r := newRegistry(t, nil, nil)
	assert.Equal(t, "53.0K/200.0K", render(t, r, "context_length", in))

	r = newRegistry(t, map[string]any{
		"widgets": map[string]any{"context_length": map[string]any{"format": "long"}},
	}, nil)
	assert.Equal(t, "53,000/200,000 tokens", render(t, r, "context_length", in))
}

func TestContextUsable(t *testing.T) {
	r := newRegistry(t, nil, nil)
	assert.Equal(t, "73% free", render(t, r, "context_usable", session(45000, 8000, 200000)))
	assert.Equal(t, "100% free", render(t, r, "context_usable", session(45000, 8000, 0)))
	assert.Equal(t, "0% free", render(t, r, "context_usable", session(300, 0, 100)))
}

func TestTokenCounters(t *testing.T) {
	in := session(45000, 8000, 200000)
	in.ContextWindow.CachedTokens = 1_300_000
	r := newRegistry(t, nil, nil)

	assert.Equal(t, "↑45.0K", render(t, r, "tokens_input", in))
	assert.Equal(t, "↓8.0K", render(t, r, "tokens_output", in))
	assert.Equal(t, "⚡1.3M", render(t, r, "tokens_cached", in))
	assert.Equal(t, "Σ53.0K", render(t, r, "tokens_total", in))

	r = newRegistry(t, map[string]any{
		"widgets": map[string]any{"tokens_input": map[string]any{"icon": "in "}},
	}, nil)
	assert.Equal(t, "in 45.0K", render(t, r, "tokens_input", in))
}
