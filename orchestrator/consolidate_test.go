package orchestrator

import (
	"strings"
	"testing"

	"github.com/hupe1980/omnimesh/core"
	"github.com/hupe1980/omnimesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	msgs, err := BuildMessages(core.CombinerContext{
		UserMessage: `What is "Go"?`,
		Responses: []core.ProviderResponse{
			testutil.NewResponseBuilder("openai").Text("A language.").Build(),
			testutil.NewResponseBuilder("huggingface").Text("A board game & a language.").Build(),
		},
		Language: "en-US",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Equal(t, core.RoleUser, msgs[1].Role)

	prompt := msgs[1].Content
	assert.Contains(t, prompt, `"What is "Go"?"`)
	assert.Contains(t, prompt, "[PROVIDER: openai]\nA language.\n---\n\n[PROVIDER: huggingface]\nA board game & a language.\n---")
	for i := 1; i <= 6; i++ {
		assert.Contains(t, prompt, string(rune('0'+i))+") ")
	}
	assert.Contains(t, prompt, "at most 2 per provider")
	assert.Contains(t, prompt, `"SOURCES"`)
	assert.NotContains(t, prompt, "Memory context:")
	assert.True(t, strings.HasPrefix(prompt, "YOU ARE A CONSOLIDATOR LLM"))
}

func TestBuildMessages_DefaultLocaleAndMemory(t *testing.T) {
	msgs, err := BuildMessages(core.CombinerContext{
		UserMessage:   "oi",
		MemoryContext: "prefere respostas curtas",
		Responses:     []core.ProviderResponse{testutil.NewResponseBuilder("a").Text("olá").Build()},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msgs[0].Content, "Você é um consolidador de respostas de IA"))
	assert.Contains(t, msgs[1].Content, "Contexto de memória:\n\"prefere respostas curtas\"")
	assert.Contains(t, msgs[1].Content, `"FONTES"`)
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "", Fallback(nil))
	assert.Equal(t, "a: x\n\nb: y", Fallback([]core.ProviderResponse{
		testutil.NewResponseBuilder("a").Text("x").Build(),
		testutil.NewResponseBuilder("b").Text("y").Build(),
	}))
}

func TestTrace_TruncatesByCharacter(t *testing.T) {
	long := strings.Repeat("é", 150)
	tr := Trace([]core.ProviderResponse{
		testutil.NewResponseBuilder("a").Text(long).Build(),
		testutil.NewResponseBuilder("b").Text("short").Build(),
	})
	require.Len(t, tr, 2)
	assert.Equal(t, strings.Repeat("é", ExcerptLength), tr[0].Excerpt)
	assert.Equal(t, "a", tr[0].Provider)
	assert.Equal(t, "short", tr[1].Excerpt)
}

func TestApology(t *testing.T) {
	assert.Equal(t, Apology(core.DefaultLanguage), Apology(""))
	assert.Equal(t, Apology("pt-BR"), Apology("fr-FR"))
	assert.NotEqual(t, Apology("pt-BR"), Apology("en-US"))
}
