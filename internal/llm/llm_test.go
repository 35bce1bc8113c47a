package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestFirstTurn(t *testing.T) {
	turn := FirstTurn("SYS", "What is Zakat?")
	assert.Equal(t, RoleUser, turn.Role)
	assert.Equal(t, "SYS\n\nUser question: What is Zakat?", turn.Content)
}

func TestTitlePrompt_EmbedsInput(t *testing.T) {
	p := TitlePrompt("Namaz ka tareeqa")
	assert.Contains(t, p, "'Namaz ka tareeqa'")
	assert.Contains(t, p, "4-6 word")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "openai", Model: "m"})
	assert.Error(t, err)

	_, err = New(context.Background(), Options{Provider: "openai", APIKey: "k"})
	assert.Error(t, err)

	_, err = New(context.Background(), Options{Provider: "mystery", APIKey: "k", Model: "m"})
	assert.Error(t, err)

	c, err := New(context.Background(), Options{Provider: "openai", APIKey: "k", Model: "gpt-x"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-x", c.Model())
}

func TestToMessageContent_MapsRoles(t *testing.T) {
	out := toMessageContent([]Turn{
		{Role: RoleUser, Content: "q"},
		{Role: RoleModel, Content: "a"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, llms.ChatMessageTypeHuman, out[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, out[1].Role)
	assert.Equal(t, llms.TextContent{Text: "a"}, out[1].Parts[0])
}

func TestToOpenAIMessages_MapsRoles(t *testing.T) {
	out := toOpenAIMessages([]Turn{
		{Role: RoleUser, Content: "q"},
		{Role: RoleModel, Content: "a"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "user", out[0].Role)
	assert.Equal(t, "assistant", out[1].Role)
}

// fakeOpenAI serves /chat/completions with either an SSE stream or a JSON body.
func fakeOpenAI(t *testing.T, fragments []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		var body struct {
			Stream      bool    `json:"stream"`
			Temperature float64 `json:"temperature"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if !body.Stream {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Zakat Basics"}}]}`)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range fragments {
			payload, _ := json.Marshal(map[string]any{
				"id":      "1",
				"object":  "chat.completion.chunk",
				"choices": []map[string]any{{"index": 0, "delta": map[string]string{"content": f}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestOpenAIClient_StreamChat(t *testing.T) {
	srv := fakeOpenAI(t, []string{"Al", "", "lah"})
	defer srv.Close()

	c := NewOpenAIClient("k", "gpt-x", srv.URL+"/v1")
	chunks, errs := c.StreamChat(context.Background(), []Turn{FirstTurn("SYS", "hi")}, 0.1)

	var got []string
	for ch := range chunks {
		got = append(got, ch)
	}
	assert.Equal(t, []string{"Al", "lah"}, got)
	assert.NoError(t, <-errs)
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := fakeOpenAI(t, nil)
	defer srv.Close()

	c := NewOpenAIClient("k", "gpt-x", srv.URL+"/v1")
	out, err := c.Complete(context.Background(), []Turn{{Role: RoleUser, Content: "title?"}}, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Zakat Basics", out)
}

func TestOpenAIClient_StreamChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", "gpt-x", srv.URL)
	chunks, errs := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Content: "q"}}, 0.1)
	for range chunks {
	}
	err := <-errs
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai:")
}
