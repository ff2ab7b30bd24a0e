package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botlint/internal/config"
	"botlint/internal/errors"
	"botlint/internal/metrics"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

// fakeService answers chat completions with reply(request).
func fakeService(t *testing.T, reply func(chatRequest) (int, string)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, body := reply(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(baseURL string) config.OracleConfig {
	cfg := config.DefaultConfig().Oracle
	cfg.APIKey = "sk-test"
	cfg.BaseURL = baseURL + "/"
	return cfg
}

func TestSuggestFix(t *testing.T) {
	var got chatRequest
	srv, _ := fakeService(t, func(req chatRequest) (int, string) {
		got = req
		return http.StatusOK, completion("  Rename the target page.  ")
	})

	c := New(testConfig(srv.URL), nil, nil)
	text := c.SuggestFix(context.Background(), "error: missing page\nlocation: F > P", "How should this be fixed?")

	assert.Equal(t, "Rename the target page.", text)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, config.DefaultSystemPrompt, got.Messages[0].Content)
	assert.Contains(t, got.Messages[1].Content, "How should this be fixed?")
	assert.Contains(t, got.Messages[1].Content, "location: F > P")
	assert.Equal(t, 200, got.MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
}

func TestSuggestFix_Unavailable(t *testing.T) {
	m := metrics.New()
	c := New(config.OracleConfig{}, nil, m)

	assert.False(t, c.Available())
	assert.Equal(t, UnavailableText, c.SuggestFix(context.Background(), "x", "y"))
}

func TestSuggestFix_ServiceError(t *testing.T) {
	srv, _ := fakeService(t, func(chatRequest) (int, string) {
		return http.StatusBadRequest, `{"error":{"message":"bad model","type":"invalid_request_error"}}`
	})

	c := New(testConfig(srv.URL), nil, nil)
	text := c.SuggestFix(context.Background(), "x", "y")

	assert.True(t, strings.HasPrefix(text, "[oracle error: "), "got %q", text)
}

func TestCheckTypos(t *testing.T) {
	var sent string
	srv, _ := fakeService(t, func(req chatRequest) (int, string) {
		sent = req.Messages[1].Content
		return http.StatusOK, completion("```json\n" +
			`{"results":[{"text":"Helo there","typo":true,"reason":"Helo"},{"text":"Good morning","typo":false,"reason":""}]}` +
			"\n```")
	})

	c := New(testConfig(srv.URL), nil, nil)
	results, err := c.CheckTypos(context.Background(), []string{"Helo there", "ㅋㅋㅋ", "Good morning", "!!"})
	require.NoError(t, err)

	assert.Equal(t, []TypoResult{
		{Text: "ㅋㅋㅋ", IsTypo: true, Reason: MeaninglessReason},
		{Text: "!!", IsTypo: true, Reason: MeaninglessReason},
		{Text: "Helo there", IsTypo: true, Reason: "Helo"},
		{Text: "Good morning", IsTypo: false, Reason: ""},
	}, results)
	assert.Contains(t, sent, "- Helo there\n")
	assert.NotContains(t, sent, "ㅋㅋㅋ")
}

func TestCheckTypos_AllMeaninglessMakesNoCall(t *testing.T) {
	srv, calls := fakeService(t, func(chatRequest) (int, string) {
		return http.StatusOK, completion(`{"results":[]}`)
	})

	c := New(testConfig(srv.URL), nil, nil)
	results, err := c.CheckTypos(context.Background(), []string{"", "ㅏㅏ", "  "})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestCheckTypos_Unavailable(t *testing.T) {
	c := New(config.OracleConfig{}, nil, nil)
	_, err := c.CheckTypos(context.Background(), []string{"A real sentence"})
	require.Error(t, err)
	assert.Equal(t, errors.OracleUnavailable, errors.CodeOf(err))
}

func TestCheckTypos_MalformedReply(t *testing.T) {
	srv, _ := fakeService(t, func(chatRequest) (int, string) {
		return http.StatusOK, completion("I think they are fine.")
	})

	c := New(testConfig(srv.URL), nil, nil)
	_, err := c.CheckTypos(context.Background(), []string{"A real sentence"})
	require.Error(t, err)
	assert.Equal(t, errors.OracleFailed, errors.CodeOf(err))
}

func TestIsMeaningless(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"ㅇㅍㅇㅇㅇ", true},
		{"?!...", true},
		{"ab", true},
		{"안녕", true},
		{"abc", false},
		{"안녕하세요", false},
		{" 123 ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsMeaningless(tt.text), "IsMeaningless(%q)", tt.text)
	}
}

func TestParseTypoResponse(t *testing.T) {
	got, err := ParseTypoResponse(`Here you go: {"results":[{"text":"a","typo":false}]}`)
	require.NoError(t, err)
	assert.Equal(t, []TypoResult{{Text: "a"}}, got)

	_, err = ParseTypoResponse("not json")
	assert.Error(t, err)
}
