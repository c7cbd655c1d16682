package parser

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kitchenmania/pantry/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeModel(t *testing.T, reply string, prompts *[]string) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if prompts != nil {
			for _, b := range req.Messages[0].Content {
				*prompts = append(*prompts, b.Type+":"+b.Text)
			}
		}
		body, _ := json.Marshal(map[string]any{
			"content": []map[string]string{{"type": "text", "text": reply}},
		})
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return llm.New(llm.Config{APIKey: "test", BaseURL: srv.URL}, nil)
}

func TestNew_PicksImplementation(t *testing.T) {
	_, isRegex := New(nil, nil).(*RegexParser)
	assert.True(t, isRegex)

	_, isAI := New(fakeModel(t, "{}", nil), nil).(*AIParser)
	assert.True(t, isAI)
}

func TestAIParser_ParseText(t *testing.T) {
	var prompts []string
	reply := "```json\n" + `{"items": [
		{"name": " Milk ", "quantity": 2, "unit": "Liters", "category": "Dairy", "exists": false},
		{"name": "Eggs", "quantity": 0, "unit": "", "category": "Dairy"},
		{"name": "Basil", "quantity": 1, "unit": "bunch"}
	]}` + "\n```"
	p := NewAIParser(fakeModel(t, reply, &prompts), nil)

	items, err := p.ParseText(context.Background(), "two liters of milk, eggs, basil", []string{"milk"})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "l", items[0].Unit)
	assert.True(t, items[0].Exists, "exists is recomputed from pantry names")
	assert.Equal(t, 1.0, items[1].Quantity)
	assert.Equal(t, "pcs", items[1].Unit)
	assert.Equal(t, "bunch", items[2].Unit)

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "two liters of milk")
	assert.Contains(t, prompts[0], "- milk\n")
}

func TestAIParser_ParseReceipt(t *testing.T) {
	var prompts []string
	p := NewAIParser(fakeModel(t, `{"items":[{"name":"Bananas","quantity":1.2,"unit":"kg"}]}`, &prompts), nil)

	items, err := p.ParseReceipt(context.Background(), []byte("img"), "image/png", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1.2, items[0].Quantity)

	require.Len(t, prompts, 2)
	assert.True(t, strings.HasPrefix(prompts[0], "image:"))
	assert.Contains(t, prompts[1], "receipt")
}

func TestAIParser_BadJSON(t *testing.T) {
	p := NewAIParser(fakeModel(t, "sorry, I can't", nil), nil)
	_, err := p.ParseText(context.Background(), "milk", nil)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "decode items")
}

func TestAIParser_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewAIParser(llm.New(llm.Config{APIKey: "k", BaseURL: srv.URL}, nil), nil)
	_, err := p.ParseText(context.Background(), "milk", nil)

	var ae *APICallError
	require.True(t, errors.As(err, &ae))
	assert.NotNil(t, errors.Unwrap(err))
}
