// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nexa-tui/internal/apperr"
)

func TestOpenRouterBackend_RequestShape(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))
		assert.Equal(t, "NEXA", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[{"message":{"role":"assistant","content":"{\"suitability\":\"Good\",\"soilTips\":\"Lime\",\"bestVariety\":\"Janaki\",\"climateRisk\":\"Low\"}"}}]}`))
	}))
	defer server.Close()

	b, err := NewOpenRouterBackend("sk-or-test", WithOpenRouterBaseURL(server.URL+"/"), WithOpenRouterModel("test/model"))
	require.NoError(t, err)

	report, err := NewClient(b).AnalyzeAgro(context.Background(), "Jhapa", "Wheat")
	require.NoError(t, err)
	assert.Equal(t, "Janaki", report.BestVariety)

	assert.Equal(t, "test/model", body["model"])
	rf := body["response_format"].(map[string]interface{})
	assert.Equal(t, "json_schema", rf["type"])
	js := rf["json_schema"].(map[string]interface{})
	assert.Equal(t, true, js["strict"])
	schema := js["schema"].(map[string]interface{})
	assert.Equal(t, "object", schema["type"])

	msgs := body["messages"].([]interface{})
	require.Len(t, msgs, 1)
	assert.Equal(t, "Analyze Jhapa for Wheat in Nepal. Include soil tips and suitability.", msgs[0].(map[string]interface{})["content"])
}

func TestOpenRouterBackend_ChatRoles(t *testing.T) {
	var body chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Namaste"}}]}`))
	}))
	defer server.Close()

	b, err := NewOpenRouterBackend("k", WithOpenRouterBaseURL(server.URL))
	require.NoError(t, err)

	reply := NewClient(b).Chat(context.Background(), []Turn{{RoleUser, "hi"}, {RoleModel, "hello"}}, "bye")
	assert.Equal(t, "Namaste", reply)

	roles := make([]string, 0, len(body.Messages))
	for _, m := range body.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
	assert.Nil(t, body.ResponseFormat)
}

func TestOpenRouterBackend_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{"error":{"code":401,"message":"bad key"}}`, ErrAuthFailed},
		{http.StatusPaymentRequired, `{"error":{"message":"no credits"}}`, ErrInsufficientCredits},
		{http.StatusNotFound, `not json`, ErrModelNotFound},
		{http.StatusTooManyRequests, `{"error":{"code":"rate_limit","message":"slow down"}}`, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			b, err := NewOpenRouterBackend("k", WithOpenRouterBaseURL(server.URL))
			require.NoError(t, err)

			_, err = b.Generate(context.Background(), Request{Prompt: "x"})
			assert.ErrorIs(t, err, tt.want)

			var orErr *OpenRouterError
			require.ErrorAs(t, err, &orErr)
			assert.Equal(t, tt.status, orErr.Status)

			_, err = NewClient(b).Lesson(context.Background(), 8, "English", "Verbs")
			assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
		})
	}
}

func TestOpenRouterBackend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	b, err := NewOpenRouterBackend("k", WithOpenRouterBaseURL(server.URL))
	require.NoError(t, err)

	_, err = b.Generate(context.Background(), Request{Prompt: "x"})
	var orErr *OpenRouterError
	require.ErrorAs(t, err, &orErr)
	assert.Equal(t, http.StatusBadGateway, orErr.Status)
	assert.Equal(t, "upstream down", orErr.Message)
}

func TestOpenRouterBackend_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	b, err := NewOpenRouterBackend("k", WithOpenRouterBaseURL(server.URL))
	require.NoError(t, err)
	_, err = b.Generate(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestNewOpenRouterBackend_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterBackend("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
