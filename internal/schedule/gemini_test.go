package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare object",
			text:     `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "wrapped in prose",
			text:     "Sure! Here is the schedule:\n{\"a\":1}\nLet me know if you need more.",
			expected: `{"a":1}`,
		},
		{
			name:     "markdown fenced",
			text:     "```json\n{\"a\":{\"b\":2}}\n```",
			expected: `{"a":{"b":2}}`,
		},
		{
			name:     "braces inside strings",
			text:     `before {"reason":"use {curly} braces \" fine"} after`,
			expected: `{"reason":"use {curly} braces \" fine"}`,
		},
		{
			name:     "first of several objects",
			text:     `{"a":1} {"b":2}`,
			expected: `{"a":1}`,
		},
		{
			name:    "no object",
			text:    "no json here",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			text:    `{"a": {"b": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCompletion(t *testing.T) {
	t.Run("valid completion", func(t *testing.T) {
		res, err := parseCompletion(`Here you go:
{"suggestions":[{"taskId":7,"scheduledTime":"2024-03-04T09:00:00Z","durationMinutes":90,"reason":"morning focus","color":"#fff"}],"summary":"one task"}`)
		require.NoError(t, err)
		require.Len(t, res.Suggestions, 1)
		assert.Equal(t, 7, res.Suggestions[0].TaskID)
		assert.Equal(t, 90, res.Suggestions[0].DurationMinutes)
		assert.Equal(t, "one task", res.Summary)
		assert.False(t, res.Suggestions[0].ScheduledTime.IsZero())
	})

	t.Run("missing suggestions array", func(t *testing.T) {
		_, err := parseCompletion(`{"summary":"nothing to place"}`)
		assert.Error(t, err)
	})

	t.Run("repairable json", func(t *testing.T) {
		// trailing comma is the classic model mistake
		res, err := parseCompletion(`{"suggestions":[{"taskId":1,"scheduledTime":"2024-03-04T09:00:00Z","durationMinutes":30,},],"summary":"s"}`)
		require.NoError(t, err)
		require.Len(t, res.Suggestions, 1)
		assert.Equal(t, 1, res.Suggestions[0].TaskID)
	})

	t.Run("empty suggestions is still valid shape", func(t *testing.T) {
		res, err := parseCompletion(`{"suggestions":[],"summary":"busy week"}`)
		require.NoError(t, err)
		assert.Empty(t, res.Suggestions)
	})
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		input string
		zero  bool
	}{
		{"2024-03-04T09:00:00Z", false},
		{"2024-03-04T09:00:00", false},
		{"2024-03-04T09:00", false},
		{"2024-03-04 09:00", false},
		{"2024-03-04", false},
		{"next tuesday", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.zero, parseWhen(tt.input).IsZero())
		})
	}
}

func geminiEnvelope(text string) string {
	env := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(env)
	return string(b)
}

func TestGeminiClient_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "quota", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, geminiEnvelope(`{"suggestions":[{"taskId":1,"scheduledTime":"2024-03-04T09:00:00","durationMinutes":60,"reason":"r","color":"#fff"}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("key", "test-model", 5*time.Second)
	c.BaseURL = srv.URL

	res, err := c.Suggest(context.Background(), "prompt")
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiClient_SurfacesFinalError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGeminiClient("key", "test-model", 5*time.Second)
	c.BaseURL = srv.URL

	_, err := c.Suggest(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Equal(t, int32(suggestAttempts), atomic.LoadInt32(&calls))
}

func TestGeminiClient_InvalidShapeIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// well-formed JSON, wrong shape
		fmt.Fprint(w, geminiEnvelope(`{"plan":"just wing it"}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("key", "test-model", 5*time.Second)
	c.BaseURL = srv.URL

	_, err := c.Suggest(context.Background(), "prompt")
	assert.Error(t, err)
}
