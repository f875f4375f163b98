// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nexa-tui/internal/apperr"
)

func staticBackend(text string, err error) BackendFunc {
	return func(ctx context.Context, req Request) (string, error) {
		return text, err
	}
}

func TestGenerateJSON_DecodesConformingReply(t *testing.T) {
	reply := "```json\n" + `{"concept":"Photosynthesis","explanation":"Light to sugar.","analogy":"A kitchen.","quickQuiz":["What gas?"]}` + "\n```"
	var gotReq Request
	c := NewClient(BackendFunc(func(ctx context.Context, req Request) (string, error) {
		gotReq = req
		return reply, nil
	}))

	lesson, err := c.Lesson(context.Background(), 10, "Science", "Photosynthesis")
	require.NoError(t, err)

	want := &Lesson{
		Concept:     "Photosynthesis",
		Explanation: "Light to sugar.",
		Analogy:     "A kitchen.",
		QuickQuiz:   []string{"What gas?"},
	}
	if diff := cmp.Diff(want, lesson); diff != "" {
		t.Errorf("Lesson mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, `Explain "Photosynthesis" for Grade 10 Science in Nepal's NEB context.`, gotReq.Prompt)
	assert.Same(t, LessonSchema, gotReq.Schema)
}

func TestGenerateJSON_MalformedResponse(t *testing.T) {
	tests := map[string]string{
		"not json":         "Sorry, I cannot help with that.",
		"missing field":    `{"diagnosis":"Flu","specialist":"GP","hospitals":[]}`,
		"wrong kind":       `{"diagnosis":"Flu","specialist":"GP","hospitals":"Bir","urgency":"Routine"}`,
		"empty":            "  ",
		"trailing garbage": `{"diagnosis":"Flu","specialist":"GP","hospitals":[],"urgency":"Routine"} extra`,
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewClient(staticBackend(reply, nil))
			d, err := c.Diagnose(context.Background(), "fever")
			assert.Nil(t, d)
			assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
			assert.Equal(t, apperr.KindMalformedResponse, apperr.KindOf(err))
		})
	}
}

func TestGenerateJSON_ServiceUnavailable(t *testing.T) {
	c := NewClient(staticBackend("", errors.New("dial tcp: connection refused")))

	_, err := c.AnalyzeAgro(context.Background(), "Chitwan", "Rice")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
	assert.NotErrorIs(t, err, apperr.ErrMalformedResponse)
}

func TestGenerateJSON_NoRetry(t *testing.T) {
	var calls int32
	c := NewClient(BackendFunc(func(ctx context.Context, req Request) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("boom")
	}))

	_, err := c.SearchHotels(context.Background(), "Pokhara")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateJSON_NormalizesEnumAndIntegers(t *testing.T) {
	c := NewClient(staticBackend(`{"title":"T","isHighAltitude":true,"plan":[{"day":1.0,"desc":"d","budgetLine":"b"}]}`, nil))
	it, err := c.PlanItinerary(context.Background(), "Namche", "Premium", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, it.Plan[0].Day)

	c = NewClient(staticBackend(`{"diagnosis":"d","specialist":"s","hospitals":["Bir"],"urgency":"EMERGENCY"}`, nil))
	d, err := c.Diagnose(context.Background(), "chest pain")
	require.NoError(t, err)
	assert.Equal(t, UrgencyEmergency, d.Urgency)
}

func TestGenerateJSON_TimeoutApplied(t *testing.T) {
	c := NewClient(BackendFunc(func(ctx context.Context, req Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithTimeout(10*time.Millisecond))

	_, err := c.Lesson(context.Background(), 9, "Mathematics", "Sets")
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
}

func TestGenerateText_PlaceholderOnFailure(t *testing.T) {
	c := NewClient(staticBackend("", errors.New("503")))
	assert.Equal(t, Placeholder, c.GenerateText(context.Background(), "hello"))

	c = NewClient(staticBackend("   ", nil))
	assert.Equal(t, Placeholder, c.GenerateText(context.Background(), "hello"))

	c = NewClient(staticBackend(" Namaste \n", nil))
	assert.Equal(t, "Namaste", c.GenerateText(context.Background(), "hello"))
}

func TestChat_PassesHistory(t *testing.T) {
	var got Request
	c := NewClient(BackendFunc(func(ctx context.Context, req Request) (string, error) {
		got = req
		return "ok", nil
	}))
	history := []Turn{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hello"}}

	assert.Equal(t, "ok", c.Chat(context.Background(), history, "weather?"))
	assert.Equal(t, history, got.History)
	assert.Equal(t, "weather?", got.Prompt)
	assert.Equal(t, ChatSystemPrompt, got.System)
	assert.Nil(t, got.Schema)
}

func TestClient_ConcurrentCallsNotDeduplicated(t *testing.T) {
	var calls int32
	c := NewClient(BackendFunc(func(ctx context.Context, req Request) (string, error) {
		atomic.AddInt32(&calls, 1)
		return `{"suitability":"High","soilTips":"t","bestVariety":"v","climateRisk":"Low"}`, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.AnalyzeAgro(context.Background(), "Ilam", "Tea")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(8), atomic.LoadInt32(&calls))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}```"))
	assert.Equal(t, `[1]`, stripFences("  [1]  "))
}
