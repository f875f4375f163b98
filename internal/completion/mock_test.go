// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nexa-tui/internal/config"
)

func TestMockBackend_Itinerary(t *testing.T) {
	c := NewClient(NewMockBackend())

	it, err := c.PlanItinerary(context.Background(), "Pokhara", "Standard", "3")
	require.NoError(t, err)
	assert.False(t, it.IsHighAltitude)
	require.Len(t, it.Plan, 3)
	for i, d := range it.Plan {
		assert.Equal(t, i+1, d.Day)
	}

	it, err = c.PlanItinerary(context.Background(), "Everest Base Camp", "Premium", "12")
	require.NoError(t, err)
	assert.True(t, it.IsHighAltitude)
	assert.Len(t, it.Plan, 12)
}

func TestMockBackend_Hotels(t *testing.T) {
	hotels, err := NewClient(NewMockBackend()).SearchHotels(context.Background(), "Bandipur")
	require.NoError(t, err)
	require.Len(t, hotels, 4)
	for _, h := range hotels {
		assert.Equal(t, "Bandipur", h.Location)
		assert.Greater(t, h.PricePerNight, 0.0)
	}
}

func TestMockBackend_EverySchema(t *testing.T) {
	c := NewClient(NewMockBackend())
	ctx := context.Background()

	_, err := c.Lesson(ctx, 8, "Nepali", "Vyakaran")
	assert.NoError(t, err)
	d, err := c.Diagnose(ctx, "headache")
	assert.NoError(t, err)
	assert.Equal(t, UrgencyRoutine, d.Urgency)
	_, err = c.AnalyzeAgro(ctx, "Dang", "Maize")
	assert.NoError(t, err)
	assert.NotEqual(t, Placeholder, c.Chat(ctx, nil, "hi"))
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(context.Background(), config.CompletionConfig{Provider: config.ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, "mock", b.Name())

	_, err = NewBackend(context.Background(), config.CompletionConfig{Provider: config.ProviderGemini})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewBackend(context.Background(), config.CompletionConfig{Provider: config.ProviderOpenRouter})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewBackend(context.Background(), config.CompletionConfig{Provider: "ollama"})
	assert.Error(t, err)
}
