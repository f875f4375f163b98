// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reviews keeps user reviews of hotels (or any other subject id) in
// the local key-value store.
//
// The whole mapping of subject id to reviews is one JSON blob under
// StorageKey and is rewritten on every append. Reviews are immutable and
// kept in submission order.
package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/logging"
	"github.com/jeranaias/nexa-tui/internal/storage"
)

// StorageKey is the key of the review blob.
const StorageKey = "nexo_hotel_reviews"

// corruptKey receives an unreadable blob before it is replaced.
const corruptKey = StorageKey + ".corrupt"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// DefaultUserName is used when a draft has no author.
const DefaultUserName = "Guest"

// =============================================================================
// TYPES
// =============================================================================

// Review is a stored review. Timestamp is Unix milliseconds.
type Review struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Timestamp int64  `json:"timestamp"`
}

// CreatedAt returns Timestamp as a time.
func (r Review) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Draft is a review as entered by the user.
type Draft struct {
	UserName string
	Rating   int
	Comment  string
}

// Validate checks the draft against the review rules.
func (d Draft) Validate() error {
	if d.Rating < MinRating || d.Rating > MaxRating {
		return apperr.NewValidationError("rating", fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating))
	}
	if strings.TrimSpace(d.Comment) == "" {
		return apperr.NewValidationError("comment", "Comment cannot be empty")
	}
	return nil
}

// =============================================================================
// STORE
// =============================================================================

// Store is the in-memory view of the review blob. It is safe for
// concurrent use.
type Store struct {
	kv     storage.KV
	logger *zap.Logger

	mu   sync.RWMutex
	data map[string][]Review
	// gen counts local writes; a Load that raced one is discarded.
	gen uint64

	now   func() time.Time
	newID func() string
}

// NewStore creates a store over kv. Call Load before use.
func NewStore(kv storage.KV, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logging.Named(logger, "reviews"),
		data:   make(map[string][]Review),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Load reads the blob. A missing, unreadable or corrupt blob yields an empty
// mapping; the problem is logged and never returned. Stored reviews with a
// rating outside 1..5 are dropped.
//
// A Load that overlaps an Append keeps the in-memory mapping: the Append
// persisted it after the blob was read, so it is the newer state.
func (s *Store) Load(ctx context.Context) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	data := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Debug("review reload superseded by local append")
		return
	}
	s.data = data
}

func (s *Store) read(ctx context.Context) map[string][]Review {
	empty := make(map[string][]Review)

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("review blob unreadable, starting empty", zap.Error(err))
		return empty
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return empty
	}

	var decoded map[string][]Review
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Warn("review blob corrupt, starting empty", zap.Error(err), zap.Int("bytes", len(raw)))
		if err := s.kv.Set(ctx, corruptKey, raw); err != nil {
			s.logger.Warn("could not keep corrupt review blob", zap.Error(err))
		}
		return empty
	}

	for subject, list := range decoded {
		kept := list[:0]
		for _, r := range list {
			if r.Rating < MinRating || r.Rating > MaxRating {
				s.logger.Warn("dropping stored review with invalid rating",
					zap.String("subject", subject), zap.String("id", r.ID), zap.Int("rating", r.Rating))
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) > 0 {
			empty[subject] = kept
		}
	}
	return empty
}

// Append validates draft, appends it to subjectID's list and persists the
// whole mapping. On validation failure the returned error wraps
// apperr.ErrValidationRejected and nothing changes. On a storage failure
// the in-memory append is rolled back.
func (s *Store) Append(ctx context.Context, subjectID string, draft Draft) (Review, error) {
	if strings.TrimSpace(subjectID) == "" {
		return Review{}, apperr.NewValidationError("subject", "Subject is required")
	}
	if err := draft.Validate(); err != nil {
		return Review{}, err
	}

	name := strings.TrimSpace(draft.UserName)
	if name == "" {
		name = DefaultUserName
	}
	review := Review{
		ID:        s.newID(),
		UserName:  name,
		Rating:    draft.Rating,
		Comment:   draft.Comment,
		Timestamp: s.now().UnixMilli(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	prev, existed := s.data[subjectID]
	next := make([]Review, len(prev), len(prev)+1)
	copy(next, prev)
	s.data[subjectID] = append(next, review)

	if err := s.persistLocked(ctx); err != nil {
		if existed {
			s.data[subjectID] = prev
		} else {
			delete(s.data, subjectID)
		}
		return Review{}, fmt.Errorf("failed to persist reviews: %w", err)
	}

	s.logger.Info("review appended",
		zap.String("subject", subjectID), zap.String("id", review.ID), zap.Int("rating", review.Rating))
	return review, nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey, string(blob))
}

// Reviews returns a copy of subjectID's reviews in submission order.
func (s *Store) Reviews(subjectID string) []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.data[subjectID]
	out := make([]Review, len(list))
	copy(out, list)
	return out
}

// Count returns the number of reviews for subjectID.
func (s *Store) Count(subjectID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[subjectID])
}

// Average returns the mean rating for subjectID, false when there are none.
func (s *Store) Average(subjectID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.data[subjectID]
	if len(list) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	return float64(sum) / float64(len(list)), true
}

// Subjects returns the subject ids that have reviews, sorted.
func (s *Store) Subjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WatchExternal reloads the store whenever the backing blob changes outside
// this process, then calls onReload. It is a no-op for backends that cannot
// watch.
func (s *Store) WatchExternal(ctx context.Context, onReload func()) error {
	w, ok := s.kv.(storage.Watcher)
	if !ok {
		return nil
	}
	return w.Watch(ctx, StorageKey, func() {
		s.Load(ctx)
		s.logger.Debug("review blob reloaded")
		if onReload != nil {
			onReload()
		}
	})
}
