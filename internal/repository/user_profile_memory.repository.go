package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"growyourdough/internal/domain"
)

type memoryUserProfileRepositoryHandler struct {
	mu        sync.RWMutex
	documents map[string]map[string]json.RawMessage
}

// NewMemoryUserProfileRepository keeps documents in process. Used for
// local runs and tests.
func NewMemoryUserProfileRepository() UserProfileRepository {
	return &memoryUserProfileRepositoryHandler{
		documents: map[string]map[string]json.RawMessage{},
	}
}

func (h *memoryUserProfileRepositoryHandler) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	h.mu.RLock()
	document, ok := h.documents[userID]
	if !ok {
		h.mu.RUnlock()
		return nil, ErrProfileNotFound
	}
	bytes, err := json.Marshal(document)
	h.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to encode user profile: %w", err)
	}

	profile := domain.UserProfile{}
	if err := json.Unmarshal(bytes, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode user profile %s: %w", userID, err)
	}
	return &profile, nil
}

func (h *memoryUserProfileRepositoryHandler) Set(ctx context.Context, userID string, fields ProfileFields) error {
	encoded := map[string]json.RawMessage{}
	for k, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode user profile field %s: %w", k, err)
		}
		encoded[k] = b
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	document, ok := h.documents[userID]
	if !ok {
		document = map[string]json.RawMessage{}
		h.documents[userID] = document
	}
	for k, v := range encoded {
		document[k] = v
	}
	return nil
}
