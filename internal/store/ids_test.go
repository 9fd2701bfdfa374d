package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewGiverID_UniquePrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewGiverID()
		assert.True(t, strings.HasPrefix(id, "giver-"))
		assert.False(t, seen[id], "ids must be unique")
		seen[id] = true
	}
}

func TestNewEventID_UniquePrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewEventID()
		assert.True(t, strings.HasPrefix(id, "event-"))
		assert.False(t, seen[id], "ids must be unique")
		seen[id] = true
	}
}

func TestNextNumericID(t *testing.T) {
	tests := []struct {
		name     string
		existing []int64
	}{
		{name: "empty", existing: nil},
		{name: "seed ids", existing: []int64{1, 2, 3}},
		{name: "id in the future", existing: []int64{time.Now().UnixMilli() + 100000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := nextNumericID(tt.existing)
			for _, existing := range tt.existing {
				assert.Greater(t, id, existing, "new id must exceed every existing id")
			}
		})
	}
}

func TestNextNumericID_RapidSuccession(t *testing.T) {
	// быстрые последовательные создания в одном контексте не коллидируют
	ids := []int64{1, 2, 3}
	for i := 0; i < 50; i++ {
		id := nextNumericID(ids)
		for _, existing := range ids {
			assert.NotEqual(t, existing, id)
		}
		ids = append(ids, id)
	}
}
