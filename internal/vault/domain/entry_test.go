package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntryInput_Validate(t *testing.T) {
	valid := CreateEntryInput{
		Title:    "example.com",
		Username: "alice",
		Password: "hunter2hunter2",
		URL:      "https://example.com",
		Tags:     []string{"work"},
	}

	t.Run("valid input", func(t *testing.T) {
		input := valid
		assert.NoError(t, input.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		input := valid
		input.Title = ""
		assert.Error(t, input.Validate())
	})

	t.Run("missing password", func(t *testing.T) {
		input := valid
		input.Password = ""
		assert.Error(t, input.Validate())
	})

	t.Run("title too long", func(t *testing.T) {
		input := valid
		input.Title = string(make([]byte, 257))
		assert.Error(t, input.Validate())
	})

	t.Run("empty tag", func(t *testing.T) {
		input := valid
		input.Tags = []string{"work", ""}
		assert.Error(t, input.Validate())
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		input := CreateEntryInput{Title: "t", Password: "p"}
		assert.NoError(t, input.Validate())
	})
}

func TestCreateEntryInput_NewEntry(t *testing.T) {
	input := CreateEntryInput{Title: "example.com", Password: "secret"}
	entry := input.NewEntry()

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "example.com", entry.Title)
	assert.Equal(t, "secret", entry.Password)
	assert.NotNil(t, entry.Tags)
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
	assert.Equal(t, time.UTC, entry.CreatedAt.Location())

	t.Run("ids are unique", func(t *testing.T) {
		other := input.NewEntry()
		assert.NotEqual(t, entry.ID, other.ID)
	})
}

func TestUpdateEntryInput(t *testing.T) {
	t.Run("nil fields validate", func(t *testing.T) {
		input := UpdateEntryInput{}
		assert.NoError(t, input.Validate())
	})

	t.Run("set title must be non-empty", func(t *testing.T) {
		empty := ""
		input := UpdateEntryInput{Title: &empty}
		assert.Error(t, input.Validate())
	})

	t.Run("apply changes only the set fields", func(t *testing.T) {
		entry := (&CreateEntryInput{Title: "old", Username: "alice", Password: "secret"}).NewEntry()
		created := entry.CreatedAt

		newTitle := "new"
		newPassword := "rotated"
		input := UpdateEntryInput{Title: &newTitle, Password: &newPassword}
		input.Apply(entry)

		assert.Equal(t, "new", entry.Title)
		assert.Equal(t, "rotated", entry.Password)
		assert.Equal(t, "alice", entry.Username)
		assert.Equal(t, created, entry.CreatedAt)
		assert.False(t, entry.UpdatedAt.Before(created))
	})
}

func TestSortSummaries(t *testing.T) {
	id := func(s string) uuid.UUID {
		parsed, err := uuid.Parse(s)
		require.NoError(t, err)
		return parsed
	}

	summaries := []EntrySummary{
		{ID: id("00000000-0000-0000-0000-000000000002"), Title: "zebra"},
		{ID: id("00000000-0000-0000-0000-000000000003"), Title: "Apple"},
		{ID: id("00000000-0000-0000-0000-000000000001"), Title: "apple"},
	}

	SortSummaries(summaries)

	// Case-insensitive by title, tie-broken by id.
	assert.Equal(t, id("00000000-0000-0000-0000-000000000001"), summaries[0].ID)
	assert.Equal(t, id("00000000-0000-0000-0000-000000000003"), summaries[1].ID)
	assert.Equal(t, "zebra", summaries[2].Title)
}
