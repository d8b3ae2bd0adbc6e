package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type course struct{ id, name string }

func TestName(t *testing.T) {
	courses := []course{
		{"1", "Advanced Mathematics"},
		{"2", "Math"},
		{"3", "Mathematics 101"},
		{"4", "Physics"},
	}
	nameOf := func(c course) string { return c.name }

	tests := []struct {
		name   string
		query  string
		wantID string
		found  bool
	}{
		{"exact wins over earlier substring", "math", "2", true},
		{"prefix beats substring", "mathem", "3", true},
		{"substring", "advanced", "1", true},
		{"case insensitive", "PHYSICS", "4", true},
		{"trimmed", "  physics ", "4", true},
		{"no match", "biology", "", false},
		{"empty query", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Name(courses, tt.query, nameOf)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, got.id)
		})
	}
}

func TestFind_MultipleNames(t *testing.T) {
	type chat struct {
		id              int64
		title, username string
	}
	chats := []chat{
		{-100555, "Family Group", ""},
		{42, "", "alice_bot"},
	}
	names := func(c chat) []string { return []string{c.title, c.username} }

	got, ok := Find(chats, "family group", names)
	assert.True(t, ok)
	assert.EqualValues(t, -100555, got.id)

	got, ok = Find(chats, "alice", names)
	assert.True(t, ok)
	assert.EqualValues(t, 42, got.id)

	_, ok = Find(chats, "Unknown Group", names)
	assert.False(t, ok)
}
