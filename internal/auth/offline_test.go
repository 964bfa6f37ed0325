package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewOfflineUUID_IsValidV4(t *testing.T) {
	got := NewOfflineUUID()
	parsed, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestNewOfflineUUID_FreshEveryCall(t *testing.T) {
	a := NewOfflineUUID()
	b := NewOfflineUUID()
	assert.NotEqual(t, a, b, "each launch must get its own fresh uuid, not one derived from the username")
}
