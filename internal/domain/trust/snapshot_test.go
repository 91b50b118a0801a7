package trust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_AllowRecordLaterEntryWins(t *testing.T) {
	t.Parallel()

	s := Snapshot{AllowList: []Record{
		{PluginID: "test.plugin", Checksum: "old"},
		{PluginID: "other.plugin", Checksum: "xyz"},
		{PluginID: "test.plugin", Checksum: "new"},
	}}

	record, ok := s.AllowRecord("test.plugin")
	require.True(t, ok)
	assert.Equal(t, "new", record.Checksum)

	_, ok = s.AllowRecord("missing.plugin")
	assert.False(t, ok)
}

func TestSnapshot_Denied(t *testing.T) {
	t.Parallel()

	s := Snapshot{DenyList: []string{"revoked.plugin"}}
	assert.True(t, s.Denied("revoked.plugin"))
	assert.False(t, s.Denied("test.plugin"))
}

func TestSnapshot_AllowUpserts(t *testing.T) {
	t.Parallel()

	var s Snapshot
	s.Allow("test.plugin", "abc123")
	s.Allow("test.plugin", "def456")

	require.Len(t, s.AllowList, 1)
	assert.Equal(t, "def456", s.AllowList[0].Checksum)
}

func TestSnapshot_RevokeDeduplicates(t *testing.T) {
	t.Parallel()

	var s Snapshot
	s.Revoke("bad.plugin")
	s.Revoke("bad.plugin")

	assert.Equal(t, []string{"bad.plugin"}, s.DenyList)
}

func TestSnapshot_UpsertKey(t *testing.T) {
	t.Parallel()

	var s Snapshot
	s.UpsertKey(SigningKey{ID: "k1", PublicKey: "a"})
	s.UpsertKey(SigningKey{ID: "k2", PublicKey: "b"})
	s.UpsertKey(SigningKey{ID: "k1", PublicKey: "c"})

	require.Len(t, s.SigningKeys, 2)
	key, ok := s.Key("k1")
	require.True(t, ok)
	assert.Equal(t, "c", key.PublicKey)
}

func TestSnapshot_RevokeKey(t *testing.T) {
	t.Parallel()

	s := Snapshot{SigningKeys: []SigningKey{{ID: "k1"}}}
	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, s.RevokeKey("k1", at))
	require.NotNil(t, s.SigningKeys[0].RevokedAt)
	assert.Equal(t, at, *s.SigningKeys[0].RevokedAt)

	assert.False(t, s.RevokeKey("missing", at))
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := Snapshot{
		AllowList:   []Record{{PluginID: "p", Checksum: "c"}},
		DenyList:    []string{"d"},
		SigningKeys: []SigningKey{{ID: "k"}},
	}

	clone := original.Clone()
	clone.AllowList[0].Checksum = "mutated"
	clone.DenyList[0] = "mutated"
	clone.SigningKeys[0].ID = "mutated"

	assert.Equal(t, "c", original.AllowList[0].Checksum)
	assert.Equal(t, "d", original.DenyList[0])
	assert.Equal(t, "k", original.SigningKeys[0].ID)
}

func TestSnapshot_CloneOfZeroValue(t *testing.T) {
	t.Parallel()

	clone := Snapshot{}.Clone()
	assert.Nil(t, clone.AllowList)
	assert.Nil(t, clone.DenyList)
	assert.Nil(t, clone.SigningKeys)
}
