package anidb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danie1k/anime-metadata/internal/domain"
)

const titlesDump = `# anime-titles.dat
# created: Mon Aug 31 00:00:00 2026
30|1|x-jat|Monster.
30|4|en|Monster
30|3|ja|モンスター
malformed line without enough fields
32|1|x-jat|Neon Genesis Evangelion
`

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anime-titles.dat")
	require.NoError(t, os.WriteFile(path, []byte(titlesDump), 0644))
	return path
}

func TestTitleStoreAll(t *testing.T) {
	store := NewTitleStore(zerolog.Nop(), writeDump(t))

	var got []domain.Candidate
	for c := range store.All() {
		got = append(got, c)
	}

	assert.Equal(t, []domain.Candidate{
		{ID: "30", Title: "Monster."},
		{ID: "30", Title: "Monster"},
		{ID: "30", Title: "モンスター"},
		{ID: "32", Title: "Neon Genesis Evangelion"},
	}, got)
}

func TestTitleStoreEarlyStop(t *testing.T) {
	store := NewTitleStore(zerolog.Nop(), writeDump(t))

	var got []domain.Candidate
	for c := range store.All() {
		got = append(got, c)
		break
	}
	require.Len(t, got, 1)
	assert.Equal(t, "30", got[0].ID)
}

func TestTitleStoreMissingFile(t *testing.T) {
	store := NewTitleStore(zerolog.Nop(), filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, store.Verify())

	count := 0
	for range store.All() {
		count++
	}
	assert.Zero(t, count, "a missing dump yields an empty sequence")
}
