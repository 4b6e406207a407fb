package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "cyclemate.db"))
	return NewRepositories(database)
}

func TestStateRepositorySaveAndLoad(t *testing.T) {
	repos := newTestRepositories(t)

	_, found, err := repos.State.Load()
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repos.State.Save(2, []byte(`{"schemaVersion":2}`)))
	snapshot, found, err := repos.State.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, snapshot.SchemaVersion)
	assert.Equal(t, `{"schemaVersion":2}`, snapshot.Payload)
	assert.Equal(t, PayloadChecksum([]byte(`{"schemaVersion":2}`)), snapshot.Checksum)

	require.NoError(t, repos.State.Save(2, []byte(`{"schemaVersion":2,"cycle":{}}`)))
	snapshot, _, err = repos.State.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"schemaVersion":2,"cycle":{}}`, snapshot.Payload)

	var rows int64
	require.NoError(t, repos.State.database.Table("app_state").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestStateRepositorySkipsIdenticalPayload(t *testing.T) {
	repos := newTestRepositories(t)

	require.NoError(t, repos.State.Save(2, []byte(`{}`)))
	first, _, err := repos.State.Load()
	require.NoError(t, err)

	require.NoError(t, repos.State.Save(2, []byte(`{}`)))
	second, _, err := repos.State.Load()
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
}

func TestStateRepositoryClear(t *testing.T) {
	repos := newTestRepositories(t)
	require.NoError(t, repos.State.Save(2, []byte(`{}`)))
	require.NoError(t, repos.State.Clear())

	_, found, err := repos.State.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLockRepositoryRoundTrip(t *testing.T) {
	repos := newTestRepositories(t)

	hash, err := repos.Lock.LoadPasscodeHash()
	require.NoError(t, err)
	assert.Empty(t, hash)

	require.NoError(t, repos.Lock.SavePasscodeHash("hash-1"))
	require.NoError(t, repos.Lock.SavePasscodeHash("hash-2"))
	hash, err = repos.Lock.LoadPasscodeHash()
	require.NoError(t, err)
	assert.Equal(t, "hash-2", hash)

	require.NoError(t, repos.Lock.ClearPasscodeHash())
	hash, err = repos.Lock.LoadPasscodeHash()
	require.NoError(t, err)
	assert.Empty(t, hash)
}
