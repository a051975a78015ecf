package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "session.json"))
}

func TestRestore_NoFile(t *testing.T) {
	s := testStore(t)
	assert.False(t, s.Ready())

	s.Restore()

	assert.True(t, s.Ready())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Credential())
}

func TestSetThenRestore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := New(path)

	id := Identity{Username: "ana", Role: "staff", UserID: 42}
	require.NoError(t, s.Set(id, "tok-123"))

	// A fresh store sees the same identity and credential, unmodified.
	s2 := New(path)
	s2.Restore()

	got := s2.Current()
	require.NotNil(t, got)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, "staff", got.Role)
	assert.Equal(t, 42, got.UserID)
	assert.Equal(t, "tok-123", s2.Credential())
}

func TestRestore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := New(path)
	s.Restore() // must not panic or error

	assert.True(t, s.Ready())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Credential())
}

func TestRestore_WrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	// Valid JSON, but missing the required fields.
	require.NoError(t, os.WriteFile(path, []byte(`{"something":"else"}`), 0o600))

	s := New(path)
	s.Restore()

	assert.Nil(t, s.Current())
}

func TestRestore_MissingToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	payload := `{"user":{"username":"ana","role":"staff","user_id":1},"token":""}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	s := New(path)
	s.Restore()

	// Identity without a credential is not a usable session.
	assert.Nil(t, s.Current())
}

func TestClear_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := New(path)
	require.NoError(t, s.Set(Identity{Username: "bo", Role: "student", UserID: 7}, "tok"))

	require.NoError(t, s.Clear())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Credential())

	// Second clear with no file present still succeeds.
	require.NoError(t, s.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := testStore(t)
	if err := s.Set(Identity{Username: "bo", Role: "student", UserID: 7}, "tok"); err != nil {
		t.Fatal(err)
	}

	got := s.Current()
	got.Role = "staff"

	assert.Equal(t, "student", s.Current().Role, "mutating the returned identity must not affect the store")
}

func TestSet_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := New(path)
	require.NoError(t, s.Set(Identity{Username: "ana", Role: "staff", UserID: 1}, "tok"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
