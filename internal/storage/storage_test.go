package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

func TestSeedProfiles(t *testing.T) {
	profiles, err := SeedProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 6)

	byPhone := map[string]*models.CustomerProfile{}
	for _, p := range profiles {
		byPhone[p.Phone] = p
	}
	pooja := byPhone["9278901234"]
	require.NotNil(t, pooja)
	assert.Equal(t, "Pooja Agarwal", pooja.Name)
	assert.Equal(t, 705, pooja.CreditScore)
	assert.Equal(t, int64(200000), pooja.PreApprovedLimit)
	assert.Equal(t, int64(30000), pooja.MonthlySalary)
	assert.Equal(t, int64(15000), pooja.CurrentEMIs)
}

func TestParseProfilesRejectsBadData(t *testing.T) {
	_, err := ParseProfiles([]byte("customers:\n  - phone: \"12345\"\n    name: Bad\n"))
	assert.ErrorContains(t, err, "invalid phone")

	dup := "customers:\n  - phone: \"9876543210\"\n    name: A\n  - phone: \"+91 98765 43210\"\n    name: B\n"
	_, err = ParseProfiles([]byte(dup))
	assert.ErrorContains(t, err, "duplicate phone")

	profiles, err := ParseProfiles([]byte("customers:\n  - phone: \"+91-98765-43210\"\n    name: A\n"))
	require.NoError(t, err)
	assert.Equal(t, "9876543210", profiles[0].Phone)
}

func TestMemoryStoreProfiles(t *testing.T) {
	ctx := context.Background()
	m, err := NewSeededMemoryStore()
	require.NoError(t, err)

	p, err := m.GetProfileByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", p.Name)

	p.Name = "mutated"
	again, err := m.GetProfileByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", again.Name, "callers get copies")

	_, err = m.GetProfileByPhone(ctx, "9000000000")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	all, err := m.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "Amit Verma", all[0].Name)

	require.NoError(t, m.UpsertProfile(ctx, &models.CustomerProfile{Phone: "9000000000", Name: " New Person ", PAN: "abcde1111z"}))
	p, err = m.GetProfileByPhone(ctx, "9000000000")
	require.NoError(t, err)
	assert.Equal(t, "New Person", p.Name)
	assert.Equal(t, "ABCDE1111Z", p.PAN)
}

func TestMemoryStoreSanctions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.GetSanction(ctx, "LV202603100000")
	assert.ErrorIs(t, err, apperrors.ErrSanctionNotFound)

	assert.Error(t, m.SaveSanction(ctx, &models.SanctionRecord{}))

	rec := &models.SanctionRecord{LoanID: "LV202603103210", Amount: 300000, Document: []byte("<html>")}
	require.NoError(t, m.SaveSanction(ctx, rec))
	assert.NotEmpty(t, rec.ID)

	got, err := m.GetSanction(ctx, "LV202603103210")
	require.NoError(t, err)
	assert.Equal(t, int64(300000), got.Amount)
	assert.Equal(t, []byte("<html>"), got.Document)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Minute, time.Minute)

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	data := []byte(`{"id":"a"}`)
	require.NoError(t, s.Save(ctx, "a", data, time.Minute))
	data[0] = 'X'

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, string(got))

	require.NoError(t, s.Save(ctx, "b", []byte("{}"), time.Minute))
	ids, err := s.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Minute, time.Minute)

	require.NoError(t, s.Save(ctx, "short", []byte("{}"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := s.Load(ctx, "short")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisSessionStore(client)

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, "abc", []byte(`{"phase":"options_presentation"}`), 30*time.Minute))
	assert.True(t, mr.Exists("loanverse:session:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("loanverse:session:abc"))

	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"options_presentation"}`, string(got))

	require.NoError(t, s.Save(ctx, "wa:9876543210", []byte("{}"), time.Minute))
	ids, err := s.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "wa:9876543210"}, ids)

	mr.FastForward(31 * time.Minute)
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, s.Delete(ctx, "wa:9876543210"))
	assert.False(t, mr.Exists("loanverse:session:wa:9876543210"))
}

func TestRedisSessionStoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisSessionStore(client)

	mr.SetError("READONLY You can't write against a read only replica")
	err := s.Save(context.Background(), "abc", []byte("{}"), time.Minute)
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}
