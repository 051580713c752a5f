package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/store"
	"github.com/pgm-community/dispatch/internal/testutil"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id, request, actor, command string, status domain.DispatchStatus, at time.Duration) domain.DispatchRecord {
	return domain.DispatchRecord{
		ID:        id,
		RequestID: request,
		ActorID:   actor,
		ActorName: actor,
		Input:     command,
		Command:   command,
		Status:    status,
		CreatedAt: base.Add(at),
	}
}

func seed(t *testing.T) *store.Store {
	t.Helper()
	s := testutil.NewTestStore(t)
	testutil.SeedDispatches(t, s, []domain.DispatchRecord{
		record("1", "r1", "steve", "kick", domain.StatusExecuted, 0),
		record("2", "r2", "steve", "mutate add", domain.StatusPending, time.Minute),
		record("3", "r2", "steve", "mutate add", domain.StatusConfirmed, 2*time.Minute),
		record("4", "r3", "alex", "freeze", domain.StatusFailed, 3*time.Minute),
		record("5", "r4", "alex", "kick", domain.StatusExecuted, 4*time.Minute),
	})
	return s
}

func ids(recs []domain.DispatchRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestStore_RecordDispatch(t *testing.T) {
	s := testutil.NewTestStore(t)

	rec := domain.DispatchRecord{
		ID:        "a",
		RequestID: "req",
		ActorID:   "steve",
		ActorName: "Steve",
		Input:     "kick Alex griefing",
		Command:   "kick",
		Status:    domain.StatusFailed,
		Failure:   "permission_denied",
		Message:   "You do not have permission to use this command.",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600)),
	}
	require.NoError(t, s.RecordDispatch(rec))

	got, err := s.ListDispatches(domain.DispatchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := rec
	want.CreatedAt = rec.CreatedAt.UTC()
	require.Equal(t, want, got[0])
}

func TestStore_RecordDispatch_StampsTime(t *testing.T) {
	s := testutil.NewTestStore(t)

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.RecordDispatch(domain.DispatchRecord{
		ID: "a", RequestID: "r", ActorID: "steve", Status: domain.StatusExecuted,
	}))

	got, err := s.ListDispatches(domain.DispatchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].CreatedAt.After(before))
}

func TestStore_RecordDispatch_Invalid(t *testing.T) {
	s := testutil.NewTestStore(t)

	tests := []struct {
		name string
		rec  domain.DispatchRecord
	}{
		{"no id", domain.DispatchRecord{RequestID: "r", ActorID: "a"}},
		{"no request", domain.DispatchRecord{ID: "1", ActorID: "a"}},
		{"no actor", domain.DispatchRecord{ID: "1", RequestID: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, s.RecordDispatch(tt.rec), store.ErrInvalidRecord)
		})
	}
}

func TestStore_RecordDispatch_DuplicateID(t *testing.T) {
	s := testutil.NewTestStore(t)
	rec := record("1", "r1", "steve", "kick", domain.StatusExecuted, 0)

	require.NoError(t, s.RecordDispatch(rec))
	require.Error(t, s.RecordDispatch(rec))
}

func TestStore_ListDispatches(t *testing.T) {
	s := seed(t)
	since := base.Add(2 * time.Minute)

	tests := []struct {
		name   string
		filter domain.DispatchFilter
		want   []string
	}{
		{"all newest first", domain.DispatchFilter{}, []string{"5", "4", "3", "2", "1"}},
		{"by actor", domain.DispatchFilter{ActorID: "steve"}, []string{"3", "2", "1"}},
		{"by command", domain.DispatchFilter{Command: "kick"}, []string{"5", "1"}},
		{"by status", domain.DispatchFilter{Status: domain.StatusExecuted}, []string{"5", "1"}},
		{"since", domain.DispatchFilter{Since: &since}, []string{"5", "4", "3"}},
		{"limit", domain.DispatchFilter{Limit: 2}, []string{"5", "4"}},
		{"combined", domain.DispatchFilter{ActorID: "alex", Command: "kick"}, []string{"5"}},
		{"no match", domain.DispatchFilter{ActorID: "notch"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListDispatches(tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStore_Request(t *testing.T) {
	s := seed(t)

	got, err := s.Request("r2")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "3"}, ids(got))
	require.Equal(t, domain.StatusPending, got[0].Status)
	require.Equal(t, domain.StatusConfirmed, got[1].Status)
}

func TestStore_CountByStatus(t *testing.T) {
	s := seed(t)

	counts, err := s.CountByStatus(domain.DispatchFilter{})
	require.NoError(t, err)
	require.Equal(t, map[domain.DispatchStatus]int{
		domain.StatusExecuted:  2,
		domain.StatusPending:   1,
		domain.StatusConfirmed: 1,
		domain.StatusFailed:    1,
	}, counts)

	counts, err = s.CountByStatus(domain.DispatchFilter{ActorID: "alex", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, map[domain.DispatchStatus]int{
		domain.StatusExecuted: 1,
		domain.StatusFailed:   1,
	}, counts)
}

func TestStore_Prune(t *testing.T) {
	s := seed(t)

	n, err := s.Prune(base.Add(2 * time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	got, err := s.ListDispatches(domain.DispatchFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"5", "4", "3"}, ids(got))
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := store.New(path)
	require.NoError(t, err)
	require.Equal(t, path, s.Path())
	require.NoError(t, s.RecordDispatch(record("1", "r1", "steve", "kick", domain.StatusExecuted, 0)))
	require.NoError(t, s.Close())

	reopened, err := store.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.ListDispatches(domain.DispatchFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids(got))
}

func TestNew_Memory(t *testing.T) {
	s, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.RecordDispatch(record("1", "r1", "steve", "kick", domain.StatusExecuted, 0)))
	got, err := s.ListDispatches(domain.DispatchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
