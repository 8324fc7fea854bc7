package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/database/dbtest"
)

func TestSessionTransitions(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(dbtest.New(t))

	s := entities.NewSession(nil)
	require.NoError(t, repo.Create(ctx, s))

	_, err := repo.FindByID(ctx, "SESSION-missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = repo.UpdateTranscript(ctx, s.SessionID, "early")
	assert.ErrorIs(t, err, entities.ErrInvalidState)

	_, err = repo.UpdateSummary(ctx, s.SessionID, &entities.SummaryRecord{Title: "t"})
	assert.ErrorIs(t, err, entities.ErrInvalidState)

	duration := 1.5
	got, err := repo.UpdateAudio(ctx, s.SessionID, "sessions/x/audio.wav", 42, &duration)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusUploaded, got.Status)
	assert.Equal(t, int64(42), got.FileSize)
	require.NotNil(t, got.Duration)
	assert.InDelta(t, 1.5, *got.Duration, 1e-9)

	_, err = repo.UpdateTranscript(ctx, s.SessionID, "hello world")
	require.NoError(t, err)

	record := &entities.SummaryRecord{
		Title:        "Weekly sync",
		Participants: []string{"Ann"},
		KeyPoints:    []string{"ship it"},
		ActionItems:  []string{"Ann: release"},
		Summary:      "short",
	}
	got, err = repo.UpdateSummary(ctx, s.SessionID, record)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusSummarized, got.Status)
	assert.Equal(t, record, got.Summary)
	assert.NoError(t, got.Validate())

	_, err = repo.UpdateAudio(ctx, s.SessionID, "sessions/x/audio.ogg", 1, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidState)
}

func TestLinkAndCounts(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	sessions := NewSessionRepository(db)
	cases := NewCaseRepository(db)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a, err := cases.Create(ctx, "A", now)
	require.NoError(t, err)
	b, err := cases.Create(ctx, "B", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "CASE-2026-0001", a.CaseID)
	assert.Equal(t, "CASE-2026-0002", b.CaseID)

	s := entities.NewSession(nil)
	require.NoError(t, sessions.Create(ctx, s))

	_, err = sessions.LinkCase(ctx, s.SessionID, "CASE-2026-0099")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	linked, err := sessions.LinkCase(ctx, s.SessionID, a.CaseID)
	require.NoError(t, err)
	assert.Equal(t, a.CaseID, *linked.CaseID)

	list, err := cases.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.CaseID, list[0].CaseID, "newest first")
	assert.EqualValues(t, 0, list[0].SessionCount)
	assert.EqualValues(t, 1, list[1].SessionCount)

	unlinked, err := sessions.UnlinkCase(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, unlinked.CaseID)

	got, err := cases.FindByID(ctx, a.CaseID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.SessionCount)

	_, err = cases.UpdateAlias(ctx, "CASE-2026-0099", "x")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestConfigRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewConfigRepository(dbtest.New(t))

	values, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, repo.Save(ctx, map[string]string{"provider": "ollama", "model": "llama3.2"}))
	require.NoError(t, repo.Save(ctx, map[string]string{"provider": "groq", "debug": "true"}))

	values, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"provider": "groq", "model": "llama3.2", "debug": "true"}, values)
}

func TestCallRecordsInOrder(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	sessions := NewSessionRepository(db)
	calls := NewCallRecordRepository(db)

	s := entities.NewSession(nil)
	require.NoError(t, sessions.Create(ctx, s))

	start := time.Now().UTC()
	for i, op := range []string{entities.OperationTranscribe, entities.OperationSummarize} {
		require.NoError(t, calls.Create(ctx, &entities.CallRecord{
			ID:         uuid.New(),
			SessionID:  s.SessionID,
			Operation:  op,
			Provider:   "ollama",
			Model:      "llama3.2",
			Parameters: map[string]interface{}{"temperature": 0.2},
			CreatedAt:  start.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	records, err := calls.ListBySession(ctx, s.SessionID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, entities.OperationTranscribe, records[0].Operation)
	assert.Equal(t, entities.OperationSummarize, records[1].Operation)
	assert.EqualValues(t, 0.2, records[1].Parameters["temperature"])

	none, err := calls.ListBySession(ctx, "SESSION-other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCaseSequenceRestartsEachYear(t *testing.T) {
	ctx := context.Background()
	repo := NewCaseRepository(dbtest.New(t))

	want := []struct {
		at time.Time
		id string
	}{
		{time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), "CASE-2025-0001"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "CASE-2026-0001"},
		{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "CASE-2026-0002"},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "CASE-2025-0002"},
	}
	for _, w := range want {
		c, err := repo.Create(ctx, "alias", w.at)
		require.NoError(t, err)
		assert.Equal(t, w.id, c.CaseID)
	}

	ok, err := repo.Exists(ctx, "CASE-2026-0002")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertCaseReportsTakenID(t *testing.T) {
	db := dbtest.New(t)
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, insertCase(db, &entities.Case{CaseID: "CASE-2026-0001", Alias: "a", CreatedAt: at}))
	err := insertCase(db, &entities.Case{CaseID: "CASE-2026-0001", Alias: "b", CreatedAt: at})
	assert.ErrorIs(t, err, entities.ErrDuplicate)
}
