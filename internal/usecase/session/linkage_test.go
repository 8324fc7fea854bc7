package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

func countFor(t *testing.T, h *harness, caseID string) int64 {
	t.Helper()
	all, err := h.cases.List(context.Background())
	require.NoError(t, err)
	for _, c := range all {
		if c.CaseID == caseID {
			return c.SessionCount
		}
	}
	t.Fatalf("case %s not listed", caseID)
	return 0
}

func TestLinkReplacesPreviousCase(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	a, err := h.cases.Create(ctx, "A")
	require.NoError(t, err)
	b, err := h.cases.Create(ctx, "B")
	require.NoError(t, err)
	s, err := h.store.Create(ctx, nil)
	require.NoError(t, err)

	_, err = h.linkage.Link(ctx, s.SessionID, a.CaseID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countFor(t, h, a.CaseID))

	s, err = h.linkage.Link(ctx, s.SessionID, b.CaseID)
	require.NoError(t, err)
	require.NotNil(t, s.CaseID)
	assert.Equal(t, b.CaseID, *s.CaseID)

	assert.EqualValues(t, 0, countFor(t, h, a.CaseID))
	assert.EqualValues(t, 1, countFor(t, h, b.CaseID))

	detailA, err := h.cases.Get(ctx, a.CaseID)
	require.NoError(t, err)
	assert.Empty(t, detailA.Sessions)
	detailB, err := h.cases.Get(ctx, b.CaseID)
	require.NoError(t, err)
	require.Len(t, detailB.Sessions, 1)
	assert.Equal(t, s.SessionID, detailB.Sessions[0].SessionID)
}

func TestLinkUnknownIDs(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	c, err := h.cases.Create(ctx, "A")
	require.NoError(t, err)
	s, err := h.store.Create(ctx, nil)
	require.NoError(t, err)

	_, err = h.linkage.Link(ctx, "SESSION-missing", c.CaseID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = h.linkage.Link(ctx, s.SessionID, "CASE-1999-0001")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = h.linkage.Link(ctx, s.SessionID, " ")
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	got, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.CaseID, "failed links change nothing")
}

func TestUnlink(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	c, err := h.cases.Create(ctx, "A")
	require.NoError(t, err)
	s, err := h.store.Create(ctx, &c.CaseID)
	require.NoError(t, err)

	s, err = h.linkage.Unlink(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, s.CaseID)
	assert.EqualValues(t, 0, countFor(t, h, c.CaseID))

	s, err = h.linkage.Unlink(ctx, s.SessionID)
	require.NoError(t, err, "unlinking twice is a no-op")
	assert.Nil(t, s.CaseID)

	_, err = h.linkage.Unlink(ctx, "SESSION-missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestSessionCountMatchesMembership(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	var caseIDs []string
	for _, alias := range []string{"A", "B", "C"} {
		c, err := h.cases.Create(ctx, alias)
		require.NoError(t, err)
		caseIDs = append(caseIDs, c.CaseID)
	}
	var sessionIDs []string
	for i := 0; i < 6; i++ {
		s, err := h.store.Create(ctx, nil)
		require.NoError(t, err)
		sessionIDs = append(sessionIDs, s.SessionID)
	}

	for i := 0; i < 60; i++ {
		sid := sessionIDs[rng.Intn(len(sessionIDs))]
		if rng.Intn(4) == 0 {
			_, err := h.linkage.Unlink(ctx, sid)
			require.NoError(t, err)
			continue
		}
		_, err := h.linkage.Link(ctx, sid, caseIDs[rng.Intn(len(caseIDs))])
		require.NoError(t, err)
	}

	want := map[string]int64{}
	all, err := h.store.List(ctx, nil)
	require.NoError(t, err)
	for _, s := range all {
		if s.CaseID != nil {
			want[*s.CaseID]++
		}
	}
	for _, id := range caseIDs {
		assert.Equal(t, want[id], countFor(t, h, id), id)
	}
}

func TestConcurrentLinksNeverDualMembership(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	a, err := h.cases.Create(ctx, "A")
	require.NoError(t, err)
	b, err := h.cases.Create(ctx, "B")
	require.NoError(t, err)
	s, err := h.store.Create(ctx, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		target := a.CaseID
		if i%2 == 1 {
			target = b.CaseID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.linkage.Link(ctx, s.SessionID, target)
			if err != nil && !errors.Is(err, entities.ErrConflict) {
				t.Errorf("unexpected link error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.CaseID)
	assert.Contains(t, []string{a.CaseID, b.CaseID}, *got.CaseID)
	assert.EqualValues(t, 1, countFor(t, h, a.CaseID)+countFor(t, h, b.CaseID))
}
