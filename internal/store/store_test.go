package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testutil.SeedDataDir(t), DefaultFiles(), 20)
}

func TestLoadTypedDocuments(t *testing.T) {
	s := newTestStore(t)

	concerts, err := s.Concerts()
	require.NoError(t, err)
	assert.Len(t, concerts, 3)
	assert.Equal(t, []string{"A1", "A2", "A3"}, concerts[0].Tickets["A"].Seats)

	faq, err := s.FAQ()
	require.NoError(t, err)
	assert.Len(t, faq, 2)

	cart, err := s.Cart()
	require.NoError(t, err)
	assert.Equal(t, "A1", cart[0].Seat)

	purchases, err := s.Purchases()
	require.NoError(t, err)
	assert.Empty(t, purchases)
	assert.NotNil(t, purchases)
}

func TestCommentsMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	comments, err := s.Comments()
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestLoadMissingRequiredDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Remove(s.FAQPath()))

	_, err := s.FAQ()
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))
	assert.True(t, errors.Is(err, errs.ErrNotExist))
}

func TestLoadInvalidJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.ConcertsPath(), []byte("{not json"), 0o644))

	_, err := s.Concerts()
	var se *errs.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "parse", se.Op)
}

func TestConcertValidation(t *testing.T) {
	s := newTestStore(t)
	concerts := testutil.SampleConcerts()
	concerts[1].Tickets["A"].Seats = append(concerts[1].Tickets["A"].Seats, "B3")
	testutil.WriteJSON(t, s.ConcertsPath(), concerts)

	_, err := s.Concerts()
	var se *errs.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "validate", se.Op)
	assert.Contains(t, se.Error(), "concert 1")
}

func TestSaveUsesFourSpaceIndent(t *testing.T) {
	s := newTestStore(t)
	path := s.CommentsPath()
	require.NoError(t, s.Save(path, []model.Comment{{Category: "billing", Description: "test"}}))

	raw := string(testutil.ReadRaw(t, path))
	assert.True(t, strings.HasPrefix(raw, "[\n    {\n        \"category\": \"billing\""), raw)
	assert.NotContains(t, raw, "name")

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestCommitStagingFailureChangesNothing(t *testing.T) {
	s := newTestStore(t)
	before := testutil.ReadRaw(t, s.ConcertsPath())

	err := s.Commit(
		Doc{Path: s.ConcertsPath(), Value: []model.Concert{}},
		Doc{Path: filepath.Join(s.Dir(), "missing-dir", "purchases.json"), Value: []model.Purchase{}},
	)
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))
	assert.Equal(t, before, testutil.ReadRaw(t, s.ConcertsPath()))
}

func TestCommitRenameFailureRestoresEarlierDocuments(t *testing.T) {
	s := newTestStore(t)
	concertsBefore := testutil.ReadRaw(t, s.ConcertsPath())
	purchasesBefore := testutil.ReadRaw(t, s.PurchasesPath())

	calls := 0
	s.rename = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}

	err := s.Commit(
		Doc{Path: s.ConcertsPath(), Value: []model.Concert{}},
		Doc{Path: s.PurchasesPath(), Value: []model.Purchase{{PurchaseID: 0, Seats: []string{"A1"}, PaymentMethod: "cash"}}},
	)
	var ce *errs.ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{s.ConcertsPath()}, ce.Written)
	assert.Equal(t, s.PurchasesPath(), ce.Failed)
	assert.True(t, ce.Restored)

	assert.Equal(t, concertsBefore, testutil.ReadRaw(t, s.ConcertsPath()))
	assert.Equal(t, purchasesBefore, testutil.ReadRaw(t, s.PurchasesPath()))
}

func TestLockSerializesWriters(t *testing.T) {
	s := newTestStore(t)
	path := s.CommentsPath()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(path)
			defer unlock()
			comments, err := s.Comments()
			if !assert.NoError(t, err) {
				return
			}
			comments = append(comments, model.Comment{Category: "general", Description: "hi"})
			assert.NoError(t, s.Save(path, comments))
		}()
	}
	wg.Wait()

	comments, err := s.Comments()
	require.NoError(t, err)
	assert.Len(t, comments, 20)
}

func TestSortedPathsDedups(t *testing.T) {
	got := sortedPaths([]string{"b/x.json", "a/y.json", "b/../b/x.json"})
	assert.Equal(t, []string{"a/y.json", "b/x.json"}, got)
}
