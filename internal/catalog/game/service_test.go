package game_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/game"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
)

type caseRecord struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
	Game primitive.ObjectID `bson:"game"`
}

func newService(t *testing.T) (*game.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return game.NewService(mem, nil, logger), mem
}

func seedCase(t *testing.T, mem *store.Memory, name string) caseRecord {
	t.Helper()
	doc := caseRecord{ID: primitive.NewObjectID(), Name: name}
	require.NoError(t, mem.Insert(context.Background(), store.KindCases, doc))
	return doc
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("repoints_seeded_cases", func(t *testing.T) {
		svc, mem := newService(t)
		c1 := seedCase(t, mem, "The First Turnabout")

		created, err := svc.Create(ctx, game.Input{
			FullName:    "Phoenix Wright: Ace Attorney",
			ShortName:   "AA1",
			ReleaseYear: 2001,
			Cases:       []string{c1.ID.Hex()},
		})
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{c1.ID}, created.CaseIDs)

		var stored caseRecord
		require.NoError(t, mem.FindByID(ctx, store.KindCases, c1.ID, &stored))
		assert.Equal(t, created.ID, stored.Game)
	})

	t.Run("detaches_seeded_case_from_previous_owner", func(t *testing.T) {
		svc, mem := newService(t)
		c1 := seedCase(t, mem, "Turnabout Samurai")

		first, err := svc.Create(ctx, game.Input{
			FullName:  "Phoenix Wright: Ace Attorney",
			ShortName: "AA1",
			Cases:     []string{c1.ID.Hex()},
		})
		require.NoError(t, err)

		second, err := svc.Create(ctx, game.Input{
			FullName:  "Justice for All",
			ShortName: "AA2",
			Cases:     []string{c1.ID.Hex()},
		})
		require.NoError(t, err)

		var stored caseRecord
		require.NoError(t, mem.FindByID(ctx, store.KindCases, c1.ID, &stored))
		assert.Equal(t, second.ID, stored.Game)

		// The case moved, so the first game must no longer list it.
		var old game.Game
		require.NoError(t, mem.FindByID(ctx, store.KindGames, first.ID, &old))
		assert.NotContains(t, old.CaseIDs, c1.ID)
	})

	t.Run("rejects_duplicate_full_name", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(ctx, game.Input{FullName: "Justice for All", ShortName: "AA2"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, game.Input{FullName: "Justice for All", ShortName: "JFA"})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "A game with that full name already exists", ae.Message)
	})

	t.Run("rejects_duplicate_short_name", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(ctx, game.Input{FullName: "Justice for All", ShortName: "AA2"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, game.Input{FullName: "Trials and Tribulations", ShortName: "AA2"})
		require.Error(t, err)
		assert.Equal(t, "A game with that short name already exists", apperr.As(err).Message)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	c1 := seedCase(t, mem, "Turnabout Sisters")

	created, err := svc.Create(ctx, game.Input{
		FullName:    "Phoenix Wright: Ace Attorney",
		ShortName:   "AA1",
		ReleaseYear: 2001,
		Cases:       []string{c1.ID.Hex()},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, game.Input{FullName: "Justice for All", ShortName: "AA2"})
	require.NoError(t, err)

	t.Run("merges_scalars_and_keeps_cases", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, game.Input{
			FullName:    "Phoenix Wright: Ace Attorney",
			ShortName:   "GS1",
			ReleaseYear: 2005,
			// A posted cases list must not overwrite the reconciled one.
			Cases: []string{},
		})
		require.NoError(t, err)
		assert.Equal(t, "GS1", updated.ShortName)
		assert.Equal(t, 2005, updated.ReleaseYear)
		assert.Equal(t, []primitive.ObjectID{c1.ID}, updated.CaseIDs)
	})

	t.Run("rejects_renaming_onto_taken_full_name", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, game.Input{
			FullName:  "Justice for All",
			ShortName: "GS1",
		})
		require.Error(t, err)
		assert.Equal(t, "Another game with that full name already exists", apperr.As(err).Message)
	})

	t.Run("rejects_renaming_onto_taken_short_name", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, game.Input{
			FullName:  "Phoenix Wright: Ace Attorney",
			ShortName: "AA2",
		})
		require.Error(t, err)
		assert.Equal(t, "Another game with that short name already exists", apperr.As(err).Message)
	})

	t.Run("keeping_own_names_is_not_a_conflict", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, game.Input{
			FullName:    "Phoenix Wright: Ace Attorney",
			ShortName:   "GS1",
			ReleaseYear: 2005,
		})
		require.NoError(t, err)
	})
}

func TestService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	c1 := seedCase(t, mem, "Turnabout Goodbyes")

	created, err := svc.Create(ctx, game.Input{
		FullName:  "Phoenix Wright: Ace Attorney",
		ShortName: "AA1",
		Cases:     []string{c1.ID.Hex()},
	})
	require.NoError(t, err)

	view, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, view.Cases, 1)
	assert.Equal(t, "Turnabout Goodbyes", view.Cases[0].Name)

	require.NoError(t, svc.Delete(ctx, created.ID))

	// No cascade: the case keeps pointing at the deleted game.
	var stored caseRecord
	require.NoError(t, mem.FindByID(ctx, store.KindCases, c1.ID, &stored))
	assert.Equal(t, created.ID, stored.Game)

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}
