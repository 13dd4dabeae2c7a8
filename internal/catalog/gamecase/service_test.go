package gamecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/gamecase"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
)

type refHolder struct {
	ID    primitive.ObjectID   `bson:"_id"`
	Cases []primitive.ObjectID `bson:"cases"`
}

type gameRecord struct {
	ID       primitive.ObjectID   `bson:"_id"`
	FullName string               `bson:"full_name"`
	Cases    []primitive.ObjectID `bson:"cases"`
}

func newService(t *testing.T) (*gamecase.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return gamecase.NewService(mem, nil, logger), mem
}

func seedSibling(t *testing.T, mem *store.Memory, kind store.Kind) refHolder {
	t.Helper()
	doc := refHolder{ID: primitive.NewObjectID(), Cases: []primitive.ObjectID{}}
	require.NoError(t, mem.Insert(context.Background(), kind, doc))
	return doc
}

func seedGame(t *testing.T, mem *store.Memory, fullName string) gameRecord {
	t.Helper()
	doc := gameRecord{ID: primitive.NewObjectID(), FullName: fullName, Cases: []primitive.ObjectID{}}
	require.NoError(t, mem.Insert(context.Background(), store.KindGames, doc))
	return doc
}

func siblingCases(t *testing.T, mem *store.Memory, kind store.Kind, id primitive.ObjectID) []primitive.ObjectID {
	t.Helper()
	var doc refHolder
	require.NoError(t, mem.FindByID(context.Background(), kind, id, &doc))
	return doc.Cases
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches_to_all_three_relationships", func(t *testing.T) {
		svc, mem := newService(t)
		ev := seedSibling(t, mem, store.KindEvidence)
		pr := seedSibling(t, mem, store.KindProfiles)
		gm := seedGame(t, mem, "Phoenix Wright: Ace Attorney")

		created, err := svc.Create(ctx, gamecase.Input{
			Name:     "The First Turnabout",
			Evidence: []string{ev.ID.Hex()},
			Profiles: []string{pr.ID.Hex()},
			Game:     gm.ID.Hex(),
		})
		require.NoError(t, err)
		assert.Equal(t, gm.ID, created.GameID)

		assert.Equal(t, []primitive.ObjectID{created.ID}, siblingCases(t, mem, store.KindEvidence, ev.ID))
		assert.Equal(t, []primitive.ObjectID{created.ID}, siblingCases(t, mem, store.KindProfiles, pr.ID))
		assert.Equal(t, []primitive.ObjectID{created.ID}, siblingCases(t, mem, store.KindGames, gm.ID))
	})

	t.Run("rejects_duplicate_name", func(t *testing.T) {
		svc, mem := newService(t)
		gm := seedGame(t, mem, "Phoenix Wright: Ace Attorney")

		_, err := svc.Create(ctx, gamecase.Input{Name: "Turnabout Sisters", Game: gm.ID.Hex()})
		require.NoError(t, err)

		_, err = svc.Create(ctx, gamecase.Input{Name: "Turnabout Sisters", Game: gm.ID.Hex()})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "A case with that name already exists", ae.Message)
	})

	t.Run("requires_a_game", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(ctx, gamecase.Input{Name: "Turnabout Samurai"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("aborts_on_missing_game", func(t *testing.T) {
		svc, mem := newService(t)
		ghost := primitive.NewObjectID().Hex()

		_, err := svc.Create(ctx, gamecase.Input{Name: "Turnabout Goodbyes", Game: ghost})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
		assert.Equal(t, "Game could not be found", ae.Message)
		assert.Equal(t, ghost, ae.Context["requestedGame"])

		count, err := mem.Count(ctx, store.KindCases)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	evA := seedSibling(t, mem, store.KindEvidence)
	evB := seedSibling(t, mem, store.KindEvidence)
	gm1 := seedGame(t, mem, "Phoenix Wright: Ace Attorney")
	gm2 := seedGame(t, mem, "Justice for All")

	created, err := svc.Create(ctx, gamecase.Input{
		Name:     "Turnabout Big Top",
		Evidence: []string{evA.ID.Hex()},
		Game:     gm1.ID.Hex(),
	})
	require.NoError(t, err)

	t.Run("moves_between_games_and_diffs_evidence", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, gamecase.Input{
			Name:     "Turnabout Big Top",
			Evidence: []string{evB.ID.Hex()},
			Game:     gm2.ID.Hex(),
		})
		require.NoError(t, err)
		assert.Equal(t, gm2.ID, updated.GameID)

		assert.Empty(t, siblingCases(t, mem, store.KindEvidence, evA.ID))
		assert.Equal(t, []primitive.ObjectID{created.ID}, siblingCases(t, mem, store.KindEvidence, evB.ID))
		assert.Empty(t, siblingCases(t, mem, store.KindGames, gm1.ID))
		assert.Equal(t, []primitive.ObjectID{created.ID}, siblingCases(t, mem, store.KindGames, gm2.ID))
	})

	t.Run("rejects_renaming_onto_taken_name", func(t *testing.T) {
		_, err := svc.Create(ctx, gamecase.Input{Name: "Farewell, My Turnabout", Game: gm2.ID.Hex()})
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, gamecase.Input{
			Name: "Farewell, My Turnabout",
			Game: gm2.ID.Hex(),
		})
		require.Error(t, err)
		assert.Equal(t, "Another case with that name already exists", apperr.As(err).Message)
	})

	t.Run("keeping_own_name_is_not_a_conflict", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, gamecase.Input{
			Name: "Turnabout Big Top",
			Game: gm2.ID.Hex(),
		})
		require.NoError(t, err)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	ev := seedSibling(t, mem, store.KindEvidence)
	gm := seedGame(t, mem, "Trials and Tribulations")

	created, err := svc.Create(ctx, gamecase.Input{
		Name:     "Turnabout Memories",
		Evidence: []string{ev.ID.Hex()},
		Game:     gm.ID.Hex(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	// The game no longer lists the case, but the evidence keeps the dangling
	// reference until independently edited.
	assert.Empty(t, siblingCases(t, mem, store.KindGames, gm.ID))
	assert.Equal(t, []primitive.ObjectID{created.ID}, siblingCases(t, mem, store.KindEvidence, ev.ID))

	count, err := mem.Count(ctx, store.KindCases)
	require.NoError(t, err)
	assert.Zero(t, count)
}
