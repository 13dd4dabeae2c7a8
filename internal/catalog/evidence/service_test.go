package evidence_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/evidence"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/pkg/pagination"
)

type caseRecord struct {
	ID       primitive.ObjectID   `bson:"_id"`
	Name     string               `bson:"name"`
	Evidence []primitive.ObjectID `bson:"evidence"`
	Profiles []primitive.ObjectID `bson:"profiles"`
}

func newService(t *testing.T) (*evidence.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return evidence.NewService(mem, nil, logger), mem
}

func seedCase(t *testing.T, mem *store.Memory, name string) caseRecord {
	t.Helper()
	doc := caseRecord{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Evidence: []primitive.ObjectID{},
		Profiles: []primitive.ObjectID{},
	}
	require.NoError(t, mem.Insert(context.Background(), store.KindCases, doc))
	return doc
}

func caseEvidence(t *testing.T, mem *store.Memory, id primitive.ObjectID) []primitive.ObjectID {
	t.Helper()
	var doc caseRecord
	require.NoError(t, mem.FindByID(context.Background(), store.KindCases, id, &doc))
	return doc.Evidence
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches_to_every_referenced_case", func(t *testing.T) {
		svc, mem := newService(t)
		c1 := seedCase(t, mem, "The First Turnabout")
		c2 := seedCase(t, mem, "Turnabout Sisters")

		created, err := svc.Create(ctx, evidence.Input{
			Names: []evidence.Name{{Name: "Attorney's Badge"}},
			Type:  "Other",
			// Duplicate reference collapses to one attachment.
			Cases: []string{c1.ID.Hex(), c2.ID.Hex(), c1.ID.Hex()},
		})
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{c1.ID, c2.ID}, created.CaseIDs)

		assert.Equal(t, []primitive.ObjectID{created.ID}, caseEvidence(t, mem, c1.ID))
		assert.Equal(t, []primitive.ObjectID{created.ID}, caseEvidence(t, mem, c2.ID))
	})

	t.Run("rejects_invalid_type", func(t *testing.T) {
		svc, mem := newService(t)

		_, err := svc.Create(ctx, evidence.Input{Type: "Gossip"})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "Given type is not valid", ae.Message)
		assert.Equal(t, "Gossip", ae.Context["givenType"])
		assert.Equal(t, evidence.Types, ae.Context["validTypes"])

		count, err := mem.Count(ctx, store.KindEvidence)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("aborts_without_writes_on_missing_case", func(t *testing.T) {
		svc, mem := newService(t)
		c1 := seedCase(t, mem, "Turnabout Samurai")

		_, err := svc.Create(ctx, evidence.Input{
			Type:  "Documents",
			Cases: []string{c1.ID.Hex(), primitive.NewObjectID().Hex()},
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)

		count, err := mem.Count(ctx, store.KindEvidence)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, caseEvidence(t, mem, c1.ID))
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	c1 := seedCase(t, mem, "Turnabout Goodbyes")

	created, err := svc.Create(ctx, evidence.Input{
		Names: []evidence.Name{{Name: "Metal Detector"}},
		Type:  "Other",
		Cases: []string{c1.ID.Hex()},
	})
	require.NoError(t, err)

	view, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, view.Cases, 1)
	assert.Equal(t, c1.ID, view.Cases[0].ID)
	assert.Equal(t, "Turnabout Goodbyes", view.Cases[0].Name)

	_, err = svc.Get(ctx, primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	c1 := seedCase(t, mem, "Rise from the Ashes")

	for _, name := range []string{"Evidence Law", "Fingerprint Set", "Steel Samurai Card"} {
		_, err := svc.Create(ctx, evidence.Input{
			Names: []evidence.Name{{Name: name}},
			Type:  "Documents",
			Cases: []string{c1.ID.Hex()},
		})
		require.NoError(t, err)
	}

	views, window, err := svc.List(ctx, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, window.TotalItems)
	assert.Equal(t, 2, window.TotalPages)
	assert.Equal(t, 2, window.Page)
	require.Len(t, views, 1)
	assert.Equal(t, "Steel Samurai Card", views[0].Names[0].Name)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	a := seedCase(t, mem, "case A")
	b := seedCase(t, mem, "case B")
	c := seedCase(t, mem, "case C")

	created, err := svc.Create(ctx, evidence.Input{
		Type:  "Photographs",
		Cases: []string{a.ID.Hex(), b.ID.Hex()},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, evidence.Input{
		Type:  "Photographs",
		Cases: []string{b.ID.Hex(), c.ID.Hex()},
	})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{b.ID, c.ID}, updated.CaseIDs)

	// Dropped case loses the reference, kept and added cases hold it.
	assert.Empty(t, caseEvidence(t, mem, a.ID))
	assert.Equal(t, []primitive.ObjectID{created.ID}, caseEvidence(t, mem, b.ID))
	assert.Equal(t, []primitive.ObjectID{created.ID}, caseEvidence(t, mem, c.ID))

	// A ghost reference aborts before the replace: the stored document and
	// every case list must still match the last successful update.
	ghost := primitive.NewObjectID()
	_, err = svc.Update(ctx, created.ID, evidence.Input{
		Type:  "Maps",
		Cases: []string{ghost.Hex()},
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
	assert.Equal(t, "Case could not be found", ae.Message)
	assert.Equal(t, ghost.Hex(), ae.Context["requestedCase"])

	var stored evidence.Evidence
	require.NoError(t, mem.FindByID(ctx, store.KindEvidence, created.ID, &stored))
	assert.Equal(t, "Photographs", stored.Type)
	assert.Equal(t, []primitive.ObjectID{b.ID, c.ID}, stored.CaseIDs)
	assert.Equal(t, []primitive.ObjectID{created.ID}, caseEvidence(t, mem, b.ID))
	assert.Equal(t, []primitive.ObjectID{created.ID}, caseEvidence(t, mem, c.ID))
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	a := seedCase(t, mem, "case A")
	b := seedCase(t, mem, "case B")

	created, err := svc.Create(ctx, evidence.Input{
		Type:  "Weapons",
		Cases: []string{a.ID.Hex(), b.ID.Hex()},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	assert.Empty(t, caseEvidence(t, mem, a.ID))
	assert.Empty(t, caseEvidence(t, mem, b.ID))

	count, err := mem.Count(ctx, store.KindEvidence)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}
