package evidence

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/cache"
	"github.com/mkoers/courtrecord/internal/catalog/refs"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/internal/platform/dberr"
	"github.com/mkoers/courtrecord/pkg/pagination"
	"github.com/mkoers/courtrecord/pkg/slice"
)

// Service implements the evidence business logic: CRUD plus the inverse
// reference bookkeeping against the cases collection.
type Service struct {
	store    store.Store
	resolver *refs.Resolver
	recon    *refs.Reconciler
	cache    *cache.Entities
	logger   *slog.Logger
}

func NewService(s store.Store, c *cache.Entities, logger *slog.Logger) *Service {
	return &Service{
		store:    s,
		resolver: refs.NewResolver(s),
		recon:    refs.NewReconciler(s, c),
		cache:    c,
		logger:   logger,
	}
}

func validateType(given string) error {
	for _, valid := range Types {
		if given == valid {
			return nil
		}
	}
	return apperr.MalformedInput("Given type is not valid").
		With("givenType", given).
		With("validTypes", Types)
}

func fromInput(id primitive.ObjectID, in Input, caseIDs []primitive.ObjectID) Evidence {
	return Evidence{
		ID:                id,
		Names:             slice.NonNil(in.Names),
		Type:              in.Type,
		ShortDescriptions: slice.NonNil(in.ShortDescriptions),
		LongDescriptions:  slice.NonNil(in.LongDescriptions),
		SmallImages:       slice.NonNil(in.SmallImages),
		LargeImages:       slice.NonNil(in.LargeImages),
		CaseIDs:           caseIDs,
	}
}

// Exists reports whether an evidence document with the given id is stored.
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	found, err := s.store.Exists(ctx, store.KindEvidence, store.Filter{store.FieldID: id})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return found, nil
}

// Create validates every referenced case, persists the evidence, and then
// attaches it to each referenced case's evidence list.
func (s *Service) Create(ctx context.Context, in Input) (*Evidence, error) {
	caseIDs, err := s.resolver.ResolveSet(ctx, store.KindCases, in.Cases)
	if err != nil {
		return nil, err
	}
	if err := validateType(in.Type); err != nil {
		return nil, err
	}

	created := fromInput(primitive.NewObjectID(), in, caseIDs.Values())
	if err := s.store.Insert(ctx, store.KindEvidence, created); err != nil {
		return nil, dberr.Wrap(err, "create_evidence")
	}

	if err := s.recon.Attach(ctx, store.KindCases, created.CaseIDs, store.FieldEvidence, created.ID); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns the expanded view of one evidence document, served from the
// cache when a fresh entry exists.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*View, error) {
	var view View
	if s.cache.Get(ctx, store.KindEvidence, id.Hex(), &view) {
		return &view, nil
	}

	var item Evidence
	if err := s.store.FindByID(ctx, store.KindEvidence, id, &item); err != nil {
		return nil, dberr.Wrap(err, "get_evidence")
	}

	caseRefs, err := s.store.FindNameRefs(ctx, store.KindCases, item.CaseIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	view = View{Evidence: item, Cases: caseRefs}
	s.cache.Set(ctx, store.KindEvidence, id.Hex(), view)
	return &view, nil
}

// List returns one page of expanded evidence views plus the pagination
// window the page was clamped to.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]View, pagination.Window, error) {
	total, err := s.store.Count(ctx, store.KindEvidence)
	if err != nil {
		return nil, pagination.Window{}, apperr.Internal(err)
	}
	window := pagination.Clamp(params, total)

	items := make([]Evidence, 0, window.CurrentItems)
	if window.CurrentItems > 0 {
		if err := s.store.FindPage(ctx, store.KindEvidence, window.Skip, window.Limit, &items); err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
	}

	views := make([]View, 0, len(items))
	for _, item := range items {
		caseRefs, err := s.store.FindNameRefs(ctx, store.KindCases, item.CaseIDs)
		if err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
		views = append(views, View{Evidence: item, Cases: caseRefs})
	}
	return views, window, nil
}

// Update replaces the evidence wholesale and reconciles the case references:
// newly referenced cases gain the evidence, dropped ones lose it.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*Evidence, error) {
	caseIDs, err := s.resolver.ResolveSet(ctx, store.KindCases, in.Cases)
	if err != nil {
		return nil, err
	}
	if err := validateType(in.Type); err != nil {
		return nil, err
	}

	var previous Evidence
	if err := s.store.FindByID(ctx, store.KindEvidence, id, &previous); err != nil {
		return nil, dberr.Wrap(err, "update_evidence")
	}

	updated := fromInput(id, in, caseIDs.Values())
	if err := s.store.Replace(ctx, store.KindEvidence, id, updated); err != nil {
		return nil, dberr.Wrap(err, "update_evidence")
	}
	s.cache.Invalidate(ctx, store.KindEvidence, id.Hex())

	added, removed := refs.Diff(previous.CaseIDs, updated.CaseIDs)
	if err := s.recon.Attach(ctx, store.KindCases, added, store.FieldEvidence, id); err != nil {
		return nil, err
	}
	if err := s.recon.Detach(ctx, store.KindCases, removed, store.FieldEvidence, id); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the evidence and detaches it from every case that still
// references it.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	var previous Evidence
	if err := s.store.FindByID(ctx, store.KindEvidence, id, &previous); err != nil {
		return dberr.Wrap(err, "delete_evidence")
	}

	if err := s.recon.Detach(ctx, store.KindCases, previous.CaseIDs, store.FieldEvidence, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, store.KindEvidence, id); err != nil {
		return dberr.Wrap(err, "delete_evidence")
	}
	s.cache.Invalidate(ctx, store.KindEvidence, id.Hex())
	return nil
}
