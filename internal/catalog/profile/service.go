package profile

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

// Service implements the profile business logic. Profiles are the only kind
// whose case references come from two places: the cases list and the
// per-description case tags. Reconciliation always works on the union.
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

// referencedCases collects every raw case reference in the body, cases list
// first, then description tags. ResolveSet de-duplicates downstream.
func referencedCases(in Input) []string {
	tags := slice.Map(
		slice.Filter(in.Descriptions, func(entry DescriptionInput) bool { return entry.Case != "" }),
		func(entry DescriptionInput) string { return entry.Case },
	)

	raw := make([]string, 0, len(in.Cases)+len(tags))
	raw = append(raw, in.Cases...)
	return append(raw, tags...)
}

// fromInput maps a validated body onto the persisted form. All raw
// identifiers have already been resolved, so parse failures cannot occur
// here; unparseable values are dropped rather than guessed at.
func fromInput(id primitive.ObjectID, in Input) Profile {
	caseIDs := refs.NewIDSet()
	for _, raw := range in.Cases {
		if parsed, err := primitive.ObjectIDFromHex(raw); err == nil {
			caseIDs.Add(parsed)
		}
	}

	descriptions := make([]Description, 0, len(in.Descriptions))
	for _, entry := range in.Descriptions {
		item := Description{Description: entry.Description}
		if entry.Case != "" {
			if parsed, err := primitive.ObjectIDFromHex(entry.Case); err == nil {
				item.CaseID = &parsed
			}
		}
		descriptions = append(descriptions, item)
	}

	return Profile{
		ID:           id,
		Names:        slice.NonNil(in.Names),
		Ages:         slice.NonNil(in.Ages),
		Descriptions: descriptions,
		ImagePaths:   slice.NonNil(in.ImagePaths),
		CaseIDs:      caseIDs.Values(),
	}
}

// Exists reports whether a profile with the given id is stored.
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	found, err := s.store.Exists(ctx, store.KindProfiles, store.Filter{store.FieldID: id})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return found, nil
}

// Create validates the union of referenced cases, persists the profile, and
// attaches it to every referenced case's profiles list.
func (s *Service) Create(ctx context.Context, in Input) (*Profile, error) {
	union, err := s.resolver.ResolveSet(ctx, store.KindCases, referencedCases(in))
	if err != nil {
		return nil, err
	}

	created := fromInput(primitive.NewObjectID(), in)
	if err := s.store.Insert(ctx, store.KindProfiles, created); err != nil {
		return nil, dberr.Wrap(err, "create_profile")
	}

	if err := s.recon.Attach(ctx, store.KindCases, union.Values(), store.FieldProfiles, created.ID); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns the expanded view of one profile, served from the cache when
// a fresh entry exists.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*View, error) {
	var view View
	if s.cache.Get(ctx, store.KindProfiles, id.Hex(), &view) {
		return &view, nil
	}

	var item Profile
	if err := s.store.FindByID(ctx, store.KindProfiles, id, &item); err != nil {
		return nil, dberr.Wrap(err, "get_profile")
	}

	caseRefs, err := s.store.FindNameRefs(ctx, store.KindCases, item.CaseIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	view = View{Profile: item, Cases: caseRefs}
	s.cache.Set(ctx, store.KindProfiles, id.Hex(), view)
	return &view, nil
}

// List returns one page of expanded profile views plus the pagination
// window the page was clamped to.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]View, pagination.Window, error) {
	total, err := s.store.Count(ctx, store.KindProfiles)
	if err != nil {
		return nil, pagination.Window{}, apperr.Internal(err)
	}
	window := pagination.Clamp(params, total)

	items := make([]Profile, 0, window.CurrentItems)
	if window.CurrentItems > 0 {
		if err := s.store.FindPage(ctx, store.KindProfiles, window.Skip, window.Limit, &items); err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
	}

	views := make([]View, 0, len(items))
	for _, item := range items {
		caseRefs, err := s.store.FindNameRefs(ctx, store.KindCases, item.CaseIDs)
		if err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
		views = append(views, View{Profile: item, Cases: caseRefs})
	}
	return views, window, nil
}

// Update replaces the profile wholesale and reconciles the union of case
// references: newly referenced cases gain the profile, dropped ones lose it.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*Profile, error) {
	union, err := s.resolver.ResolveSet(ctx, store.KindCases, referencedCases(in))
	if err != nil {
		return nil, err
	}

	var previous Profile
	if err := s.store.FindByID(ctx, store.KindProfiles, id, &previous); err != nil {
		return nil, dberr.Wrap(err, "update_profile")
	}

	updated := fromInput(id, in)
	if err := s.store.Replace(ctx, store.KindProfiles, id, updated); err != nil {
		return nil, dberr.Wrap(err, "update_profile")
	}
	s.cache.Invalidate(ctx, store.KindProfiles, id.Hex())

	added, removed := refs.Diff(previous.ReferenceSet(), union.Values())
	if err := s.recon.Attach(ctx, store.KindCases, added, store.FieldProfiles, id); err != nil {
		return nil, err
	}
	if err := s.recon.Detach(ctx, store.KindCases, removed, store.FieldProfiles, id); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete detaches the profile from every case in its reference union, then
// removes it.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	var previous Profile
	if err := s.store.FindByID(ctx, store.KindProfiles, id, &previous); err != nil {
		return dberr.Wrap(err, "delete_profile")
	}

	if err := s.recon.Detach(ctx, store.KindCases, previous.ReferenceSet(), store.FieldProfiles, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, store.KindProfiles, id); err != nil {
		return dberr.Wrap(err, "delete_profile")
	}
	s.cache.Invalidate(ctx, store.KindProfiles, id.Hex())
	return nil
}
