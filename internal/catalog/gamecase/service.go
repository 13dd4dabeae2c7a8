package gamecase

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/cache"
	"github.com/mkoers/courtrecord/internal/catalog/refs"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/internal/platform/dberr"
	"github.com/mkoers/courtrecord/internal/platform/validate"
	"github.com/mkoers/courtrecord/pkg/pagination"
)

// Service implements the case business logic. A case sits in three
// relationships at once, so its mutations reconcile against the evidence
// and profiles collections plus the single-valued game reference.
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

func validateInput(in Input) error {
	v := &validate.Validator{}
	v.Required("name", in.Name)
	v.Required("game", in.Game)
	return v.Err()
}

// resolved holds every reference of a body after validation.
type resolved struct {
	evidence *refs.IDSet
	profiles *refs.IDSet
	game     primitive.ObjectID
}

// resolveReferences validates the evidence set, the profile set, and the
// game reference, in that order. Any failure aborts before any write.
func (s *Service) resolveReferences(ctx context.Context, in Input) (resolved, error) {
	evidenceIDs, err := s.resolver.ResolveSet(ctx, store.KindEvidence, in.Evidence)
	if err != nil {
		return resolved{}, err
	}
	profileIDs, err := s.resolver.ResolveSet(ctx, store.KindProfiles, in.Profiles)
	if err != nil {
		return resolved{}, err
	}
	gameID, err := s.resolver.ResolveOne(ctx, store.KindGames, in.Game)
	if err != nil {
		return resolved{}, err
	}
	return resolved{evidence: evidenceIDs, profiles: profileIDs, game: gameID}, nil
}

// checkNameUnique guards the unique name field. The exclusion filter keeps
// an update from conflicting with the document being updated.
func (s *Service) checkNameUnique(ctx context.Context, name string, exclude primitive.ObjectID, message string) error {
	filter := store.Filter{"name": name}
	if !exclude.IsZero() {
		filter[store.FieldID] = store.NotEqual(exclude)
	}
	taken, err := s.store.Exists(ctx, store.KindCases, filter)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Conflict(message)
	}
	return nil
}

// Exists reports whether a case with the given id is stored.
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	found, err := s.store.Exists(ctx, store.KindCases, store.Filter{store.FieldID: id})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return found, nil
}

// Create validates all references, persists the case, and then attaches it
// to every referenced evidence item and profile plus its game's cases list.
func (s *Service) Create(ctx context.Context, in Input) (*Case, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkNameUnique(ctx, in.Name, primitive.NilObjectID, "A case with that name already exists"); err != nil {
		return nil, err
	}

	res, err := s.resolveReferences(ctx, in)
	if err != nil {
		return nil, err
	}

	created := Case{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		EvidenceIDs: res.evidence.Values(),
		ProfileIDs:  res.profiles.Values(),
		GameID:      res.game,
	}
	if err := s.store.Insert(ctx, store.KindCases, created); err != nil {
		return nil, dberr.Wrap(err, "create_case")
	}

	if err := s.recon.Attach(ctx, store.KindEvidence, created.EvidenceIDs, store.FieldCases, created.ID); err != nil {
		return nil, err
	}
	if err := s.recon.Attach(ctx, store.KindProfiles, created.ProfileIDs, store.FieldCases, created.ID); err != nil {
		return nil, err
	}
	if err := s.recon.Attach(ctx, store.KindGames, []primitive.ObjectID{created.GameID}, store.FieldCases, created.ID); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns one case, served from the cache when a fresh entry exists.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*View, error) {
	var view View
	if s.cache.Get(ctx, store.KindCases, id.Hex(), &view) {
		return &view, nil
	}

	var item Case
	if err := s.store.FindByID(ctx, store.KindCases, id, &item); err != nil {
		return nil, dberr.Wrap(err, "get_case")
	}

	view = View{Case: item}
	s.cache.Set(ctx, store.KindCases, id.Hex(), view)
	return &view, nil
}

// List returns one page of cases plus the pagination window the page was
// clamped to.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]View, pagination.Window, error) {
	total, err := s.store.Count(ctx, store.KindCases)
	if err != nil {
		return nil, pagination.Window{}, apperr.Internal(err)
	}
	window := pagination.Clamp(params, total)

	items := make([]Case, 0, window.CurrentItems)
	if window.CurrentItems > 0 {
		if err := s.store.FindPage(ctx, store.KindCases, window.Skip, window.Limit, &items); err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
	}

	views := make([]View, 0, len(items))
	for _, item := range items {
		views = append(views, View{Case: item})
	}
	return views, window, nil
}

// Update replaces the case wholesale and reconciles all three relationships:
// the evidence and profile sets by diff, and the game reference by moving
// the case between the old and new game's cases lists when it changed.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*Case, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var previous Case
	if err := s.store.FindByID(ctx, store.KindCases, id, &previous); err != nil {
		return nil, dberr.Wrap(err, "update_case")
	}

	if in.Name != previous.Name {
		if err := s.checkNameUnique(ctx, in.Name, id, "Another case with that name already exists"); err != nil {
			return nil, err
		}
	}

	res, err := s.resolveReferences(ctx, in)
	if err != nil {
		return nil, err
	}

	updated := Case{
		ID:          id,
		Name:        in.Name,
		EvidenceIDs: res.evidence.Values(),
		ProfileIDs:  res.profiles.Values(),
		GameID:      res.game,
	}
	if err := s.store.Replace(ctx, store.KindCases, id, updated); err != nil {
		return nil, dberr.Wrap(err, "update_case")
	}
	s.cache.Invalidate(ctx, store.KindCases, id.Hex())

	addedEvidence, removedEvidence := refs.Diff(previous.EvidenceIDs, updated.EvidenceIDs)
	if err := s.recon.Attach(ctx, store.KindEvidence, addedEvidence, store.FieldCases, id); err != nil {
		return nil, err
	}
	if err := s.recon.Detach(ctx, store.KindEvidence, removedEvidence, store.FieldCases, id); err != nil {
		return nil, err
	}

	addedProfiles, removedProfiles := refs.Diff(previous.ProfileIDs, updated.ProfileIDs)
	if err := s.recon.Attach(ctx, store.KindProfiles, addedProfiles, store.FieldCases, id); err != nil {
		return nil, err
	}
	if err := s.recon.Detach(ctx, store.KindProfiles, removedProfiles, store.FieldCases, id); err != nil {
		return nil, err
	}

	if previous.GameID != updated.GameID {
		if err := s.recon.Detach(ctx, store.KindGames, []primitive.ObjectID{previous.GameID}, store.FieldCases, id); err != nil {
			return nil, err
		}
		if err := s.recon.Attach(ctx, store.KindGames, []primitive.ObjectID{updated.GameID}, store.FieldCases, id); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// Delete pulls the case from its game's cases list and removes it.
//
// Evidence and profiles that reference the case are left untouched: they
// keep the dangling identifier until they are independently edited. This
// asymmetry with the evidence/profile delete paths is deliberate and
// documented behavior, not an oversight to patch here.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	var previous Case
	if err := s.store.FindByID(ctx, store.KindCases, id, &previous); err != nil {
		return dberr.Wrap(err, "delete_case")
	}

	if !previous.GameID.IsZero() {
		if err := s.recon.Detach(ctx, store.KindGames, []primitive.ObjectID{previous.GameID}, store.FieldCases, id); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, store.KindCases, id); err != nil {
		return dberr.Wrap(err, "delete_case")
	}
	s.cache.Invalidate(ctx, store.KindCases, id.Hex())
	return nil
}
