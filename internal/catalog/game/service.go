package game

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

// Service implements the game business logic. Games own two unique name
// fields; their cases list is filled by case-side reconciliation, with
// create being the one exception that seeds it directly.
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
	v.Required("full_name", in.FullName)
	v.Required("short_name", in.ShortName)
	return v.Err()
}

func (s *Service) checkUnique(ctx context.Context, field, value string, exclude primitive.ObjectID, message string) error {
	filter := store.Filter{field: value}
	if !exclude.IsZero() {
		filter[store.FieldID] = store.NotEqual(exclude)
	}
	taken, err := s.store.Exists(ctx, store.KindGames, filter)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Conflict(message)
	}
	return nil
}

// Exists reports whether a game with the given id is stored.
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	found, err := s.store.Exists(ctx, store.KindGames, store.Filter{store.FieldID: id})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return found, nil
}

// Create checks both unique names, validates any seeded case references,
// persists the game, and points each seeded case's game field back at it.
func (s *Service) Create(ctx context.Context, in Input) (*Game, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "full_name", in.FullName, primitive.NilObjectID, "A game with that full name already exists"); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "short_name", in.ShortName, primitive.NilObjectID, "A game with that short name already exists"); err != nil {
		return nil, err
	}

	caseIDs, err := s.resolver.ResolveSet(ctx, store.KindCases, in.Cases)
	if err != nil {
		return nil, err
	}

	created := Game{
		ID:          primitive.NewObjectID(),
		FullName:    in.FullName,
		ShortName:   in.ShortName,
		ReleaseYear: in.ReleaseYear,
		CaseIDs:     caseIDs.Values(),
	}
	if err := s.store.Insert(ctx, store.KindGames, created); err != nil {
		return nil, dberr.Wrap(err, "create_game")
	}

	// The inverse of Game.cases is the single-valued Case.game, so seeded
	// cases are re-pointed at this game rather than appended to. A seeded
	// case that already belongs to another game is pulled from that game's
	// cases list first, the same move the case-side update performs.
	for _, caseID := range created.CaseIDs {
		var current struct {
			GameID primitive.ObjectID `bson:"game"`
		}
		if err := s.store.FindByID(ctx, store.KindCases, caseID, &current); err != nil {
			return nil, dberr.Wrap(err, "create_game")
		}
		if !current.GameID.IsZero() && current.GameID != created.ID {
			if err := s.recon.Detach(ctx, store.KindGames, []primitive.ObjectID{current.GameID}, store.FieldCases, caseID); err != nil {
				return nil, err
			}
		}
		if err := s.recon.Assign(ctx, store.KindCases, caseID, store.FieldGame, created.ID); err != nil {
			return nil, err
		}
	}
	return &created, nil
}

// Get returns the expanded view of one game, served from the cache when a
// fresh entry exists.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*View, error) {
	var view View
	if s.cache.Get(ctx, store.KindGames, id.Hex(), &view) {
		return &view, nil
	}

	var item Game
	if err := s.store.FindByID(ctx, store.KindGames, id, &item); err != nil {
		return nil, dberr.Wrap(err, "get_game")
	}

	caseRefs, err := s.store.FindNameRefs(ctx, store.KindCases, item.CaseIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	view = View{Game: item, Cases: caseRefs}
	s.cache.Set(ctx, store.KindGames, id.Hex(), view)
	return &view, nil
}

// List returns one page of expanded game views plus the pagination window
// the page was clamped to.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]View, pagination.Window, error) {
	total, err := s.store.Count(ctx, store.KindGames)
	if err != nil {
		return nil, pagination.Window{}, apperr.Internal(err)
	}
	window := pagination.Clamp(params, total)

	items := make([]Game, 0, window.CurrentItems)
	if window.CurrentItems > 0 {
		if err := s.store.FindPage(ctx, store.KindGames, window.Skip, window.Limit, &items); err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
	}

	views := make([]View, 0, len(items))
	for _, item := range items {
		caseRefs, err := s.store.FindNameRefs(ctx, store.KindCases, item.CaseIDs)
		if err != nil {
			return nil, pagination.Window{}, apperr.Internal(err)
		}
		views = append(views, View{Game: item, Cases: caseRefs})
	}
	return views, window, nil
}

// Update merges the scalar fields onto the existing game. The cases list
// is deliberately not editable here: it is maintained exclusively by
// case-side reconciliation. Unique names are re-checked only when changed.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*Game, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var previous Game
	if err := s.store.FindByID(ctx, store.KindGames, id, &previous); err != nil {
		return nil, dberr.Wrap(err, "update_game")
	}

	if in.FullName != previous.FullName {
		if err := s.checkUnique(ctx, "full_name", in.FullName, id, "Another game with that full name already exists"); err != nil {
			return nil, err
		}
	}
	if in.ShortName != previous.ShortName {
		if err := s.checkUnique(ctx, "short_name", in.ShortName, id, "Another game with that short name already exists"); err != nil {
			return nil, err
		}
	}

	updated := Game{
		ID:          id,
		FullName:    in.FullName,
		ShortName:   in.ShortName,
		ReleaseYear: in.ReleaseYear,
		CaseIDs:     previous.CaseIDs,
	}
	if err := s.store.Replace(ctx, store.KindGames, id, updated); err != nil {
		return nil, dberr.Wrap(err, "update_game")
	}
	s.cache.Invalidate(ctx, store.KindGames, id.Hex())
	return &updated, nil
}

// Delete removes the game without touching its cases; their game fields
// keep the dangling identifier until independently edited.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.Delete(ctx, store.KindGames, id); err != nil {
		return dberr.Wrap(err, "delete_game")
	}
	s.cache.Invalidate(ctx, store.KindGames, id.Hex())
	return nil
}
