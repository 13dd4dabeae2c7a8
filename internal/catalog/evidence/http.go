package evidence

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/internal/platform/constants"
	"github.com/mkoers/courtrecord/internal/platform/middleware"
	requestutil "github.com/mkoers/courtrecord/internal/platform/request"
	"github.com/mkoers/courtrecord/internal/platform/respond"
	"github.com/mkoers/courtrecord/pkg/hal"
	"github.com/mkoers/courtrecord/pkg/pagination"
)

// Handler exposes the evidence collection over HTTP.
type Handler struct {
	service *Service
	baseURL string
	kind    store.Kind
}

func NewHandler(service *Service, baseURL string) *Handler {
	return &Handler{service: service, baseURL: baseURL, kind: store.KindEvidence}
}

// Routes mounts the collection and detail endpoints. Detail routes are
// guarded by id well-formedness and existence checks, so the handlers
// themselves only deal with entities that are known to exist.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Options("/", h.collectionOptions)

	router.Route("/{id}", func(detail chi.Router) {
		detail.Use(middleware.ValidateIDParam())
		detail.Use(h.requireExists)
		detail.Get("/", h.get)
		detail.Put("/", h.update)
		detail.Delete("/", h.remove)
		detail.Options("/", h.detailOptions)
	})

	return router
}

func (h *Handler) requireExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodOptions {
			next.ServeHTTP(writer, request)
			return
		}

		found, err := h.service.Exists(request.Context(), requestutil.ObjectID(request))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if !found {
			respond.Error(writer, request, apperr.NotFound(store.Describe(h.kind).Title))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	views, window, err := h.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	block := pagination.NewBlock(window, hal.CollectionURL(h.baseURL, string(h.kind)))
	respond.Collection(writer, views, hal.ForCollection(h.baseURL, string(h.kind)), block)
}

func (h *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var in Input
	if err := requestutil.DecodeJSON(request, &in); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.Create(request.Context(), in)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, store.Describe(h.kind).Singular, created)
}

func (h *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ObjectID(request)

	view, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	links := hal.ForResource(h.baseURL, string(h.kind), id.Hex())
	view.Links = &links
	respond.OK(writer, view)
}

func (h *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var in Input
	if err := requestutil.DecodeJSON(request, &in); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := h.service.Update(request.Context(), requestutil.ObjectID(request), in)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Updated(writer, store.Describe(h.kind).Singular, updated)
}

func (h *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := h.service.Delete(request.Context(), requestutil.ObjectID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (h *Handler) collectionOptions(writer http.ResponseWriter, _ *http.Request) {
	respond.Options(writer, constants.AllowCollection)
}

func (h *Handler) detailOptions(writer http.ResponseWriter, _ *http.Request) {
	respond.Options(writer, constants.AllowDetail)
}
