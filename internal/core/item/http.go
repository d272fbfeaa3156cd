// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package item owns catalogued animations: ingestion, moderation, tag and
source editing, and deletion.

# Routing Strategy

  - Public: item lookup, tag and source listings.
  - Authenticated: submission, deletion (ownership checked in the service),
    tag and source replacement.
  - Moderator: the pending queue and vetting.
*/
package item

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/loopdex/internal/platform/middleware"
	requestutil "github.com/taibuivan/loopdex/internal/platform/request"
	"github.com/taibuivan/loopdex/internal/platform/respond"
	"github.com/taibuivan/loopdex/internal/platform/sec"
	"github.com/taibuivan/loopdex/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the item catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a new item [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the item endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{key}", handler.getItem)
	router.Get("/{key}/tags", handler.listTags)
	router.Get("/{key}/sources", handler.listSources)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Post("/", handler.ingestItem)
		member.Delete("/{key}", handler.deleteItem)
		member.Put("/{key}/tags", handler.replaceTags)
		member.Put("/{key}/sources", handler.replaceSources)
	})

	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Get("/pending", handler.listPending)
		moderator.Put("/{key}/rating", handler.vetItem)
	})

	return router
}

// # Item Endpoints

/*
POST /api/v1/items.

Description: Submits an animation. The caller becomes the uploader. Posting a
key that already exists returns the stored item unchanged.

Request:
  - Properties (key and file_id required)

Response:
  - 201: Item
  - 400: Invalid properties
*/
func (handler *Handler) ingestItem(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body Properties
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Ingest(request.Context(), actor.ID, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, item)
}

// GET /api/v1/items/{key}.
func (handler *Handler) getItem(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.Get(request.Context(), requestutil.Param(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

/*
GET /api/v1/items/pending.

Description: Lists unrated items, oldest first. Pages are zero-indexed.

Response:
  - 200: []Item with pagination meta
*/
func (handler *Handler) listPending(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	items, total, err := handler.service.ListPending(request.Context(), params.Page, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, total))
}

// vetRequest is the body of PUT /items/{key}/rating.
type vetRequest struct {
	Rating Rating `json:"rating"`
}

/*
PUT /api/v1/items/{key}/rating.

Description: Approves a pending item with a visible rating.

Request:
  - rating: string (safe, explicit)

Response:
  - 200: Item
*/
func (handler *Handler) vetItem(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body vetRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Vet(request.Context(), actor, requestutil.Param(request, "key"), body.Rating)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

/*
DELETE /api/v1/items/{key}.

Response:
  - 204: Deleted
  - 403: Not the uploader of a pending item, nor a moderator
*/
func (handler *Handler) deleteItem(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), actor, requestutil.Param(request, "key")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Tag Endpoints

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context(), requestutil.Param(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

type replaceTagsRequest struct {
	Tags []string `json:"tags"`
}

/*
PUT /api/v1/items/{key}/tags.

Description: Replaces the full tag list. Names are normalised, aliases are
resolved and unknown tags are created.

Response:
  - 200: []Tag (Stored canonical tags)
  - 409: Another replacement of the same item is in progress
*/
func (handler *Handler) replaceTags(writer http.ResponseWriter, request *http.Request) {
	var body replaceTagsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.service.ReplaceTags(request.Context(), requestutil.Param(request, "key"), body.Tags)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

// # Source Endpoints

func (handler *Handler) listSources(writer http.ResponseWriter, request *http.Request) {
	urls, err := handler.service.ListSources(request.Context(), requestutil.Param(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, urls)
}

type replaceSourcesRequest struct {
	Sources []string `json:"sources"`
}

// PUT /api/v1/items/{key}/sources.
func (handler *Handler) replaceSources(writer http.ResponseWriter, request *http.Request) {
	var body replaceSourcesRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	urls, err := handler.service.ReplaceSources(request.Context(), requestutil.Param(request, "key"), body.Sources)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, urls)
}
