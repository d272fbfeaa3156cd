// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tag owns canonical tags, their aliases and implications.

Tags are created implicitly the first time an item is labelled with them and
curated afterwards by moderators: category, aliases (alternative spellings that
search resolves in one hop) and implications (stored, never expanded).

# Routing Strategy

  - Public: tag lookup and alias/implication listings.
  - Moderator: category and alias/implication replacement.
  - Admin: deletion, which cascades to every item link.
*/
package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/loopdex/internal/platform/middleware"
	requestutil "github.com/taibuivan/loopdex/internal/platform/request"
	"github.com/taibuivan/loopdex/internal/platform/respond"
	"github.com/taibuivan/loopdex/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for the tag catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a new tag [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the tag endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{name}", handler.getTag)
	router.Get("/{name}/aliases", handler.listAliases)
	router.Get("/{name}/implications", handler.listImplications)

	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Patch("/{name}", handler.updateTag)
		moderator.Put("/{name}/aliases", handler.replaceAliases)
		moderator.Put("/{name}/implications", handler.replaceImplications)
	})

	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{name}", handler.deleteTag)

	return router
}

// # Tag Endpoints

/*
GET /api/v1/tags/{name}.

Description: Resolves a name or alias to its canonical tag.

Response:
  - 200: Tag
  - 404: Neither a tag nor an alias
*/
func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.Get(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

// updateTagRequest is the body of PATCH /tags/{name}.
type updateTagRequest struct {
	Category Category `json:"category"`
}

/*
PATCH /api/v1/tags/{name}.

Description: Changes the category of a tag.

Request:
  - category: string (artist, character, copyright, general, meta, species)

Response:
  - 200: Tag
*/
func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	var body updateTagRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.SetCategory(request.Context(), requestutil.Param(request, "name"), body.Category)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

// DELETE /api/v1/tags/{name}.
func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "name")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Alias Endpoints

func (handler *Handler) listAliases(writer http.ResponseWriter, request *http.Request) {
	aliases, err := handler.service.ListAliases(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, aliases)
}

type replaceAliasesRequest struct {
	Aliases []string `json:"aliases"`
}

/*
PUT /api/v1/tags/{name}/aliases.

Description: Replaces the full alias list of a tag.

Request:
  - aliases: []string

Response:
  - 200: []string (Stored aliases)
  - 409: An alias is a tag name or belongs to another tag
*/
func (handler *Handler) replaceAliases(writer http.ResponseWriter, request *http.Request) {
	var body replaceAliasesRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aliases, err := handler.service.ReplaceAliases(request.Context(), requestutil.Param(request, "name"), body.Aliases)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, aliases)
}

// # Implication Endpoints

func (handler *Handler) listImplications(writer http.ResponseWriter, request *http.Request) {
	implied, err := handler.service.ListImplications(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, implied)
}

type replaceImplicationsRequest struct {
	Implications []string `json:"implications"`
}

// PUT /api/v1/tags/{name}/implications.
func (handler *Handler) replaceImplications(writer http.ResponseWriter, request *http.Request) {
	var body replaceImplicationsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	implied, err := handler.service.ReplaceImplications(request.Context(), requestutil.Param(request, "name"), body.Implications)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, implied)
}
