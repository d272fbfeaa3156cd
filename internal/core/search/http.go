// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search answers boolean tag queries over the catalog.

A query is a list of tokens: every plain token must match (AND), any token
prefixed with '-' excludes (OR), and "rating:safe" or "rating:explicit"
restricts the rating. Tokens match canonical tag names and, one hop away,
their aliases. Unrated items are never visible.

# Routing Strategy

  - Public: GET /search, no authentication.
*/
package search

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/loopdex/internal/platform/respond"
	"github.com/taibuivan/loopdex/pkg/pagination"
)

// Handler implements the HTTP layer for search.
type Handler struct {
	service *Service
}

// NewHandler constructs a new search [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the search endpoint.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.search)
	return router
}

/*
GET /api/v1/search.

Query:
  - q: string (e.g. "fox -nsfw rating:safe")
  - page: int (zero-indexed)
  - limit: int
  - safe: bool (restrict to safe items)

Response:
  - 200: []Item with pagination meta
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()

	query := ParseQuery(values.Get("q"))
	params := pagination.FromRequest(request)
	query.Page, query.Limit = params.Page, params.Limit
	query.SafeOnly, _ = strconv.ParseBool(values.Get("safe"))

	result, err := handler.service.Search(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, result.Items, pagination.NewMeta(result.Page, result.Limit, result.Total))
}
