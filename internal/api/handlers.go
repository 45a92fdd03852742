package api

import (
	"io"
	"net/http"
	"time"

	"catalog/internal/catalog"
	"catalog/internal/errors"
	"catalog/internal/fields"
	"catalog/internal/response"
	"catalog/internal/storage"
)

// document is a rendered unit served by one route.
type document struct {
	// name becomes the attachment file name for CSV downloads.
	name string
	// dataset groups cache entries for invalidation.
	dataset string
	// cacheKey identifies the entity list within the dataset.
	cacheKey string
	entities []fields.Entity
}

// handleDataset handles GET /api/{dataset}?format=
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("dataset")
	entities, err := s.catalog.Dataset(key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.render(w, r, document{name: key, dataset: key, cacheKey: key, entities: entities})
}

// handleRecipeIngredients handles GET /api/recipes/{id}/ingredients?format=
func (s *Server) handleRecipeIngredients(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entities, err := s.catalog.RecipeIngredients(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.render(w, r, document{
		name:     "ingredients",
		dataset:  catalog.KeyRecipes,
		cacheKey: catalog.KeyRecipes + "/" + id + "/ingredients",
		entities: entities,
	})
}

// handleRecipeSteps handles GET /api/recipes/{id}/steps?format=
func (s *Server) handleRecipeSteps(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entities, err := s.catalog.RecipeSteps(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.render(w, r, document{
		name:     "steps",
		dataset:  catalog.KeyRecipes,
		cacheKey: catalog.KeyRecipes + "/" + id + "/steps",
		entities: entities,
	})
}

// handleOrganization handles GET /api/organization?format=
func (s *Server) handleOrganization(w http.ResponseWriter, r *http.Request) {
	if s.company == nil {
		s.writeError(w, errors.New(errors.NotFound, "organization is not configured"))
		return
	}
	s.render(w, r, document{
		name:     "organization",
		dataset:  "organization",
		cacheKey: "organization",
		entities: []fields.Entity{s.company},
	})
}

// encoderFor picks the encoder from the format query parameter, falling back
// to the configured default.
func (s *Server) encoderFor(r *http.Request) (response.Encoder, error) {
	if id := r.URL.Query().Get("format"); id != "" {
		return s.factory.Create(id)
	}
	return s.factory.CreateDefault()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, doc document) {
	enc, err := s.encoderFor(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	started := time.Now()
	body, cached, err := s.build(enc, doc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := enc.Format()
	if !cached {
		s.metrics.ObserveBuild(string(format), time.Since(started))
	}
	s.metrics.RecordRender(doc.name, string(format), len(body))
	noteRender(r.Context(), doc.name, string(format), cached)

	w.Header().Set("Content-Type", enc.ContentType())
	if name := response.AttachmentName(doc.name, format); name != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, body)
	}
}

// build renders doc, consulting the render cache first. Cache failures are
// logged and never fail the request. The bool reports a cache hit.
func (s *Server) build(enc response.Encoder, doc document) (string, bool, error) {
	format := string(enc.Format())
	if s.cache == nil {
		body, err := enc.Build(doc.entities)
		return body, false, err
	}

	key := storage.RenderKey(doc.cacheKey, format, s.fingerprint)
	if body, ok, err := s.cache.Get(key); err != nil {
		s.logger.Warn("Render cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	} else {
		s.metrics.RecordCacheLookup(ok)
		if ok {
			return body, true, nil
		}
	}

	body, err := enc.Build(doc.entities)
	if err != nil {
		return "", false, err
	}

	if err := s.cache.Set(key, doc.dataset, format, body, s.cacheTTL); err != nil {
		s.logger.Warn("Render cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return body, false, nil
}

// writeError counts and writes an error response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.metrics.RecordError(string(errors.CodeOf(err)))
	WriteCatalogError(w, err)
}
