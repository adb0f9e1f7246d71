package services

import (
	"context"
	"strings"

	"pingpe-reports/models"
	"pingpe-reports/storage"
	"pingpe-reports/utils"
)

// SearchService runs the unified multi-category search: one shared filter
// applied to every selected inventory source, each source's rows normalized
// into the common SearchResult shape.
type SearchService struct {
	store       storage.Store
	logger      *utils.Logger
	rateLimitMs int
}

// NewSearchService creates a SearchService backed by the given store.
// rateLimitMs paces the category queries; 0 disables pacing.
func NewSearchService(store storage.Store, logger *utils.Logger, rateLimitMs int) *SearchService {
	return &SearchService{store: store, logger: logger, rateLimitMs: rateLimitMs}
}

// Search queries the selected categories concurrently and concatenates the
// results in fixed category order (stays, experiences, transport, packages),
// preserving each source's insertion order. No relevance ranking is applied;
// re-sorting is the caller's business.
//
// A completely unconstrained search returns nothing and issues no queries —
// at least one of location or guests must be set. A failing category is
// logged and contributes nothing; the other categories still return, so a
// single source outage degrades results instead of blanking them.
func (s *SearchService) Search(ctx context.Context, params models.SearchParams) []models.SearchResult {
	if !params.HasFilter() {
		s.logger.Debug("[search] No location or guest filter set — skipping all sources")
		return nil
	}

	selected := selectCategories(params.Type)
	filter := storage.SearchFilter{Location: params.Location, Guests: params.Guests}

	buckets := make([][]models.SearchResult, len(selected))
	pool := utils.NewWorkerPool(len(selected), s.rateLimitMs)

	for i, category := range selected {
		i, category := i, category
		pool.Submit(func() {
			results, err := s.queryCategory(ctx, category, filter)
			if err != nil {
				s.logger.Warn("[search] %s query failed, returning partial results: %v", category, err)
				return
			}
			buckets[i] = results
		})
	}
	pool.Wait()

	var merged []models.SearchResult
	for _, bucket := range buckets {
		merged = append(merged, bucket...)
	}

	s.logger.Info("[search] %d results across %d categories (location=%q guests=%d)",
		len(merged), len(selected), params.Location, params.Guests)
	return merged
}

// selectCategories resolves the type filter to the fixed category order.
func selectCategories(t models.EntityType) []models.EntityType {
	if t == "" || t == models.TypeAll {
		return models.Categories
	}
	for _, c := range models.Categories {
		if c == t {
			return []models.EntityType{c}
		}
	}
	return nil
}

func (s *SearchService) queryCategory(ctx context.Context, category models.EntityType, f storage.SearchFilter) ([]models.SearchResult, error) {
	switch category {
	case models.TypeStay:
		rows, err := s.store.SearchProperties(ctx, f)
		if err != nil {
			return nil, err
		}
		results := make([]models.SearchResult, 0, len(rows))
		for _, p := range rows {
			results = append(results, resultFromProperty(p))
		}
		return results, nil

	case models.TypeExperience:
		rows, err := s.store.SearchExperiences(ctx, f)
		if err != nil {
			return nil, err
		}
		results := make([]models.SearchResult, 0, len(rows))
		for _, e := range rows {
			results = append(results, resultFromExperience(e))
		}
		return results, nil

	case models.TypeTransport:
		rows, err := s.store.SearchTransportRoutes(ctx, f)
		if err != nil {
			return nil, err
		}
		results := make([]models.SearchResult, 0, len(rows))
		for _, t := range rows {
			results = append(results, resultFromTransportRoute(t))
		}
		return results, nil

	case models.TypePackage:
		rows, err := s.store.SearchHolidayPackages(ctx, f)
		if err != nil {
			return nil, err
		}
		results := make([]models.SearchResult, 0, len(rows))
		for _, h := range rows {
			results = append(results, resultFromHolidayPackage(h))
		}
		return results, nil
	}
	return nil, nil
}

// Per-source field mappings. Each source names its location and capacity
// fields differently; these are the only places that knowledge lives.

func resultFromProperty(p *models.Property) models.SearchResult {
	return models.SearchResult{
		ID:          p.ID,
		Type:        models.TypeStay,
		Title:       p.Title,
		Location:    joinLocation(p.City, p.Country),
		Price:       p.PricePerNight,
		PriceUnit:   "night",
		Images:      p.Images,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
	}
}

func resultFromExperience(e *models.Experience) models.SearchResult {
	return models.SearchResult{
		ID:          e.ID,
		Type:        models.TypeExperience,
		Title:       e.Title,
		Location:    e.Location,
		Price:       e.Price,
		PriceUnit:   "person",
		Images:      e.Images,
		Rating:      e.Rating,
		ReviewCount: e.ReviewCount,
	}
}

func resultFromTransportRoute(t *models.TransportRoute) models.SearchResult {
	return models.SearchResult{
		ID:        t.ID,
		Type:      models.TypeTransport,
		Title:     t.Title,
		Location:  t.FromCity + " → " + t.ToCity,
		Price:     t.Price,
		PriceUnit: "seat",
		Images:    t.Images,
	}
}

func resultFromHolidayPackage(h *models.HolidayPackage) models.SearchResult {
	return models.SearchResult{
		ID:          h.ID,
		Type:        models.TypePackage,
		Title:       h.Title,
		Location:    h.Destination,
		Price:       h.Price,
		PriceUnit:   "package",
		Images:      h.Images,
		Rating:      h.Rating,
		ReviewCount: h.ReviewCount,
	}
}

func joinLocation(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
