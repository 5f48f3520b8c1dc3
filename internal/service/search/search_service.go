package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
)

// SearchUseCase is the read-only query front over the flight catalog. It
// holds no mutation capability and never fails on an empty result.
type SearchUseCase interface {
	Search(ctx context.Context, query Query) ([]domain.Flight, error)
}

type Cache interface {
	GetSearch(ctx context.Context, query string) ([]domain.Flight, error)
	SetSearch(ctx context.Context, query string, flights []domain.Flight) error
}

type Query struct {
	OriginCity      string
	DestinationCity string
	DepartFrom      *time.Time
	DepartTo        *time.Time
}

func (q Query) cacheKey() string {
	from, to := "", ""
	if q.DepartFrom != nil {
		from = q.DepartFrom.UTC().Format(time.RFC3339)
	}
	if q.DepartTo != nil {
		to = q.DepartTo.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%s|%s|%s", strings.ToLower(q.OriginCity), strings.ToLower(q.DestinationCity), from, to)
}

type SearchService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewSearchService(repo repository.FlightRepository, cache Cache) *SearchService {
	return &SearchService{repo: repo, cache: cache}
}

func (s *SearchService) Search(ctx context.Context, query Query) ([]domain.Flight, error) {
	key := query.cacheKey()
	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx, repository.FlightFilter{
		OriginCity:      query.OriginCity,
		DestinationCity: query.DestinationCity,
		DepartFrom:      query.DepartFrom,
		DepartTo:        query.DepartTo,
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSearch(ctx, key, flights)
	}
	return flights, nil
}

var _ SearchUseCase = (*SearchService)(nil)
