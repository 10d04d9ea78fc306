package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

// availabilityReader is the only slice of the engine the search pipeline
// needs: a free-room snapshot for a window.
type availabilityReader interface {
	RoomsAvailable(ctx context.Context, propertyID uint, window stay.DateRange) (int, error)
}

// SearchService filters and orders the property catalog. Filters are
// conjunctive and order-independent; sorting is stable so equal keys
// keep catalog order.
type SearchService struct {
	store        Store
	availability availabilityReader
}

func NewSearchService(store Store, availability availabilityReader) *SearchService {
	return &SearchService{store: store, availability: availability}
}

// guestsPerRoom is how many guests the heaviest-loaded room carries when
// the party spreads evenly over the requested rooms.
func guestsPerRoom(guests, rooms int) int {
	if rooms < 1 {
		rooms = 1
	}
	return (guests + rooms - 1) / rooms
}

func matchesTypes(p *db.Property, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if p.Type == t {
			return true
		}
	}
	return false
}

func matchesAmenities(p *db.Property, wanted []string) bool {
	for _, a := range wanted {
		found := false
		for _, have := range p.Amenities {
			if have == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *SearchService) matches(ctx context.Context, p *db.Property, criteria entities.SearchCriteria, window *stay.DateRange) (bool, error) {
	rooms := criteria.Rooms
	if rooms < 1 {
		rooms = 1
	}
	guests := criteria.Guests
	if guests < 1 {
		guests = 1
	}

	if rooms > p.TotalRooms {
		return false, nil
	}
	if guestsPerRoom(guests, rooms) > p.MaxGuestsPerRoom {
		return false, nil
	}
	if criteria.MinPrice > 0 && p.PricePerNight < criteria.MinPrice {
		return false, nil
	}
	if criteria.MaxPrice > 0 && p.PricePerNight > criteria.MaxPrice {
		return false, nil
	}
	if !matchesTypes(p, criteria.Types) {
		return false, nil
	}
	if criteria.FreeCancellation && !p.FreeCancellation {
		return false, nil
	}
	if criteria.NoPrepayment && !p.NoPrepayment {
		return false, nil
	}
	if !matchesAmenities(p, criteria.Amenities) {
		return false, nil
	}

	if window != nil {
		available, err := s.availability.RoomsAvailable(ctx, p.ID, *window)
		if err != nil {
			return false, err
		}
		if available < rooms {
			return false, nil
		}
	}
	return true, nil
}

// Search runs the whole pipeline: filter the catalog against the
// criteria, then order the survivors by the requested sort key.
func (s *SearchService) Search(ctx context.Context, criteria entities.SearchCriteria) ([]db.Property, error) {
	var window *stay.DateRange
	if criteria.CheckIn != nil && criteria.CheckOut != nil {
		w, err := stay.NewRange(*criteria.CheckIn, *criteria.CheckOut)
		if err != nil {
			return nil, err
		}
		window = &w
	}

	properties, err := s.store.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	results := make([]db.Property, 0, len(properties))
	for i := range properties {
		ok, err := s.matches(ctx, &properties[i], criteria, window)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, properties[i])
		}
	}

	sortProperties(results, criteria.SortBy)
	return results, nil
}

func sortProperties(properties []db.Property, sortBy string) {
	switch sortBy {
	case entities.SortPriceAsc:
		sort.SliceStable(properties, func(i, j int) bool {
			return properties[i].PricePerNight < properties[j].PricePerNight
		})
	case entities.SortPriceDesc:
		sort.SliceStable(properties, func(i, j int) bool {
			return properties[i].PricePerNight > properties[j].PricePerNight
		})
	case entities.SortRating:
		sort.SliceStable(properties, func(i, j int) bool {
			return properties[i].Rating > properties[j].Rating
		})
	default:
		// top picks: keep catalog order
	}
}
