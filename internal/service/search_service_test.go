package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/repository"
)

func searchFixture(t *testing.T) (*SearchService, *ReservationService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	store.SeedProperty(db.Property{
		ID: 1, HostID: testHostID, Title: "Budget Room", Type: "apartment",
		TotalRooms: 1, MaxGuestsPerRoom: 2, PricePerNight: 3000, Currency: "USD",
		Rating: 7.1, Amenities: []string{"wifi"}, InstantBook: true,
	})
	store.SeedProperty(db.Property{
		ID: 2, HostID: testHostID, Title: "Garden Villa", Type: "villa",
		TotalRooms: 4, MaxGuestsPerRoom: 3, PricePerNight: 12000, Currency: "USD",
		Rating: 9.4, Amenities: []string{"wifi", "pool", "parking"},
		FreeCancellation: true, InstantBook: true,
	})
	store.SeedProperty(db.Property{
		ID: 3, HostID: testHostID, Title: "City Hotel", Type: "hotel",
		TotalRooms: 20, MaxGuestsPerRoom: 2, PricePerNight: 8000, Currency: "USD",
		Rating: 8.2, Amenities: []string{"wifi", "parking"},
		FreeCancellation: true, NoPrepayment: true, InstantBook: true,
	})

	clock := &fakeClock{now: day(1)}
	svc := NewReservationService(store, clock)
	return NewSearchService(store, svc), svc, store
}

func ids(properties []db.Property) []uint {
	out := make([]uint, 0, len(properties))
	for _, p := range properties {
		out = append(out, p.ID)
	}
	return out
}

func TestSearchDefaultsToWholeCatalogInOrder(t *testing.T) {
	search, _, _ := searchFixture(t)

	results, err := search.Search(context.Background(), entities.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(results))
}

func TestSearchPartySizeFilter(t *testing.T) {
	search, _, _ := searchFixture(t)
	ctx := context.Background()

	// 5 guests in 2 rooms means 3 in the fullest room; only the villa
	// sleeps 3 per room.
	results, err := search.Search(ctx, entities.SearchCriteria{Guests: 5, Rooms: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids(results))

	// The same 5 guests across 3 rooms fit the hotel too, but the
	// one-room property cannot host 3 rooms at all.
	results, err = search.Search(ctx, entities.SearchCriteria{Guests: 5, Rooms: 3})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids(results))
}

func TestSearchPriceBand(t *testing.T) {
	search, _, _ := searchFixture(t)

	results, err := search.Search(context.Background(), entities.SearchCriteria{
		MinPrice: 5000, MaxPrice: 10000,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(results))
}

func TestSearchTypeAndPolicyFilters(t *testing.T) {
	search, _, _ := searchFixture(t)
	ctx := context.Background()

	results, err := search.Search(ctx, entities.SearchCriteria{Types: []string{"villa", "hotel"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids(results))

	results, err = search.Search(ctx, entities.SearchCriteria{FreeCancellation: true, NoPrepayment: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(results))
}

func TestSearchAmenitiesRequireAll(t *testing.T) {
	search, _, _ := searchFixture(t)
	ctx := context.Background()

	results, err := search.Search(ctx, entities.SearchCriteria{Amenities: []string{"wifi", "parking"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids(results))

	results, err = search.Search(ctx, entities.SearchCriteria{Amenities: []string{"wifi", "sauna"}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchAvailabilityFilter(t *testing.T) {
	search, svc, _ := searchFixture(t)
	ctx := context.Background()

	// Fill the one-room property for mid September.
	_, err := svc.CreateReservation(ctx, entities.ReservationRequest{
		PropertyID: 1, CheckIn: day(10), CheckOut: day(15), Rooms: 1, Guests: 2,
	}, guest())
	require.NoError(t, err)

	checkIn, checkOut := day(12), day(14)
	results, err := search.Search(ctx, entities.SearchCriteria{
		CheckIn: &checkIn, CheckOut: &checkOut,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids(results))

	// Without dates the booked property still lists.
	results, err = search.Search(ctx, entities.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(results))
}

func TestSearchSortOrders(t *testing.T) {
	search, _, _ := searchFixture(t)
	ctx := context.Background()

	results, err := search.Search(ctx, entities.SearchCriteria{SortBy: entities.SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3, 2}, ids(results))

	results, err = search.Search(ctx, entities.SearchCriteria{SortBy: entities.SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 1}, ids(results))

	results, err = search.Search(ctx, entities.SearchCriteria{SortBy: entities.SortRating})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 1}, ids(results))
}

func TestSearchSortIsStableOnTies(t *testing.T) {
	search, _, store := searchFixture(t)
	store.SeedProperty(db.Property{
		ID: 4, HostID: testHostID, Title: "Twin Hotel", Type: "hotel",
		TotalRooms: 10, MaxGuestsPerRoom: 2, PricePerNight: 8000, Currency: "USD",
		Rating: 6.0, InstantBook: true,
	})

	results, err := search.Search(context.Background(), entities.SearchCriteria{SortBy: entities.SortPriceAsc})
	require.NoError(t, err)

	// Properties 3 and 4 share a price; catalog order breaks the tie.
	assert.Equal(t, []uint{1, 3, 4, 2}, ids(results))
}
