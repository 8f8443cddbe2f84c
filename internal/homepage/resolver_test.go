package homepage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcadia-mall/arcadia-admin/internal/content/events"
	"github.com/arcadia-mall/arcadia-admin/internal/content/posts"
	"github.com/arcadia-mall/arcadia-admin/internal/content/promotions"
	"github.com/arcadia-mall/arcadia-admin/internal/content/tenants"
)

type (
	fakeEvents     map[int64]events.Event
	fakeTenants    map[int64]tenants.Tenant
	fakePosts      map[int64]posts.Post
	fakePromotions map[int64]promotions.Promotion
)

func (f fakeEvents) FindByIDs(ctx context.Context, ids []int64) (map[int64]events.Event, error) {
	return pick(f, ids), nil
}

func (f fakeTenants) FindByIDs(ctx context.Context, ids []int64) (map[int64]tenants.Tenant, error) {
	return pick(f, ids), nil
}

func (f fakePosts) FindByIDs(ctx context.Context, ids []int64) (map[int64]posts.Post, error) {
	return pick(f, ids), nil
}

func (f fakePromotions) FindByIDs(ctx context.Context, ids []int64) (map[int64]promotions.Promotion, error) {
	return pick(f, ids), nil
}

func pick[T any](rows map[int64]T, ids []int64) map[int64]T {
	out := make(map[int64]T, len(ids))
	for _, id := range ids {
		if row, ok := rows[id]; ok {
			out[id] = row
		}
	}
	return out
}

type fakeSources struct {
	events     fakeEvents
	tenants    fakeTenants
	posts      fakePosts
	promotions fakePromotions
}

func emptySources() *fakeSources {
	return &fakeSources{
		events:     fakeEvents{},
		tenants:    fakeTenants{},
		posts:      fakePosts{},
		promotions: fakePromotions{},
	}
}

func (f *fakeSources) resolver() *Resolver {
	return &Resolver{Events: f.events, Tenants: f.tenants, Posts: f.posts, Promotions: f.promotions}
}

func ref(id int64) *int64 { return &id }

func TestResolveCustomItemPassthrough(t *testing.T) {
	f := emptySources()
	items := []Item{{
		ID:          1,
		ContentType: TypeCustom,
		CustomTitle: "Grand Opening",
		CustomImage: "https://cdn.example.com/opening.jpg",
		CustomURL:   "https://example.com/opening",
	}}

	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Grand Opening", cards[0].Title)
	require.Equal(t, "https://cdn.example.com/opening.jpg", cards[0].Image)
	require.Equal(t, "https://example.com/opening", cards[0].URL)
}

func TestResolveReferencedEntityFillsCard(t *testing.T) {
	f := emptySources()
	f.posts[10] = posts.Post{ID: 10, Title: "Autumn Sale", Slug: "autumn-sale", CoverURL: "https://cdn.example.com/sale.jpg", IsPublished: true}
	f.tenants[20] = tenants.Tenant{ID: 20, Name: "Bean Bar", Slug: "bean-bar", LogoURL: "https://cdn.example.com/bean.png", IsActive: true}

	items := []Item{
		{ID: 1, ContentType: TypePost, ReferenceID: ref(10)},
		{ID: 2, ContentType: TypeTenant, ReferenceID: ref(20)},
	}
	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, "Autumn Sale", cards[0].Title)
	require.Equal(t, "/news/autumn-sale", cards[0].URL)
	require.Equal(t, "Bean Bar", cards[1].Title)
	require.Equal(t, "/tenants/bean-bar", cards[1].URL)
	require.Equal(t, "https://cdn.example.com/bean.png", cards[1].Image)
}

func TestResolveCustomFieldsOverrideReference(t *testing.T) {
	f := emptySources()
	f.events[5] = events.Event{ID: 5, Title: "Jazz Night", Slug: "jazz-night", ImageURL: "https://cdn.example.com/jazz.jpg", IsPublished: true}

	items := []Item{{
		ID:          1,
		ContentType: TypeEvent,
		ReferenceID: ref(5),
		CustomTitle: "Jazz Night Finale",
		CustomImage: "https://cdn.example.com/custom.jpg",
	}}
	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Jazz Night Finale", cards[0].Title)
	require.Equal(t, "https://cdn.example.com/custom.jpg", cards[0].Image)
	require.Equal(t, "/events/jazz-night", cards[0].URL)
}

func TestResolveDanglingReferenceDropsCard(t *testing.T) {
	f := emptySources()
	items := []Item{{ID: 1, ContentType: TypePost, ReferenceID: ref(404)}}
	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestResolveDanglingReferenceKeepsCustomTitle(t *testing.T) {
	f := emptySources()
	items := []Item{{
		ID:          1,
		ContentType: TypePromotion,
		ReferenceID: ref(404),
		CustomTitle: "Coming Soon",
	}}
	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Coming Soon", cards[0].Title)
	require.Empty(t, cards[0].URL)
}

func TestResolveUnpublishedReferenceIgnored(t *testing.T) {
	f := emptySources()
	f.posts[10] = posts.Post{ID: 10, Title: "Draft Story", Slug: "draft", IsPublished: false}
	f.tenants[20] = tenants.Tenant{ID: 20, Name: "Closed Shop", Slug: "closed", IsActive: false}

	items := []Item{
		{ID: 1, ContentType: TypePost, ReferenceID: ref(10)},
		{ID: 2, ContentType: TypeTenant, ReferenceID: ref(20)},
	}
	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestResolvePreservesItemOrder(t *testing.T) {
	f := emptySources()
	f.posts[1] = posts.Post{ID: 1, Title: "First", Slug: "first", IsPublished: true}
	f.events[2] = events.Event{ID: 2, Title: "Second", Slug: "second", IsPublished: true}

	items := []Item{
		{ID: 11, ContentType: TypePost, ReferenceID: ref(1), DisplayOrder: 0},
		{ID: 12, ContentType: TypeCustom, CustomTitle: "Middle", DisplayOrder: 1},
		{ID: 13, ContentType: TypeEvent, ReferenceID: ref(2), DisplayOrder: 2},
	}
	cards, err := f.resolver().Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	require.Equal(t, []string{"First", "Middle", "Second"}, []string{cards[0].Title, cards[1].Title, cards[2].Title})
}
