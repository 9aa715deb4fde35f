package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCartRecord_PublishedViewRequiresPublish(t *testing.T) {
	rec := cartRecord{
		ID: "cart-1",
		Draft: cartPayload{
			UserID:   "user-1",
			Status:   "active",
			Currency: "USD",
			ItemIDs:  []string{"item-1"},
		},
		Version: 1,
	}

	draft, ok := rec.toDomain(StatusDraft)
	require.True(t, ok)
	assert.Equal(t, "user-1", draft.UserID)
	assert.Equal(t, []string{"item-1"}, draft.ItemIDs)
	assert.Equal(t, int64(1), draft.Version)

	_, ok = rec.toDomain(StatusPublished)
	assert.False(t, ok, "never-published draft must be invisible to published reads")
}

func TestCartRecord_PublishedViewIsSnapshot(t *testing.T) {
	published := cartPayload{
		UserID:   "user-1",
		Status:   "active",
		Currency: "USD",
		ItemIDs:  []string{"item-1"},
	}
	rec := cartRecord{
		ID: "cart-1",
		Draft: cartPayload{
			UserID:   "user-1",
			Status:   "active",
			Currency: "USD",
			ItemIDs:  []string{"item-1", "item-2"},
		},
		Published: &published,
		Version:   2,
	}

	cart, ok := rec.toDomain(StatusPublished)
	require.True(t, ok)
	assert.Equal(t, []string{"item-1"}, cart.ItemIDs, "published view ignores unpublished draft edits")
}

func TestItemRecord_ToDomain(t *testing.T) {
	rec := itemRecord{
		ID: "item-1",
		Draft: itemPayload{
			CartID:    "cart-1",
			ProductID: "plant-1",
			Quantity:  3,
			Price:     25,
			Variant:   "large pot",
		},
	}

	item, ok := rec.toDomain(StatusDraft)
	require.True(t, ok)
	assert.Equal(t, "cart-1", item.CartID)
	assert.Equal(t, "plant-1", item.ProductID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 25.0, item.Price)
	assert.Equal(t, "large pot", item.Variant)

	_, ok = rec.toDomain(StatusPublished)
	assert.False(t, ok)
}

func TestProductRecord_ImagePopulation(t *testing.T) {
	rec := productRecord{
		ID: "plant-1",
		Draft: productPayload{
			Name:  "Monstera",
			Price: 25,
			Stock: 10,
			Image: &imageRecord{
				URL: "/uploads/monstera.jpg",
				Formats: map[string]imageFormatRecord{
					"thumbnail": {URL: "/uploads/thumb_monstera.jpg", Width: 156, Height: 156},
				},
			},
		},
	}

	withImage, ok := rec.toDomain(StatusDraft, true)
	require.True(t, ok)
	require.NotNil(t, withImage.Image)
	assert.Equal(t, "/uploads/monstera.jpg", withImage.Image.URL)
	assert.Equal(t, 156, withImage.Image.Formats["thumbnail"].Width)

	withoutImage, ok := rec.toDomain(StatusDraft, false)
	require.True(t, ok)
	assert.Nil(t, withoutImage.Image)
}

func TestStatusFilter(t *testing.T) {
	draft := statusFilter(bson.M{"_id": "cart-1"}, StatusDraft)
	assert.NotContains(t, draft, "published")

	published := statusFilter(bson.M{"_id": "cart-1"}, StatusPublished)
	assert.Equal(t, bson.M{"$ne": nil}, published["published"])
}
