package service_test

import (
	"context"
	"imovelhub/pkg/cache"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/property"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propertyIds(properties []property.Property) []uuid.UUID {
	result := []uuid.UUID{}
	for _, p := range properties {
		result = append(result, p.Id)
	}
	return result
}

func draft() property.Draft {
	return property.Draft{
		Title:     "Cobertura com vista",
		Type:      "apartamento",
		City:      "Curitiba",
		Price:     1200000,
		Area:      180,
		Bedrooms:  3,
		Suites:    2,
		Bathrooms: 3,
	}
}

func TestPublicFeed(t *testing.T) {
	f := newFixture(t)

	feed, err := f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{apartment, house}, propertyIds(feed))

	feed, err = f.properties.GetProperties(property.Filter{City: "são paulo"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{apartment}, propertyIds(feed))

	feed, err = f.properties.GetProperties(property.Filter{Query: "piscina"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{house}, propertyIds(feed))

	f.clock.Advance(31 * 24 * time.Hour)
	feed, err = f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{house}, propertyIds(feed))
}

func TestOwnerAndAdminListings(t *testing.T) {
	f := newFixture(t)

	mine, err := f.properties.GetPropertiesByOwner(anaId)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pendingId, apartment}, propertyIds(mine))

	all, err := f.properties.GetAllProperties()
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{awaitingId, pendingId, apartment, house}, propertyIds(all))
}

func TestInsertProperty(t *testing.T) {
	f := newFixture(t)

	created, err := f.properties.InsertProperty(draft(), f.user(t, anaId))
	require.NoError(t, err)
	assert.Equal(t, property.StatusPendingPayment, created.Status)
	assert.Equal(t, "Apartamento", created.Type)
	assert.Equal(t, int64(0), created.Views)
	require.NotNil(t, created.ExpiresAt)
	assert.Equal(t, start.Add(30*24*time.Hour), *created.ExpiresAt)
	assert.Equal(t, property.ContactOwner, created.ContactOverride)

	stored, err := f.properties.GetProperty(created.Id)
	require.NoError(t, err)
	assert.Equal(t, anaId, stored.OwnerId)
}

func TestInsertPropertyValidation(t *testing.T) {
	f := newFixture(t)
	invalid := draft()
	invalid.Type = "Castelo"
	invalid.Suites = 4
	invalid.Price = -1

	_, err := f.properties.InsertProperty(invalid, f.user(t, anaId))
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "suites")
	assert.Contains(t, fields, "price")

	mine, err := f.properties.GetPropertiesByOwner(anaId)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestOwnerCannotTouchListingUnderReview(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, anaId)

	_, err := f.properties.UpdateProperty(pendingId, property.Patch{Title: ptr("Novo título")}, ana)
	assert.ErrorIs(t, err, customerror.ErrPendingApproval)
	assert.ErrorIs(t, f.properties.DeleteProperty(pendingId, ana), customerror.ErrPendingApproval)

	admin := f.user(t, adminId)
	updated, err := f.properties.UpdateProperty(pendingId, property.Patch{Title: ptr("Novo título")}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Novo título", updated.Title)
	assert.Equal(t, property.StatusPendingApproval, updated.Status)
	assert.NoError(t, f.properties.DeleteProperty(pendingId, admin))

	_, err = f.properties.GetProperty(pendingId)
	assert.ErrorIs(t, err, customerror.ErrNotFound)
}

func TestUpdatePropertyPermissions(t *testing.T) {
	f := newFixture(t)

	_, err := f.properties.UpdateProperty(apartment, property.Patch{Title: ptr("x")}, f.user(t, brunoId))
	assert.ErrorIs(t, err, customerror.ErrForbidden)

	status := property.StatusActive
	_, err = f.properties.UpdateProperty(awaitingId, property.Patch{Status: &status}, f.user(t, brunoId))
	assert.ErrorIs(t, err, customerror.ErrForbidden)

	_, err = f.properties.UpdateProperty(apartment, property.Patch{Bedrooms: ptr(0)}, f.user(t, anaId))
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "suites")

	_, err = f.properties.UpdateProperty(uuid.New(), property.Patch{}, f.user(t, adminId))
	assert.ErrorIs(t, err, customerror.ErrNotFound)
}

func TestListingsOfDeletedTypeStayEditable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.types.DeleteType(uuid.MustParse("7a3f2d10-0000-4000-8000-000000000003")))
	ana := f.user(t, anaId)

	updated, err := f.properties.UpdateProperty(apartment, property.Patch{Title: ptr("Apartamento reformado")}, ana)
	require.NoError(t, err)
	assert.Equal(t, "Apartamento", updated.Type)

	_, err = f.properties.InsertPropertyImage(fileHeader(t, "sala.png", []byte("png")), apartment, ana)
	require.NoError(t, err)

	_, err = f.properties.UpdateProperty(apartment, property.Patch{Title: ptr("Apartamento reformado")}, f.user(t, adminId))
	require.NoError(t, err)

	_, err = f.properties.UpdateProperty(house, property.Patch{Type: ptr("apartamento")}, f.user(t, brunoId))
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "type")

	_, err = f.properties.InsertProperty(draft(), ana)
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "type")
}

func TestAdminStatusPatchNeedsImages(t *testing.T) {
	f := newFixture(t)
	created, err := f.properties.InsertProperty(draft(), f.user(t, anaId))
	require.NoError(t, err)

	status := property.StatusActive
	_, err = f.properties.UpdateProperty(created.Id, property.Patch{Status: &status}, f.user(t, adminId))
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "images")
}

func TestPaymentAndApproval(t *testing.T) {
	f := newFixture(t)
	bruno := f.user(t, brunoId)

	_, err := f.properties.SimulatePayment(awaitingId, f.user(t, anaId))
	assert.ErrorIs(t, err, customerror.ErrForbidden)

	paid, err := f.properties.SimulatePayment(awaitingId, bruno)
	require.NoError(t, err)
	assert.Equal(t, property.StatusPendingApproval, paid.Status)

	again, err := f.properties.SimulatePayment(awaitingId, bruno)
	require.NoError(t, err)
	assert.Equal(t, property.StatusPendingApproval, again.Status)

	approved, err := f.properties.ApproveProperty(awaitingId)
	require.NoError(t, err)
	assert.Equal(t, property.StatusActive, approved.Status)

	unchanged, err := f.properties.SimulatePayment(awaitingId, bruno)
	require.NoError(t, err)
	assert.Equal(t, property.StatusActive, unchanged.Status)

	_, err = f.properties.ApproveProperty(awaitingId)
	assert.ErrorIs(t, err, customerror.ErrInvalidTransition)

	feed, err := f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Contains(t, propertyIds(feed), awaitingId)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LifecycleTransitions.WithLabelValues("pending_payment", "pending_approval")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LifecycleTransitions.WithLabelValues("pending_approval", "active")))
}

func TestApproveRequiresImages(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, anaId)
	created, err := f.properties.InsertProperty(draft(), ana)
	require.NoError(t, err)
	_, err = f.properties.SimulatePayment(created.Id, ana)
	require.NoError(t, err)

	_, err = f.properties.ApproveProperty(created.Id)
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "images")

	stored, err := f.properties.GetProperty(created.Id)
	require.NoError(t, err)
	assert.Equal(t, property.StatusPendingApproval, stored.Status)
}

func TestRejectedListingIsResubmittedOnEdit(t *testing.T) {
	f := newFixture(t)

	rejected, err := f.properties.RejectProperty(pendingId)
	require.NoError(t, err)
	assert.Equal(t, property.StatusRejected, rejected.Status)

	_, err = f.properties.RejectProperty(pendingId)
	assert.ErrorIs(t, err, customerror.ErrInvalidTransition)

	edited, err := f.properties.UpdateProperty(pendingId, property.Patch{Price: ptr(900000.0)}, f.user(t, anaId))
	require.NoError(t, err)
	assert.Equal(t, property.StatusPendingPayment, edited.Status)
	assert.Equal(t, rejected.ExpiresAt, edited.ExpiresAt)
}

func TestDetailCountsViewsOnlyWhenActive(t *testing.T) {
	f := newFixture(t)

	detail, err := f.properties.GetPropertyDetail(apartment, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(126), detail.Views)
	detail, err = f.properties.GetPropertyDetail(apartment, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(127), detail.Views)

	stored, err := f.properties.GetProperty(apartment)
	require.NoError(t, err)
	assert.Equal(t, int64(127), stored.Views)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.PropertyViews))

	detail, err = f.properties.GetPropertyDetail(pendingId, f.user(t, adminId))
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.Views)
	stored, err = f.properties.GetProperty(pendingId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Views)
}

func TestDetailHidesListingsOutsideTheFeed(t *testing.T) {
	f := newFixture(t)

	_, err := f.properties.GetPropertyDetail(pendingId, nil)
	assert.ErrorIs(t, err, customerror.ErrNotFound)
	_, err = f.properties.GetPropertyDetail(pendingId, f.user(t, brunoId))
	assert.ErrorIs(t, err, customerror.ErrNotFound)

	detail, err := f.properties.GetPropertyDetail(pendingId, f.user(t, anaId))
	require.NoError(t, err)
	assert.Equal(t, pendingId, detail.Id)
}

func TestDetailPriceAndContact(t *testing.T) {
	f := newFixture(t)
	_, err := f.properties.UpdateProperty(apartment, property.Patch{PriceOnRequest: ptr(true)}, f.user(t, anaId))
	require.NoError(t, err)

	anonymous, err := f.properties.GetPropertyDetail(apartment, nil)
	require.NoError(t, err)
	assert.Nil(t, anonymous.Price)
	assert.True(t, anonymous.PriceHidden)
	assert.Equal(t, "11987654321", anonymous.ContactPhone)
	require.NotNil(t, anonymous.Owner)
	assert.Equal(t, "Ana Costa", anonymous.Owner.Name)

	signedIn, err := f.properties.GetPropertyDetail(apartment, f.user(t, brunoId))
	require.NoError(t, err)
	require.NotNil(t, signedIn.Price)
	assert.Equal(t, 750000.0, *signedIn.Price)

	routed, err := f.properties.GetPropertyDetail(house, nil)
	require.NoError(t, err)
	assert.Equal(t, "5511999998888", routed.ContactPhone)
	require.NotNil(t, routed.Price)
}

func TestPropertyImages(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, anaId)

	updated, err := f.properties.InsertPropertyImage(fileHeader(t, "sala.png", []byte("png")), apartment, ana)
	require.NoError(t, err)
	require.Len(t, updated.Images, 7)
	assert.True(t, strings.HasPrefix(updated.Images[6], "http://localhost:8080/media/properties/"+apartment.String()+"/"))

	_, err = f.properties.InsertPropertyImage(fileHeader(t, "planta.pdf", []byte("pdf")), apartment, ana)
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "image")

	_, err = f.properties.InsertPropertyImage(fileHeader(t, "sala.png", []byte("png")), apartment, f.user(t, brunoId))
	assert.ErrorIs(t, err, customerror.ErrForbidden)

	updated, err = f.properties.DeletePropertyImage(apartment, 6, ana)
	require.NoError(t, err)
	assert.Len(t, updated.Images, 6)

	_, err = f.properties.DeletePropertyImage(apartment, 10, ana)
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "images")
}

func TestActiveListingKeepsAtLeastOneImage(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, adminId)
	_, err := f.properties.UpdateProperty(apartment, property.Patch{Images: &[]string{"https://picsum.photos/seed/1/800/600"}}, admin)
	require.NoError(t, err)

	_, err = f.properties.DeletePropertyImage(apartment, 0, admin)
	var fields customerror.ValidationErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "images")
}

func TestFeedCacheIsInvalidatedAndRechecked(t *testing.T) {
	server := miniredis.RunT(t)
	client := cache.NewRedisClient(server.Addr(), "")
	t.Cleanup(func() { client.Close() })
	f := newFixtureWithCache(t, cache.NewRedisCache(client, "feed", time.Hour))

	feed, err := f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{apartment, house}, propertyIds(feed))
	assert.NotEmpty(t, server.Keys())

	require.NoError(t, f.store.DeleteProperty(context.Background(), house))
	feed, err = f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{apartment, house}, propertyIds(feed), "served from cache")

	_, err = f.properties.SimulatePayment(awaitingId, f.user(t, brunoId))
	require.NoError(t, err)
	_, err = f.properties.ApproveProperty(awaitingId)
	require.NoError(t, err)
	feed, err = f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{awaitingId, apartment}, propertyIds(feed))

	f.clock.Advance(31 * 24 * time.Hour)
	feed, err = f.properties.GetProperties(property.Filter{})
	require.NoError(t, err)
	assert.Empty(t, feed)
}
