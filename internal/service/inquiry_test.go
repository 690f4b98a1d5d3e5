package service_test

import (
	"imovelhub/pkg/customerror"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInquiryRoutesToOwner(t *testing.T) {
	f := newFixture(t)
	sent, err := f.inquiries.SendInquiry(apartment, f.user(t, brunoId), " Ainda disponível? ")
	require.NoError(t, err)
	assert.Equal(t, anaId, sent.RecipientId)
	assert.False(t, sent.AdminInbox)
	assert.Equal(t, "11987654321", sent.RecipientPhone)
	assert.Equal(t, "Ainda disponível?", sent.Message)

	received, err := f.inquiries.GetInquiries(f.user(t, anaId))
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, sent.Id, received[0].Id)

	adminView, err := f.inquiries.GetInquiries(f.user(t, adminId))
	require.NoError(t, err)
	assert.Empty(t, adminView)
}

func TestSendInquiryRoutesToAdminInbox(t *testing.T) {
	f := newFixture(t)
	sent, err := f.inquiries.SendInquiry(house, f.user(t, anaId), "Aceita permuta?")
	require.NoError(t, err)
	assert.True(t, sent.AdminInbox)
	assert.Equal(t, uuid.Nil, sent.RecipientId)
	assert.Equal(t, "5511999998888", sent.RecipientPhone)

	adminView, err := f.inquiries.GetInquiries(f.user(t, adminId))
	require.NoError(t, err)
	assert.Len(t, adminView, 1)

	ownerView, err := f.inquiries.GetInquiries(f.user(t, brunoId))
	require.NoError(t, err)
	assert.Empty(t, ownerView)
}

func TestSendInquiryRejections(t *testing.T) {
	f := newFixture(t)
	bruno := f.user(t, brunoId)

	_, err := f.inquiries.SendInquiry(pendingId, bruno, "Olá")
	assert.ErrorIs(t, err, customerror.ErrNotFound)

	_, err = f.inquiries.SendInquiry(house, bruno, "Olá")
	assert.ErrorIs(t, err, customerror.ErrForbidden)

	var fields customerror.ValidationErrors
	_, err = f.inquiries.SendInquiry(apartment, bruno, "   ")
	require.ErrorAs(t, err, &fields)
	_, err = f.inquiries.SendInquiry(apartment, bruno, strings.Repeat("a", 2001))
	require.ErrorAs(t, err, &fields)
}

func TestFavourites(t *testing.T) {
	f := newFixture(t)
	bruno := f.user(t, brunoId)

	require.NoError(t, f.favourites.InsertFavourite(apartment, bruno))
	require.NoError(t, f.favourites.InsertFavourite(apartment, bruno))
	assert.ErrorIs(t, f.favourites.InsertFavourite(pendingId, bruno), customerror.ErrNotFound)

	saved, err := f.favourites.GetFavourites(bruno)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{apartment}, propertyIds(saved))

	require.NoError(t, f.favourites.DeleteFavourite(apartment, bruno))
	assert.ErrorIs(t, f.favourites.DeleteFavourite(apartment, bruno), customerror.ErrNotFound)

	saved, err = f.favourites.GetFavourites(bruno)
	require.NoError(t, err)
	assert.Empty(t, saved)
}
