package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

type donationFixture struct {
	store    *memStore
	svc      *DonationService
	event    domain.Event
	operator domain.User
}

func newDonationFixture(t *testing.T) *donationFixture {
	t.Helper()

	store := newMemStore()
	templates := NewTemplateService(store, nil, zap.NewNop())
	svc := NewDonationService(store, templates, nil)

	owner := store.seedUser(domain.User{Username: "owner", Role: domain.RoleOwner})
	event := store.seedEvent(domain.Event{Title: "Gala", Type: "fundraiser", OwnerID: owner.ID})
	operator := store.seedUser(domain.User{Username: "desk1", Role: domain.RoleDeskOperator})
	store.seedAssignment(event.ID, operator.ID)

	return &donationFixture{store: store, svc: svc, event: event, operator: operator}
}

func TestRecordDonation(t *testing.T) {
	f := newDonationFixture(t)

	result, err := f.svc.Record(context.Background(), &f.operator, f.event.ID, DonationInput{
		DonorName: "Jo Donor",
		Amount:    5000,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Donation.ID)
	assert.Equal(t, domain.DonationStatusPending, result.Donation.Status)
	assert.Equal(t, f.operator.ID, result.Donation.CreatedBy)
	assert.Empty(t, result.Template)
}

func TestRecordDonationReturnsTemplateOnRequest(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()

	templates := NewTemplateService(f.store, nil, zap.NewNop())
	mustAppend(t, templates, f.store, f.event.ID, "thank you {name}")

	result, err := f.svc.Record(ctx, &f.operator, f.event.ID, DonationInput{
		DonorName:       "Jo Donor",
		Amount:          100,
		RequestTemplate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "thank you {name}", result.Template)
}

func TestRecordDonationRequiresDeskOperator(t *testing.T) {
	f := newDonationFixture(t)
	presenter := f.store.seedUser(domain.User{Username: "mc", Role: domain.RolePresenter})
	f.store.seedAssignment(f.event.ID, presenter.ID)

	_, err := f.svc.Record(context.Background(), &presenter, f.event.ID, DonationInput{DonorName: "Jo"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestRecordDonationRequiresAssignment(t *testing.T) {
	f := newDonationFixture(t)
	stranger := f.store.seedUser(domain.User{Username: "desk2", Role: domain.RoleDeskOperator})

	_, err := f.svc.Record(context.Background(), &stranger, f.event.ID, DonationInput{DonorName: "Jo"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestRecordDonationRequiresDonorName(t *testing.T) {
	f := newDonationFixture(t)

	_, err := f.svc.Record(context.Background(), &f.operator, f.event.ID, DonationInput{DonorName: "  "})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestListDonationsScopedToEvent(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, &f.operator, f.event.ID, DonationInput{DonorName: "A", Amount: 1})
	require.NoError(t, err)
	_, err = f.svc.Record(ctx, &f.operator, f.event.ID, DonationInput{DonorName: "B", Amount: 2})
	require.NoError(t, err)

	other := f.store.seedEvent(domain.Event{Title: "Other", Type: "fundraiser", OwnerID: "owner-x"})
	f.store.seedAssignment(other.ID, f.operator.ID)

	donations, err := f.svc.List(ctx, &f.operator, f.event.ID)
	require.NoError(t, err)
	assert.Len(t, donations, 2)

	donations, err = f.svc.List(ctx, &f.operator, other.ID)
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestListDonationsRequiresStaffRole(t *testing.T) {
	f := newDonationFixture(t)
	owner := f.store.seedUser(domain.User{Username: "owner2", Role: domain.RoleOwner})

	_, err := f.svc.List(context.Background(), &owner, f.event.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}
