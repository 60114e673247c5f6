package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateDuplicateEmail(t *testing.T) {
	repo := newMemClientRepo()
	svc := NewClientService(repo)

	first, err := svc.Create(context.Background(), 1, ClientCreateInput{
		Name: "Acme", Email: "billing@acme.test",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.CreatedBy)

	_, err = svc.Create(context.Background(), 2, ClientCreateInput{
		Name: "Acme Again", Email: " Billing@ACME.test ",
	})
	de := requireDomainError(t, err, "CONFLICT")
	assert.Equal(t, "billing@acme.test", de.Details["email"])
}

func TestClientUpdateEmailChangeChecksUniqueness(t *testing.T) {
	repo := newMemClientRepo()
	svc := NewClientService(repo)

	a, err := svc.Create(context.Background(), 1, ClientCreateInput{Name: "A", Email: "a@acme.test"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, ClientCreateInput{Name: "B", Email: "b@acme.test"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), a.ID, ClientUpdateInput{Email: strPtr("b@acme.test")})
	requireDomainError(t, err, "CONFLICT")

	// Resubmitting the current email is not a conflict.
	updated, err := svc.Update(context.Background(), a.ID, ClientUpdateInput{Email: strPtr("A@acme.test")})
	require.NoError(t, err)
	assert.Equal(t, "a@acme.test", updated.Email)
}

func TestClientDeleteBlockedByDependents(t *testing.T) {
	repo := newMemClientRepo()
	svc := NewClientService(repo)

	client, err := svc.Create(context.Background(), 1, ClientCreateInput{Name: "Acme", Email: "a@acme.test"})
	require.NoError(t, err)

	repo.dependents[client.ID] = 3
	requireDomainError(t, svc.Delete(context.Background(), client.ID), "CONFLICT")

	repo.dependents[client.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), client.ID))
	_, err = svc.Get(context.Background(), client.ID)
	require.Error(t, err)
}
