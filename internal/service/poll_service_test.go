package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Agure-la/alx-poll/internal/domain"
)

func newTestPollService(store *fakePollStore) *PollService {
	cache := NewCacheService(nil, zap.NewNop())
	return NewPollService(store, cache, "https://polls.example.com", zap.NewNop())
}

func TestCreatePoll(t *testing.T) {
	store := newFakePollStore()
	svc := newTestPollService(store)

	poll, err := svc.CreatePoll(context.Background(), "owner-1", &domain.CreatePollRequest{
		Title:       "  Favorite language  ",
		Description: "Pick one",
		Options:     []string{"Go", "Rust", "Python"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, poll.ID)
	assert.NotEmpty(t, poll.ShareToken)
	assert.Equal(t, "Favorite language", poll.Title)
	assert.Equal(t, "owner-1", poll.CreatedBy)
	assert.True(t, poll.IsActive)
	require.Len(t, poll.Options, 3)
	for i, option := range poll.Options {
		assert.Equal(t, i, option.OrderIndex)
		assert.Equal(t, poll.ID, option.PollID)
		assert.NotEmpty(t, option.ID)
	}

	stored, err := store.GetPollByID(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll, stored)
}

func TestCreatePoll_Validation(t *testing.T) {
	svc := newTestPollService(newFakePollStore())

	longTitle := make([]byte, maxTitleLength+1)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	manyOptions := make([]string, maxPollOptions+1)
	for i := range manyOptions {
		manyOptions[i] = string(rune('a' + i%26))
	}

	tests := []struct {
		name string
		req  domain.CreatePollRequest
	}{
		{name: "empty title", req: domain.CreatePollRequest{Options: []string{"A", "B"}}},
		{name: "title too long", req: domain.CreatePollRequest{Title: string(longTitle), Options: []string{"A", "B"}}},
		{name: "one option", req: domain.CreatePollRequest{Title: "T", Options: []string{"A"}}},
		{name: "no options", req: domain.CreatePollRequest{Title: "T"}},
		{name: "too many options", req: domain.CreatePollRequest{Title: "T", Options: manyOptions}},
		{name: "empty option text", req: domain.CreatePollRequest{Title: "T", Options: []string{"A", "  "}}},
		{name: "duplicate options", req: domain.CreatePollRequest{Title: "T", Options: []string{"A", "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePoll(context.Background(), "owner-1", &tt.req)
			assert.Error(t, err)
		})
	}
}

func TestUpdatePoll_OwnerOnly(t *testing.T) {
	poll := testPoll()
	store := newFakePollStore(poll)
	svc := newTestPollService(store)

	title := "Renamed"
	_, err := svc.UpdatePoll(context.Background(), "someone-else", poll.ID, &domain.UpdatePollRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotPollOwner)

	_, err = svc.UpdatePoll(context.Background(), "owner-1", "missing", &domain.UpdatePollRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestUpdatePoll_PatchSemantics(t *testing.T) {
	poll := testPoll()
	store := newFakePollStore(poll)
	svc := newTestPollService(store)

	inactive := false
	expiry := time.Now().Add(time.Hour)
	updated, err := svc.UpdatePoll(context.Background(), "owner-1", poll.ID, &domain.UpdatePollRequest{
		IsActive:  &inactive,
		ExpiresAt: &expiry,
	})
	require.NoError(t, err)

	// Only the supplied fields change
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.ExpiresAt)
	assert.True(t, expiry.Equal(*updated.ExpiresAt))
	assert.Equal(t, "Favorite language", updated.Title)
	assert.Len(t, updated.Options, 3)
}

func TestDeletePoll(t *testing.T) {
	poll := testPoll()
	store := newFakePollStore(poll)
	svc := newTestPollService(store)

	err := svc.DeletePoll(context.Background(), "someone-else", poll.ID)
	assert.ErrorIs(t, err, domain.ErrNotPollOwner)

	err = svc.DeletePoll(context.Background(), "owner-1", poll.ID)
	require.NoError(t, err)

	_, err = svc.GetPoll(context.Background(), poll.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestGetPollByShareToken(t *testing.T) {
	poll := testPoll()
	svc := newTestPollService(newFakePollStore(poll))

	got, err := svc.GetPollByShareToken(context.Background(), "share-1")
	require.NoError(t, err)
	assert.Equal(t, poll.ID, got.ID)

	_, err = svc.GetPollByShareToken(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestShareURL(t *testing.T) {
	svc := newTestPollService(newFakePollStore())
	assert.Equal(t, "https://polls.example.com/polls/shared/share-1", svc.ShareURL(testPoll()))
}
