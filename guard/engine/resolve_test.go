package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyguard/joyguard/guard/blockstore"
)

func profileOf(u UserRef) blockstore.UserProfile {
	return blockstore.UserProfile{
		UserID:    u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// fakePlatform resolves usernames from a fixed table, optionally stalling
// to exercise the fetch timeout.
type fakePlatform struct {
	users map[string]UserRef
	delay time.Duration
	calls int
}

func (p *fakePlatform) FetchUserByUsername(ctx context.Context, username string) (*UserRef, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	u, ok := p.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func TestResolveOrderAndDedup(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()

	petya := UserRef{ID: 200, Username: "petya", FirstName: "Петя"}
	kolya := UserRef{ID: 300, Username: "kolya", FirstName: "Коля"}

	msg := &Message{
		ChatID:  1,
		Sender:  actorVasya,
		ReplyTo: &petya,
		Mentions: []Mention{
			{User: &kolya},
			// duplicate of the reply author by ID
			{User: &petya},
			// duplicate of a resolved mention by username
			{Username: "KOLYA"},
			{Username: "ghost"},
			// duplicate plain username
			{Username: "Ghost"},
		},
	}

	targets := eng.ResolveTargets(ctx, msg)
	require.Len(t, targets, 3)

	assert.EqualValues(200, targets[0].ID)
	assert.EqualValues(300, targets[1].ID)
	assert.False(targets[2].Resolved())
	assert.Equal("ghost", targets[2].Username)
	assert.Equal("@ghost", targets[2].DisplayName)
}

func TestResolvePlainUsernameFromProfiles(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()

	require.NoError(t, eng.Store.UpsertProfile(ctx, profileOf(UserRef{ID: 200, Username: "Petya", FirstName: "Петя"})))

	msg := &Message{
		ChatID:   1,
		Sender:   actorVasya,
		Mentions: []Mention{{Username: "petya"}},
	}
	targets := eng.ResolveTargets(ctx, msg)
	require.Len(t, targets, 1)
	assert.EqualValues(200, targets[0].ID)
	assert.Equal("Петя", targets[0].DisplayName)
}

func TestUpgradeTargetsFetchesAndUpserts(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()
	platform := &fakePlatform{users: map[string]UserRef{
		"ghost": {ID: 400, Username: "ghost", FirstName: "Гоша"},
	}}
	eng.Platform = platform

	targets := []Target{{Username: "ghost", DisplayName: "@ghost"}}
	eng.UpgradeTargets(ctx, targets)

	assert.True(targets[0].Resolved())
	assert.EqualValues(400, targets[0].ID)
	assert.Equal("Гоша", targets[0].DisplayName)

	// the fetch result landed in the profile table
	profile, err := eng.Store.GetProfile(ctx, 400)
	assert.NoError(err)
	assert.Equal("ghost", profile.Username)

	// already-resolved targets never trigger a fetch
	calls := platform.calls
	eng.UpgradeTargets(ctx, targets)
	assert.Equal(calls, platform.calls)
}

func TestUpgradeTargetsUnknownUserStaysUnresolved(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()
	platform := &fakePlatform{users: map[string]UserRef{}}
	eng.Platform = platform

	targets := []Target{{Username: "nobody", DisplayName: "@nobody"}}
	eng.UpgradeTargets(ctx, targets)
	assert.False(targets[0].Resolved())

	// the miss is cached, so a second resolve pass doesn't hit the
	// platform again
	msg := &Message{ChatID: 1, Sender: actorVasya, Mentions: []Mention{{Username: "nobody"}}}
	resolved := eng.ResolveTargets(ctx, msg)
	require.Len(t, resolved, 1)
	assert.False(resolved[0].Resolved())
}

func TestUpgradeTargetsTimeoutDegrades(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()
	eng.FetchTimeout = 10 * time.Millisecond
	eng.Platform = &fakePlatform{
		users: map[string]UserRef{"slow": {ID: 500, Username: "slow"}},
		delay: 200 * time.Millisecond,
	}

	start := time.Now()
	targets := []Target{{Username: "slow", DisplayName: "@slow"}}
	eng.UpgradeTargets(ctx, targets)

	assert.False(targets[0].Resolved())
	assert.Less(time.Since(start), 150*time.Millisecond)
}

func TestObserveUsersPopulatesProfiles(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()

	petya := UserRef{ID: 200, Username: "petya", FirstName: "Петя"}
	msg := &Message{
		ChatID:  1,
		Sender:  actorVasya,
		ReplyTo: &petya,
	}
	eng.observeUsers(ctx, msg)

	profile, err := eng.Store.GetProfile(ctx, 100)
	assert.NoError(err)
	assert.Equal("vasya", profile.Username)
	profile, err = eng.Store.GetProfile(ctx, 200)
	assert.NoError(err)
	assert.Equal("Петя", profile.FirstName)
}
