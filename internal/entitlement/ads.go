package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

// AdPlayer shows a single ad and returns once it has been watched in full.
type AdPlayer interface {
	Play(ctx context.Context, index int) error
}

// PlayerFunc adapts a native ad callback to AdPlayer.
type PlayerFunc func(ctx context.Context, index int) error

func (f PlayerFunc) Play(ctx context.Context, index int) error {
	return f(ctx, index)
}

// TimedPlayer simulates an ad by waiting for Duration, reporting the
// remaining time once per Tick.
type TimedPlayer struct {
	Duration time.Duration
	Tick     time.Duration
	OnTick   func(index int, remaining time.Duration)
}

// NewTimedPlayer returns a TimedPlayer using the standard ad duration.
func NewTimedPlayer(onTick func(index int, remaining time.Duration)) *TimedPlayer {
	return &TimedPlayer{Duration: constants.AdDuration, Tick: time.Second, OnTick: onTick}
}

func (p *TimedPlayer) Play(ctx context.Context, index int) error {
	if p.Duration <= 0 {
		return ctx.Err()
	}
	tick := p.Tick
	if tick <= 0 || tick > p.Duration {
		tick = p.Duration
	}

	deadline := time.NewTimer(p.Duration)
	defer deadline.Stop()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	remaining := p.Duration
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("ad %d interrupted: %w", index+1, ctx.Err())
		case <-deadline.C:
			return nil
		case <-ticker.C:
			remaining -= tick
			if p.OnTick != nil && remaining > 0 {
				p.OnTick(index, remaining)
			}
		}
	}
}

// WatchAdsForSlot plays AdsPerSlot ads in sequence. When all of them finish it
// returns the patch granting one extra monthly slot. An interrupted session
// grants nothing and does not consume a try.
func WatchAdsForSlot(ctx context.Context, prefs models.UserPreferences, player AdPlayer, onWatched func(watched, total int)) (models.PreferencesPatch, error) {
	if ok, _ := CanWatchAds(prefs); !ok {
		return models.PreferencesPatch{}, errors.NewValidation(
			fmt.Sprintf("All %d ad tries have been used. Upgrade to Premium for unlimited habits!", constants.MaxAdTries))
	}

	for i := 0; i < constants.AdsPerSlot; i++ {
		if err := player.Play(ctx, i); err != nil {
			return models.PreferencesPatch{}, err
		}
		if onWatched != nil {
			onWatched(i+1, constants.AdsPerSlot)
		}
	}
	return AdSlotEarned(prefs), nil
}
