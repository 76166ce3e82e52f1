package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/amazingstor/backend/pkg/db/models"
	"github.com/amazingstor/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const (
	lifeSpanSettingName    = "cart_life_span"
	defaultLifeSpanMinutes = 30
)

type settingsReader interface {
	IntValue(ctx context.Context, name string) (*int, error)
}

type expiredCartLister interface {
	ListExpired(ctx context.Context, cutoff time.Time) ([]models.Cart, error)
}

type cartKiller interface {
	Kill(ctx context.Context, cartID uuid.UUID) error
}

// CartExpiryJobParams configure the stale cart sweeper.
type CartExpiryJobParams struct {
	Logger   *logger.Logger
	Settings settingsReader
	Carts    expiredCartLister
	Killer   cartKiller
}

// NewCartExpiryJob builds the cron job that kills carts idle past their life
// span, returning each one's stock to the pool.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart lister required")
	}
	if params.Killer == nil {
		return nil, fmt.Errorf("cart killer required")
	}
	return &cartExpiryJob{
		logg:     params.Logger,
		settings: params.Settings,
		carts:    params.Carts,
		killer:   params.Killer,
		now:      time.Now,
	}, nil
}

type cartExpiryJob struct {
	logg     *logger.Logger
	settings settingsReader
	carts    expiredCartLister
	killer   cartKiller
	now      func() time.Time
}

func (j *cartExpiryJob) Name() string { return "cart-expiry" }

// Run kills every alive cart whose last update predates the configured life
// span. Each cart is killed in its own transaction so one failure does not
// stop the sweep.
func (j *cartExpiryJob) Run(ctx context.Context) error {
	lifeSpan, err := j.lifeSpan(ctx)
	if err != nil {
		return fmt.Errorf("read cart life span: %w", err)
	}

	cutoff := j.now().UTC().Add(-lifeSpan)
	carts, err := j.carts.ListExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list expired carts: %w", err)
	}

	var errs []error
	killed := 0
	for _, cart := range carts {
		if err := j.killer.Kill(ctx, cart.ID); err != nil {
			cartCtx := j.logg.WithField(ctx, "cart_id", cart.ID.String())
			j.logg.Error(cartCtx, "failed to kill expired cart", err)
			errs = append(errs, fmt.Errorf("kill cart %s: %w", cart.ID, err))
			continue
		}
		killed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff": cutoff,
		"count":  killed,
	})
	j.logg.Info(logCtx, "cart expiry sweep complete")
	return multierr.Combine(errs...)
}

func (j *cartExpiryJob) lifeSpan(ctx context.Context) (time.Duration, error) {
	minutes, err := j.settings.IntValue(ctx, lifeSpanSettingName)
	if err != nil {
		return 0, err
	}
	if minutes == nil || *minutes <= 0 {
		return defaultLifeSpanMinutes * time.Minute, nil
	}
	return time.Duration(*minutes) * time.Minute, nil
}
