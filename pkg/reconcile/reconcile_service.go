// Package reconcile periodically rebuilds the denormalized counters
// (recipe popularity and the per-user counts) from the edge rows.
package reconcile

import (
	"Foodies-Backend/internal/utils/logging"
	"context"
	"github.com/robfig/cron/v3"
	"sync"
)

var log = logging.WithComponent("reconcile")

type (
	UserCounters interface {
		RecountCounters(ctx context.Context) (int64, error)
	}

	RecipeCounters interface {
		RecountPopularity(ctx context.Context) (int64, error)
	}

	Reconciler interface {
		Run(ctx context.Context) error
		Start(schedule string) error
		Stop()
	}

	reconciler struct {
		users   UserCounters
		recipes RecipeCounters
		cron    *cron.Cron
		mu      sync.Mutex
	}
)

func NewReconciler(users UserCounters, recipes RecipeCounters) Reconciler {
	return &reconciler{users: users, recipes: recipes}
}

// Run recounts once. Concurrent runs are serialized.
func (r *reconciler) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.recipes.RecountPopularity(ctx)
	if err != nil {
		log.WithError(err).Error("recount popularity failed")
		return err
	}
	users, err := r.users.RecountCounters(ctx)
	if err != nil {
		log.WithError(err).Error("recount user counters failed")
		return err
	}

	log.WithField("recipes", recipes).WithField("users", users).Info("counters reconciled")
	return nil
}

// Start schedules Run with a standard five field cron expression. An empty
// schedule disables the job.
func (r *reconciler) Start(schedule string) error {
	if schedule == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		_ = r.Run(context.Background())
	}); err != nil {
		return err
	}
	r.cron = c
	c.Start()
	log.WithField("schedule", schedule).Info("reconciliation scheduled")
	return nil
}

func (r *reconciler) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
