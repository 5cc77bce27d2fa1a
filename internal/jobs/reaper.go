package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// OrderExpirer cancels pending orders whose payment never completed.
type OrderExpirer interface {
	ExpireStaleOrders(ctx context.Context) (int, error)
}

type Reaper struct {
	sched   *cron.Cron
	expirer OrderExpirer
	timeout time.Duration
	log     *logrus.Logger
}

func NewReaper(expirer OrderExpirer, logger *logrus.Logger) *Reaper {
	return &Reaper{
		sched:   cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		expirer: expirer,
		timeout: time.Minute,
		log:     logger,
	}
}

// Schedule registers the sweep on a cron schedule such as "@every 1h" or "0 */15 * * * *".
func (r *Reaper) Schedule(schedule string) error {
	_, err := r.sched.AddFunc(schedule, func() {
		_, _ = r.RunOnce(context.Background())
	})
	if err != nil {
		r.log.Errorf("Jobs: Invalid reaper schedule %q: %v", schedule, err)
		return err
	}
	r.log.Infof("Jobs: Stale order reaper scheduled %q", schedule)
	return nil
}

func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.expirer.ExpireStaleOrders(ctx)
	if err != nil {
		r.log.Errorf("Jobs: Stale order sweep failed: %v", err)
		return 0, err
	}
	if n > 0 {
		r.log.Infof("Jobs: Cancelled %d stale pending orders", n)
	}
	return n, nil
}

func (r *Reaper) Start() { r.sched.Start() }

// Stop waits for a running sweep to finish or ctx to expire.
func (r *Reaper) Stop(ctx context.Context) {
	select {
	case <-r.sched.Stop().Done():
	case <-ctx.Done():
		r.log.Warn("Jobs: Reaper did not stop before shutdown deadline")
	}
}
