package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-gin-mongo-users/internal/domain"
)

var _ UserService = (*metricsService)(nil)

type metricsService struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	svc     UserService
}

// NewMetricsService counts calls per method and outcome and records their latency.
func NewMetricsService(svc UserService, reg prometheus.Registerer) UserService {
	ms := &metricsService{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "users",
			Name:      "service_calls_total",
			Help:      "User service calls by method and outcome.",
		}, []string{"method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "users",
			Name:      "service_latency_seconds",
			Help:      "User service call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		svc: svc,
	}
	reg.MustRegister(ms.calls, ms.latency)
	return ms
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	default:
		return "error"
	}
}

func (ms *metricsService) observe(method string, begin time.Time, err error) {
	ms.calls.WithLabelValues(method, outcome(err)).Inc()
	ms.latency.WithLabelValues(method).Observe(time.Since(begin).Seconds())
}

func (ms *metricsService) Create(ctx context.Context, name, email string) (u *domain.User, err error) {
	defer func(begin time.Time) { ms.observe("create", begin, err) }(time.Now())
	return ms.svc.Create(ctx, name, email)
}

func (ms *metricsService) Get(ctx context.Context, id string) (u *domain.User, err error) {
	defer func(begin time.Time) { ms.observe("get", begin, err) }(time.Now())
	return ms.svc.Get(ctx, id)
}

func (ms *metricsService) List(ctx context.Context, skip, limit int) (users []domain.User, total int64, err error) {
	defer func(begin time.Time) { ms.observe("list", begin, err) }(time.Now())
	return ms.svc.List(ctx, skip, limit)
}

func (ms *metricsService) Update(ctx context.Context, id string, patch domain.UserPatch) (u *domain.User, err error) {
	defer func(begin time.Time) { ms.observe("update", begin, err) }(time.Now())
	return ms.svc.Update(ctx, id, patch)
}

func (ms *metricsService) Delete(ctx context.Context, id string) (deleted bool, err error) {
	defer func(begin time.Time) {
		if err == nil && !deleted {
			ms.observe("delete", begin, domain.ErrNotFound)
			return
		}
		ms.observe("delete", begin, err)
	}(time.Now())
	return ms.svc.Delete(ctx, id)
}
