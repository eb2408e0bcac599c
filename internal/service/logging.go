package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/logger"
	"go-gin-mongo-users/internal/domain"
)

var _ UserService = (*loggingService)(nil)

type loggingService struct {
	log *zap.Logger
	svc UserService
}

// NewLoggingService logs every call with its duration; failures go out at warn level.
func NewLoggingService(svc UserService, l *zap.Logger) UserService {
	return &loggingService{log: l.Named("users"), svc: svc}
}

func (ls *loggingService) done(ctx context.Context, op string, begin time.Time, err error, fields ...zap.Field) {
	l := logger.For(ctx, ls.log)
	fields = append(fields, zap.Duration("duration", time.Since(begin)))
	if err != nil {
		l.Warn(op+" failed", append(fields, zap.Error(err))...)
		return
	}
	l.Info(op+" completed", fields...)
}

func (ls *loggingService) Create(ctx context.Context, name, email string) (u *domain.User, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{zap.String("email", email)}
		if u != nil {
			fields = append(fields, zap.String("id", u.ID))
		}
		ls.done(ctx, "create user", begin, err, fields...)
	}(time.Now())
	return ls.svc.Create(ctx, name, email)
}

func (ls *loggingService) Get(ctx context.Context, id string) (u *domain.User, err error) {
	defer func(begin time.Time) {
		ls.done(ctx, "get user", begin, err, zap.String("id", id))
	}(time.Now())
	return ls.svc.Get(ctx, id)
}

func (ls *loggingService) List(ctx context.Context, skip, limit int) (users []domain.User, total int64, err error) {
	defer func(begin time.Time) {
		ls.done(ctx, "list users", begin, err,
			zap.Int("skip", skip),
			zap.Int("limit", limit),
			zap.Int("returned", len(users)),
			zap.Int64("total", total),
		)
	}(time.Now())
	return ls.svc.List(ctx, skip, limit)
}

func (ls *loggingService) Update(ctx context.Context, id string, patch domain.UserPatch) (u *domain.User, err error) {
	defer func(begin time.Time) {
		ls.done(ctx, "update user", begin, err,
			zap.String("id", id),
			zap.Bool("name_set", patch.Name.Set),
			zap.Bool("email_set", patch.Email.Set),
		)
	}(time.Now())
	return ls.svc.Update(ctx, id, patch)
}

func (ls *loggingService) Delete(ctx context.Context, id string) (deleted bool, err error) {
	defer func(begin time.Time) {
		ls.done(ctx, "delete user", begin, err, zap.String("id", id), zap.Bool("deleted", deleted))
	}(time.Now())
	return ls.svc.Delete(ctx, id)
}
