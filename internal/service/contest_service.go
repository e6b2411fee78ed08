package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"boca_backend/internal/model"
	"boca_backend/internal/repository"
	"boca_backend/internal/util"
	"boca_backend/pkg/lock"
	"boca_backend/pkg/logger"
	"boca_backend/pkg/monitoring"
	"boca_backend/pkg/tracing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	msgContestNotFound = "Contest does not exist"
	msgContestExists   = "Contest already exists"
	msgMissingProps    = "Missing properties"
)

type ContestService struct {
	Repo repository.ContestStore
	Lock lock.Locker
	// Retries 编号冲突时创建的最大尝试次数
	Retries int
}

func NewContestService(repo repository.ContestStore, locker lock.Locker, retries int) *ContestService {
	if retries < 1 {
		retries = 1
	}
	return &ContestService{
		Repo:    repo,
		Lock:    locker,
		Retries: retries,
	}
}

// CreateContestRequest 创建比赛的参数，数值字段为 nil 表示未提供，0 是合法值
type CreateContestRequest struct {
	ContestName           string  `json:"contestname" example:"Regional 2024"`
	ContestStartDate      *int64  `json:"conteststartdate" example:"1700000000"`
	ContestDuration       *int    `json:"contestduration" example:"18000"`
	ContestLastMileAnswer *int    `json:"contestlastmileanswer,omitempty"`
	ContestLastMileScore  *int    `json:"contestlastmilescore,omitempty"`
	ContestLocalSite      *int    `json:"contestlocalsite" example:"1"`
	ContestPenalty        *int    `json:"contestpenalty" example:"1200"`
	ContestMaxFileSize    *int    `json:"contestmaxfilesize" example:"100000"`
	ContestMainSite       *int    `json:"contestmainsite" example:"1"`
	ContestKeys           *string `json:"contestkeys,omitempty"`
	ContestUnlockKey      *string `json:"contestunlockkey,omitempty"`
	ContestMainSiteURL    *string `json:"contestmainsiteurl,omitempty"`
}

func (r CreateContestRequest) missing() bool {
	return r.ContestStartDate == nil || r.ContestDuration == nil || r.ContestLocalSite == nil ||
		r.ContestMainSite == nil || r.ContestPenalty == nil || r.ContestMaxFileSize == nil
}

// toContest 填充默认值，调用前需保证必填字段存在
func (r CreateContestRequest) toContest(name string) model.Contest {
	c := model.Contest{
		ContestName:           name,
		ContestStartDate:      *r.ContestStartDate,
		ContestDuration:       *r.ContestDuration,
		ContestLastMileAnswer: *r.ContestDuration,
		ContestLastMileScore:  *r.ContestDuration,
		ContestLocalSite:      *r.ContestLocalSite,
		ContestPenalty:        *r.ContestPenalty,
		ContestMaxFileSize:    *r.ContestMaxFileSize,
		ContestActive:         false,
		ContestMainSite:       *r.ContestMainSite,
	}
	if r.ContestLastMileAnswer != nil {
		c.ContestLastMileAnswer = *r.ContestLastMileAnswer
	}
	if r.ContestLastMileScore != nil {
		c.ContestLastMileScore = *r.ContestLastMileScore
	}
	if r.ContestKeys != nil {
		c.ContestKeys = *r.ContestKeys
	}
	if r.ContestUnlockKey != nil {
		c.ContestUnlockKey = *r.ContestUnlockKey
	}
	if r.ContestMainSiteURL != nil {
		c.ContestMainSiteURL = *r.ContestMainSiteURL
	}
	return c
}

// CreateContest 创建比赛，编号为当前最大编号加一。
// 名称重复返回 util.ErrAlreadyExists，字段缺失或非法返回 util.ErrBadRequest。
// 编号冲突时最多尝试 Retries 次，仍冲突则原样返回 repository.ErrSequenceConflict（HandleError 映射为 500），
// 其它存储错误同样原样返回。
func (s *ContestService) CreateContest(ctx context.Context, req CreateContestRequest) (*model.Contest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.CreateContest")
	defer span.End()

	contest, err := s.createContest(ctx, req)
	if contest != nil {
		span.SetAttributes(attribute.Int("contest.number", contest.ContestNumber))
	}
	observe(span, "create", err)
	return contest, err
}

func (s *ContestService) createContest(ctx context.Context, req CreateContestRequest) (*model.Contest, error) {
	name := strings.TrimSpace(req.ContestName)
	if name == "" {
		return nil, util.BadRequestf("Invalid contest name")
	}

	existing, err := s.Repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.AlreadyExistsf(msgContestExists)
	}

	if req.missing() {
		return nil, util.BadRequestf(msgMissingProps)
	}
	candidate := req.toContest(name)

	unlock, err := s.Lock.Lock(ctx, util.ContestCreateLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *model.Contest
	for attempt := 1; ; attempt++ {
		err = s.Repo.Transaction(ctx, func(store repository.ContestStore) error {
			// 持锁后重新检查，避免与锁外的检查之间出现并发插入
			existing, err := store.FindByName(ctx, name)
			if err != nil {
				return err
			}
			if existing != nil {
				return util.AlreadyExistsf(msgContestExists)
			}

			last, _, err := store.GetLastID(ctx)
			if err != nil {
				return err
			}
			contest := candidate
			contest.ContestNumber = last + 1
			if err := contest.Validate(); err != nil {
				return validationError(err)
			}
			if err := store.Create(ctx, &contest); err != nil {
				return err
			}
			created = &contest
			return nil
		})
		if errors.Is(err, repository.ErrSequenceConflict) && attempt < s.Retries {
			logger.Log.Warn("contest number conflict, retrying",
				zap.Int("attempt", attempt),
				zap.String("contest", name),
			)
			continue
		}
		break
	}

	switch {
	case errors.Is(err, repository.ErrContestNameTaken):
		return nil, util.AlreadyExistsf(msgContestExists)
	case err != nil:
		return nil, err
	}

	logger.Log.Info("contest created",
		zap.Int("contest", created.ContestNumber),
		zap.String("name", created.ContestName),
	)
	return created, nil
}

// UpdateContest 部分更新。contestkeys 为空字符串时视为不修改，兼容旧客户端
func (s *ContestService) UpdateContest(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.UpdateContest",
		trace.WithAttributes(attribute.Int("contest.number", number)))
	defer span.End()

	contest, err := s.updateContest(ctx, number, upd)
	observe(span, "update", err)
	return contest, err
}

func (s *ContestService) updateContest(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error) {
	current, err := s.Repo.GetByID(ctx, number)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, util.NotFoundf(msgContestNotFound)
	}

	if upd.ContestKeys != nil && *upd.ContestKeys == "" {
		upd.ContestKeys = nil
	}
	if upd.ContestName != nil {
		name := strings.TrimSpace(*upd.ContestName)
		if name == "" {
			return nil, util.BadRequestf("Invalid contest name")
		}
		upd.ContestName = &name
	}
	if upd.Empty() {
		return current, nil
	}

	if upd.ContestName != nil && *upd.ContestName != current.ContestName {
		other, err := s.Repo.FindByName(ctx, *upd.ContestName)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ContestNumber != number {
			return nil, util.AlreadyExistsf(msgContestExists)
		}
	}

	merged := *current
	upd.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, validationError(err)
	}

	updated, err := s.Repo.Update(ctx, number, upd)
	if errors.Is(err, repository.ErrContestNameTaken) {
		return nil, util.AlreadyExistsf(msgContestExists)
	}
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// 检查之后被并发删除
		return nil, util.NotFoundf(msgContestNotFound)
	}
	return updated, nil
}

// DeleteContest 物理删除，不级联删除关联数据
func (s *ContestService) DeleteContest(ctx context.Context, number int) error {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.DeleteContest",
		trace.WithAttributes(attribute.Int("contest.number", number)))
	defer span.End()

	err := s.deleteContest(ctx, number)
	observe(span, "delete", err)
	return err
}

func (s *ContestService) deleteContest(ctx context.Context, number int) error {
	contest, err := s.Repo.GetByID(ctx, number)
	if err != nil {
		return err
	}
	if contest == nil {
		return util.NotFoundf(msgContestNotFound)
	}
	if err := s.Repo.Delete(ctx, number); err != nil {
		return err
	}
	logger.Log.Info("contest deleted", zap.Int("contest", number))
	return nil
}

func (s *ContestService) GetContest(ctx context.Context, number int) (*model.Contest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.GetContest",
		trace.WithAttributes(attribute.Int("contest.number", number)))
	defer span.End()

	contest, err := s.Repo.GetByID(ctx, number)
	if err == nil && contest == nil {
		err = util.NotFoundf(msgContestNotFound)
	}
	observe(span, "get", err)
	if err != nil {
		return nil, err
	}
	return contest, nil
}

func (s *ContestService) ListContests(ctx context.Context) ([]model.Contest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.ListContests")
	defer span.End()

	contests, err := s.Repo.List(ctx)
	observe(span, "list", err)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}

// ActivateContest 将比赛设为当前激活的比赛，其它比赛全部取消激活
func (s *ContestService) ActivateContest(ctx context.Context, number int) (*model.Contest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.ActivateContest",
		trace.WithAttributes(attribute.Int("contest.number", number)))
	defer span.End()

	contest, err := s.activateContest(ctx, number)
	observe(span, "activate", err)
	return contest, err
}

func (s *ContestService) activateContest(ctx context.Context, number int) (*model.Contest, error) {
	contest, err := s.Repo.GetByID(ctx, number)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, util.NotFoundf(msgContestNotFound)
	}
	if err := s.Repo.Activate(ctx, number); err != nil {
		return nil, err
	}
	contest, err = s.Repo.GetByID(ctx, number)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, util.NotFoundf(msgContestNotFound)
	}
	logger.Log.Info("contest activated", zap.Int("contest", number))
	return contest, nil
}

func (s *ContestService) ActiveContest(ctx context.Context) (*model.Contest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ContestService.ActiveContest")
	defer span.End()

	contest, err := s.Repo.FindActive(ctx)
	if err == nil && contest == nil {
		err = util.NotFoundf("No active contest")
	}
	observe(span, "active", err)
	if err != nil {
		return nil, err
	}
	return contest, nil
}

// validationError 取按字段名排序后的第一条校验错误
func validationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return util.BadRequestf("%s", err.Error())
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return util.BadRequestf("%s: %s", fields[0], errs[fields[0]].Error())
}

func observe(span trace.Span, operation string, err error) {
	result := resultLabel(err)
	monitoring.ContestOperations.WithLabelValues(operation, result).Inc()
	if err != nil {
		span.SetAttributes(attribute.String("contest.result", result))
		if result == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("%s failed", operation))
		}
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrBadRequest):
		return "bad_request"
	case errors.Is(err, util.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, util.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
