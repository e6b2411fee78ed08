package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"boca_backend/internal/model"
	"boca_backend/internal/util"
	"boca_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedContestRepository 在 Redis 中缓存按编号查询的结果，写操作后删除缓存
type CachedContestRepository struct {
	ContestStore
	Redis *redis.Client
	TTL   time.Duration

	// 事务内记录被修改的编号，提交后再清一次缓存
	touched *[]int
}

func NewCachedContestRepository(store ContestStore, rdb *redis.Client, ttl time.Duration) *CachedContestRepository {
	return &CachedContestRepository{ContestStore: store, Redis: rdb, TTL: ttl}
}

func cacheKey(number int) string {
	return util.ContestCacheKeyPrefix + strconv.Itoa(number)
}

func (r *CachedContestRepository) GetByID(ctx context.Context, number int) (*model.Contest, error) {
	key := cacheKey(number)
	val, err := r.Redis.Get(ctx, key).Result()
	if err == nil {
		var contest model.Contest
		if err := json.Unmarshal([]byte(val), &contest); err == nil {
			return &contest, nil
		}
	} else if err != redis.Nil {
		// 缓存不可用时直接回源
		logger.Log.Warn("contest cache read failed", zap.Int("contest", number), zap.Error(err))
	}

	contest, err := r.ContestStore.GetByID(ctx, number)
	if err != nil || contest == nil {
		return contest, err
	}
	if data, err := json.Marshal(contest); err == nil {
		if err := r.Redis.Set(ctx, key, data, r.TTL).Err(); err != nil {
			logger.Log.Warn("contest cache write failed", zap.Int("contest", number), zap.Error(err))
		}
	}
	return contest, nil
}

func (r *CachedContestRepository) Create(ctx context.Context, contest *model.Contest) error {
	if err := r.ContestStore.Create(ctx, contest); err != nil {
		return err
	}
	r.evict(ctx, contest.ContestNumber)
	return nil
}

func (r *CachedContestRepository) Update(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error) {
	contest, err := r.ContestStore.Update(ctx, number, upd)
	r.evict(ctx, number)
	return contest, err
}

func (r *CachedContestRepository) Delete(ctx context.Context, number int) error {
	err := r.ContestStore.Delete(ctx, number)
	r.evict(ctx, number)
	return err
}

// Activate 会修改多条记录的 contestactive，需要清理全部比赛缓存
func (r *CachedContestRepository) Activate(ctx context.Context, number int) error {
	err := r.ContestStore.Activate(ctx, number)
	contests, listErr := r.ContestStore.List(ctx)
	if listErr != nil {
		logger.Log.Warn("contest cache flush failed", zap.Error(listErr))
		return err
	}
	numbers := make([]int, 0, len(contests))
	for _, c := range contests {
		numbers = append(numbers, c.ContestNumber)
	}
	r.evict(ctx, numbers...)
	return err
}

func (r *CachedContestRepository) Transaction(ctx context.Context, fn func(store ContestStore) error) error {
	var touched []int
	err := r.ContestStore.Transaction(ctx, func(store ContestStore) error {
		return fn(&CachedContestRepository{ContestStore: store, Redis: r.Redis, TTL: r.TTL, touched: &touched})
	})
	r.evict(ctx, touched...)
	return err
}

func (r *CachedContestRepository) evict(ctx context.Context, numbers ...int) {
	if len(numbers) == 0 {
		return
	}
	if r.touched != nil {
		*r.touched = append(*r.touched, numbers...)
	}
	keys := make([]string, len(numbers))
	for i, n := range numbers {
		keys[i] = cacheKey(n)
	}
	if err := r.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("contest cache evict failed", zap.Ints("contests", numbers), zap.Error(err))
	}
}
