package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"boca_backend/internal/model"
)

// MemoryContestRepository 内存实现，用于 database.driver=memory 以及测试
type MemoryContestRepository struct {
	mu       sync.RWMutex
	contests map[int]model.Contest
	now      func() time.Time
}

func NewMemoryContestRepository() *MemoryContestRepository {
	return &MemoryContestRepository{
		contests: make(map[int]model.Contest),
		now:      time.Now,
	}
}

func (r *MemoryContestRepository) FindByName(ctx context.Context, name string) (*model.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.contests {
		if c.ContestName == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryContestRepository) List(ctx context.Context) ([]model.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contests := make([]model.Contest, 0, len(r.contests))
	for _, c := range r.contests {
		contests = append(contests, c)
	}
	sort.Slice(contests, func(i, j int) bool {
		return contests[i].ContestNumber < contests[j].ContestNumber
	})
	return contests, nil
}

func (r *MemoryContestRepository) GetByID(ctx context.Context, number int) (*model.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contests[number]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryContestRepository) GetLastID(ctx context.Context) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	last, found := 0, false
	for n := range r.contests {
		if !found || n > last {
			last, found = n, true
		}
	}
	return last, found, nil
}

func (r *MemoryContestRepository) Create(ctx context.Context, contest *model.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(contest)
}

func (r *MemoryContestRepository) create(contest *model.Contest) error {
	if _, ok := r.contests[contest.ContestNumber]; ok {
		return ErrSequenceConflict
	}
	for _, c := range r.contests {
		if c.ContestName == contest.ContestName {
			return ErrContestNameTaken
		}
	}
	contest.UpdateTime = r.now().Unix()
	r.contests[contest.ContestNumber] = *contest
	return nil
}

func (r *MemoryContestRepository) Update(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(number, upd)
}

func (r *MemoryContestRepository) update(number int, upd model.ContestUpdate) (*model.Contest, error) {
	c, ok := r.contests[number]
	if !ok {
		return nil, nil
	}
	if v := upd.ContestName; v != nil {
		for n, other := range r.contests {
			if n != number && other.ContestName == *v {
				return nil, ErrContestNameTaken
			}
		}
	}
	upd.Apply(&c)
	c.UpdateTime = r.now().Unix()
	r.contests[number] = c
	return &c, nil
}

func (r *MemoryContestRepository) Delete(ctx context.Context, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contests, number)
	return nil
}

func (r *MemoryContestRepository) FindActive(ctx context.Context) (*model.Contest, error) {
	contests, _ := r.List(ctx)
	for _, c := range contests {
		if c.ContestActive {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryContestRepository) Activate(ctx context.Context, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activate(number)
	return nil
}

func (r *MemoryContestRepository) activate(number int) {
	now := r.now().Unix()
	for n, c := range r.contests {
		active := n == number
		if c.ContestActive != active {
			c.ContestActive = active
			c.UpdateTime = now
			r.contests[n] = c
		}
	}
}

// Transaction fn 返回错误时只恢复事务内写过的记录，期间其它请求的写入保留
func (r *MemoryContestRepository) Transaction(ctx context.Context, fn func(store ContestStore) error) error {
	tx := &memoryTx{MemoryContestRepository: r, before: make(map[int]*model.Contest)}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// memoryTx 记录每条被修改记录的原值，nil 表示原来不存在
type memoryTx struct {
	*MemoryContestRepository
	before map[int]*model.Contest
}

// remember 需持有 mu
func (t *memoryTx) remember(number int) {
	if _, ok := t.before[number]; ok {
		return
	}
	if c, ok := t.contests[number]; ok {
		t.before[number] = &c
		return
	}
	t.before[number] = nil
}

func (t *memoryTx) Create(ctx context.Context, contest *model.Contest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remember(contest.ContestNumber)
	return t.create(contest)
}

func (t *memoryTx) Update(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remember(number)
	return t.update(number, upd)
}

func (t *memoryTx) Delete(ctx context.Context, number int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remember(number)
	delete(t.contests, number)
	return nil
}

func (t *memoryTx) Activate(ctx context.Context, number int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for n, c := range t.contests {
		if c.ContestActive != (n == number) {
			t.remember(n)
		}
	}
	t.activate(number)
	return nil
}

func (t *memoryTx) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for n, c := range t.before {
		if c == nil {
			delete(t.contests, n)
			continue
		}
		t.contests[n] = *c
	}
}
