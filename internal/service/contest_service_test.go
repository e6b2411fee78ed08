package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"boca_backend/internal/model"
	"boca_backend/internal/repository"
	"boca_backend/internal/util"
	"boca_backend/pkg/lock"

	"github.com/matryer/is"
)

func iPtr(i int) *int       { return &i }
func i64Ptr(i int64) *int64 { return &i }
func sPtr(s string) *string { return &s }

var ctx = context.Background()

func newTestService() (*ContestService, *repository.MemoryContestRepository) {
	repo := repository.NewMemoryContestRepository()
	return NewContestService(repo, lock.NewLocalLocker(), 3), repo
}

func validRequest(name string) CreateContestRequest {
	return CreateContestRequest{
		ContestName:        name,
		ContestStartDate:   i64Ptr(1700000000),
		ContestDuration:    iPtr(300),
		ContestLocalSite:   iPtr(1),
		ContestPenalty:     iPtr(0),
		ContestMaxFileSize: iPtr(100000),
		ContestMainSite:    iPtr(1),
	}
}

func TestCreateContestAssignsSequence(t *testing.T) {
	is := is.New(t)
	svc, repo := newTestService()

	c, err := svc.CreateContest(ctx, validRequest("First"))
	is.NoErr(err)
	is.Equal(c.ContestNumber, 1) // empty table starts at 1

	// 编号为已有最大值加一，不填补空洞
	is.NoErr(repo.Create(ctx, &model.Contest{ContestNumber: 7, ContestName: "Seven"}))
	c, err = svc.CreateContest(ctx, validRequest("Next"))
	is.NoErr(err)
	is.Equal(c.ContestNumber, 8)
}

func TestCreateContestDefaults(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()

	c, err := svc.CreateContest(ctx, validRequest("  Regional  "))
	is.NoErr(err)
	is.Equal(c.ContestName, "Regional")
	is.Equal(c.ContestLastMileAnswer, 300)
	is.Equal(c.ContestLastMileScore, 300)
	is.Equal(c.ContestPenalty, 0)
	is.Equal(c.ContestKeys, "")
	is.Equal(c.ContestUnlockKey, "")
	is.Equal(c.ContestMainSiteURL, "")
	is.True(!c.ContestActive)

	req := validRequest("Explicit")
	req.ContestLastMileAnswer = iPtr(0)
	req.ContestLastMileScore = iPtr(240)
	req.ContestKeys = sPtr("k1")
	c, err = svc.CreateContest(ctx, req)
	is.NoErr(err)
	is.Equal(c.ContestLastMileAnswer, 0)
	is.Equal(c.ContestLastMileScore, 240)
	is.Equal(c.ContestKeys, "k1")
}

func TestCreateContestRoundTrip(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()

	created, err := svc.CreateContest(ctx, validRequest("Round trip"))
	is.NoErr(err)
	got, err := svc.GetContest(ctx, created.ContestNumber)
	is.NoErr(err)
	is.Equal(*got, *created)
}

func TestCreateContestDuplicateName(t *testing.T) {
	is := is.New(t)
	svc, repo := newTestService()

	_, err := svc.CreateContest(ctx, validRequest("Finals"))
	is.NoErr(err)
	before, _ := repo.List(ctx)

	_, err = svc.CreateContest(ctx, validRequest(" Finals "))
	is.True(errors.Is(err, util.ErrAlreadyExists))

	after, _ := repo.List(ctx)
	is.Equal(after, before) // store untouched
}

func TestCreateContestBlankName(t *testing.T) {
	is := is.New(t)
	svc, repo := newTestService()

	_, err := svc.CreateContest(ctx, validRequest("   "))
	is.True(errors.Is(err, util.ErrBadRequest))
	list, _ := repo.List(ctx)
	is.Equal(len(list), 0)
}

func TestCreateContestMissingProperties(t *testing.T) {
	is := is.New(t)
	svc, repo := newTestService()

	req := validRequest("No duration")
	req.ContestDuration = nil
	_, err := svc.CreateContest(ctx, req)
	is.True(errors.Is(err, util.ErrBadRequest))
	is.Equal(err.Error(), "Missing properties")

	// contestpenalty: 0 不算缺失
	req = validRequest("Zero penalty")
	is.Equal(*req.ContestPenalty, 0)
	_, err = svc.CreateContest(ctx, req)
	is.NoErr(err)

	list, _ := repo.List(ctx)
	is.Equal(len(list), 1)
}

func TestCreateContestFieldValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateContestRequest)
		msg    string
	}{
		{"zero duration", func(r *CreateContestRequest) { r.ContestDuration = iPtr(0) }, "contestduration: must be a positive number"},
		{"negative penalty", func(r *CreateContestRequest) { r.ContestPenalty = iPtr(-1) }, "contestpenalty: must be no less than 0"},
		{"negative start", func(r *CreateContestRequest) { r.ContestStartDate = i64Ptr(-5) }, "conteststartdate: must be no less than 1"},
		{"long unlock key", func(r *CreateContestRequest) { r.ContestUnlockKey = sPtr(string(make([]byte, 101))) }, "contestunlockkey: the length must be no more than 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			svc, repo := newTestService()
			req := validRequest("Invalid")
			tt.mutate(&req)

			_, err := svc.CreateContest(ctx, req)
			is.True(errors.Is(err, util.ErrBadRequest))
			is.Equal(err.Error(), tt.msg)
			list, _ := repo.List(ctx)
			is.Equal(len(list), 0)
		})
	}
}

func TestCreateContestConcurrent(t *testing.T) {
	is := is.New(t)
	svc, repo := newTestService()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.CreateContest(ctx, validRequest(fmt.Sprintf("c%02d", i))); err != nil {
				t.Error(err)
			}
		}(i)
	}
	// 同名并发创建只能成功一次
	dupErrs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateContest(ctx, validRequest("same"))
			dupErrs <- err
		}()
	}
	wg.Wait()
	close(dupErrs)

	succeeded := 0
	for err := range dupErrs {
		if err == nil {
			succeeded++
		} else {
			is.True(errors.Is(err, util.ErrAlreadyExists))
		}
	}
	is.Equal(succeeded, 1)

	list, err := repo.List(ctx)
	is.NoErr(err)
	is.Equal(len(list), n+1)
	for i, c := range list {
		is.Equal(c.ContestNumber, i+1)
	}
}

// conflictingStore 前几次 Create 返回编号冲突
type conflictingStore struct {
	*repository.MemoryContestRepository
	failures int
	calls    int
}

func (s *conflictingStore) Create(ctx context.Context, c *model.Contest) error {
	s.calls++
	if s.failures > 0 {
		s.failures--
		return fmt.Errorf("insert: %w", repository.ErrSequenceConflict)
	}
	return s.MemoryContestRepository.Create(ctx, c)
}

func (s *conflictingStore) Transaction(ctx context.Context, fn func(repository.ContestStore) error) error {
	return s.MemoryContestRepository.Transaction(ctx, func(repository.ContestStore) error {
		return fn(s)
	})
}

func TestCreateContestRetriesSequenceConflict(t *testing.T) {
	is := is.New(t)
	store := &conflictingStore{MemoryContestRepository: repository.NewMemoryContestRepository(), failures: 2}
	svc := NewContestService(store, lock.NewLocalLocker(), 3)

	c, err := svc.CreateContest(ctx, validRequest("Retry"))
	is.NoErr(err)
	is.Equal(c.ContestNumber, 1)
	is.Equal(store.calls, 3)

	store.failures, store.calls = 5, 0
	_, err = svc.CreateContest(ctx, validRequest("Gives up"))
	is.True(errors.Is(err, repository.ErrSequenceConflict)) // storage error passes through
	is.Equal(store.calls, 3)
}

func TestUpdateContest(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()
	req := validRequest("Original")
	req.ContestKeys = sPtr("keep-me")
	created, err := svc.CreateContest(ctx, req)
	is.NoErr(err)

	updated, err := svc.UpdateContest(ctx, created.ContestNumber, model.ContestUpdate{
		ContestName:    sPtr(" Renamed "),
		ContestPenalty: iPtr(15),
		ContestKeys:    sPtr(""),
	})
	is.NoErr(err)
	is.Equal(updated.ContestName, "Renamed")
	is.Equal(updated.ContestPenalty, 15)
	is.Equal(updated.ContestKeys, "keep-me") // empty keys means unchanged
	is.Equal(updated.ContestDuration, 300)

	got, err := svc.GetContest(ctx, created.ContestNumber)
	is.NoErr(err)
	is.Equal(*got, *updated)

	updated, err = svc.UpdateContest(ctx, created.ContestNumber, model.ContestUpdate{ContestKeys: sPtr("new")})
	is.NoErr(err)
	is.Equal(updated.ContestKeys, "new")
}

func TestUpdateContestOnlyEmptyKeys(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()
	req := validRequest("Keys")
	req.ContestKeys = sPtr("abc")
	created, err := svc.CreateContest(ctx, req)
	is.NoErr(err)

	got, err := svc.UpdateContest(ctx, created.ContestNumber, model.ContestUpdate{ContestKeys: sPtr("")})
	is.NoErr(err)
	is.Equal(*got, *created) // nothing written
}

func TestUpdateContestNotFound(t *testing.T) {
	is := is.New(t)
	svc, repo := newTestService()
	_, err := svc.CreateContest(ctx, validRequest("Existing"))
	is.NoErr(err)
	before, _ := repo.List(ctx)

	_, err = svc.UpdateContest(ctx, 42, model.ContestUpdate{ContestPenalty: iPtr(1)})
	is.True(errors.Is(err, util.ErrNotFound))
	is.Equal(err.Error(), "Contest does not exist")

	after, _ := repo.List(ctx)
	is.Equal(after, before)
}

func TestUpdateContestRejections(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()
	a, err := svc.CreateContest(ctx, validRequest("A"))
	is.NoErr(err)
	_, err = svc.CreateContest(ctx, validRequest("B"))
	is.NoErr(err)

	_, err = svc.UpdateContest(ctx, a.ContestNumber, model.ContestUpdate{ContestName: sPtr("B")})
	is.True(errors.Is(err, util.ErrAlreadyExists))

	_, err = svc.UpdateContest(ctx, a.ContestNumber, model.ContestUpdate{ContestName: sPtr("  ")})
	is.True(errors.Is(err, util.ErrBadRequest))

	_, err = svc.UpdateContest(ctx, a.ContestNumber, model.ContestUpdate{ContestMaxFileSize: iPtr(0)})
	is.True(errors.Is(err, util.ErrBadRequest))

	// 保持原名不算冲突
	_, err = svc.UpdateContest(ctx, a.ContestNumber, model.ContestUpdate{ContestName: sPtr("A"), ContestPenalty: iPtr(3)})
	is.NoErr(err)

	got, _ := svc.GetContest(ctx, a.ContestNumber)
	is.Equal(got.ContestName, "A")
	is.Equal(got.ContestMaxFileSize, 100000)
	is.Equal(got.ContestPenalty, 3)
}

func TestDeleteContest(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()
	c, err := svc.CreateContest(ctx, validRequest("Doomed"))
	is.NoErr(err)

	is.NoErr(svc.DeleteContest(ctx, c.ContestNumber))
	_, err = svc.GetContest(ctx, c.ContestNumber)
	is.True(errors.Is(err, util.ErrNotFound))

	err = svc.DeleteContest(ctx, c.ContestNumber)
	is.True(errors.Is(err, util.ErrNotFound))
}

func TestListContests(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()

	list, err := svc.ListContests(ctx)
	is.NoErr(err)
	is.True(list != nil) // serialised as [] rather than null
	is.Equal(len(list), 0)

	for _, name := range []string{"x", "y", "z"} {
		_, err := svc.CreateContest(ctx, validRequest(name))
		is.NoErr(err)
	}
	list, err = svc.ListContests(ctx)
	is.NoErr(err)
	is.Equal(len(list), 3)
	is.Equal(list[2].ContestName, "z")
}

func TestActivateContest(t *testing.T) {
	is := is.New(t)
	svc, _ := newTestService()
	a, _ := svc.CreateContest(ctx, validRequest("A"))
	b, _ := svc.CreateContest(ctx, validRequest("B"))

	_, err := svc.ActiveContest(ctx)
	is.True(errors.Is(err, util.ErrNotFound))

	got, err := svc.ActivateContest(ctx, a.ContestNumber)
	is.NoErr(err)
	is.True(got.ContestActive)

	got, err = svc.ActivateContest(ctx, b.ContestNumber)
	is.NoErr(err)
	is.True(got.ContestActive)

	active, err := svc.ActiveContest(ctx)
	is.NoErr(err)
	is.Equal(active.ContestNumber, b.ContestNumber)

	a, _ = svc.GetContest(ctx, a.ContestNumber)
	is.True(!a.ContestActive)

	_, err = svc.ActivateContest(ctx, 99)
	is.True(errors.Is(err, util.ErrNotFound))
}

type brokenStore struct {
	repository.ContestStore
}

var errStorage = errors.New("connection refused")

func (brokenStore) GetByID(context.Context, int) (*model.Contest, error) { return nil, errStorage }
func (brokenStore) List(context.Context) ([]model.Contest, error)        { return nil, errStorage }

func TestStorageErrorsPropagate(t *testing.T) {
	is := is.New(t)
	svc := NewContestService(brokenStore{repository.NewMemoryContestRepository()}, lock.NewLocalLocker(), 1)

	_, err := svc.GetContest(ctx, 1)
	is.Equal(err, errStorage)
	_, err = svc.ListContests(ctx)
	is.Equal(err, errStorage)
	err = svc.DeleteContest(ctx, 1)
	is.Equal(err, errStorage)
	_, err = svc.UpdateContest(ctx, 1, model.ContestUpdate{ContestPenalty: iPtr(1)})
	is.Equal(err, errStorage)
}
