package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"boca_backend/internal/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrContestNameTaken 唯一索引冲突（并发创建同名比赛）
	ErrContestNameTaken = errors.New("contest name already taken")
	// ErrSequenceConflict 主键冲突，比赛编号已被其它请求占用
	ErrSequenceConflict = errors.New("contest number already allocated")
)

// ContestStore 比赛存储的抽象。查询不到时返回 nil, nil；error 只表示存储故障
type ContestStore interface {
	FindByName(ctx context.Context, name string) (*model.Contest, error)
	List(ctx context.Context) ([]model.Contest, error)
	GetByID(ctx context.Context, number int) (*model.Contest, error)
	// GetLastID 返回最大的比赛编号，表为空时 found 为 false
	GetLastID(ctx context.Context) (last int, found bool, err error)
	Create(ctx context.Context, contest *model.Contest) error
	// Update 只写入 upd 中非 nil 的字段，返回更新后的记录
	Update(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error)
	Delete(ctx context.Context, number int) error
	FindActive(ctx context.Context) (*model.Contest, error)
	// Activate 将指定比赛设为唯一激活的比赛
	Activate(ctx context.Context, number int) error
	// Transaction 在同一个事务中执行 fn
	Transaction(ctx context.Context, fn func(store ContestStore) error) error
}

// ContestRepository 基于 gorm 的比赛存储
type ContestRepository struct {
	DB   *gorm.DB
	inTx bool
}

func NewContestRepository(db *gorm.DB) *ContestRepository {
	return &ContestRepository{DB: db}
}

// FindByName 按名称精确查找
func (r *ContestRepository) FindByName(ctx context.Context, name string) (*model.Contest, error) {
	var contest model.Contest
	err := r.DB.WithContext(ctx).Where("contestname = ?", name).Take(&contest).Error
	return found(&contest, err)
}

func (r *ContestRepository) List(ctx context.Context) ([]model.Contest, error) {
	var contests []model.Contest
	err := r.DB.WithContext(ctx).Order("contestnumber asc").Find(&contests).Error
	return contests, err
}

func (r *ContestRepository) GetByID(ctx context.Context, number int) (*model.Contest, error) {
	var contest model.Contest
	err := r.DB.WithContext(ctx).Where("contestnumber = ?", number).Take(&contest).Error
	return found(&contest, err)
}

// GetLastID 在事务中会加锁读取，保证编号分配串行
func (r *ContestRepository) GetLastID(ctx context.Context) (int, bool, error) {
	var last sql.NullInt64
	q := r.DB.WithContext(ctx).Model(&model.Contest{})
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Select("MAX(contestnumber)").Row().Scan(&last); err != nil {
		return 0, false, fmt.Errorf("ContestRepository.GetLastID: %w", err)
	}
	if !last.Valid {
		return 0, false, nil
	}
	return int(last.Int64), true, nil
}

func (r *ContestRepository) Create(ctx context.Context, contest *model.Contest) error {
	if err := r.DB.WithContext(ctx).Create(contest).Error; err != nil {
		return classifyDuplicate(err)
	}
	return nil
}

func (r *ContestRepository) Update(ctx context.Context, number int, upd model.ContestUpdate) (*model.Contest, error) {
	cols := upd.Columns()
	cols["updatetime"] = time.Now().Unix()

	err := r.DB.WithContext(ctx).Model(&model.Contest{}).
		Where("contestnumber = ?", number).
		Updates(cols).Error
	if err != nil {
		return nil, classifyDuplicate(err)
	}
	return r.GetByID(ctx, number)
}

func (r *ContestRepository) Delete(ctx context.Context, number int) error {
	return r.DB.WithContext(ctx).Where("contestnumber = ?", number).Delete(&model.Contest{}).Error
}

func (r *ContestRepository) FindActive(ctx context.Context) (*model.Contest, error) {
	var contest model.Contest
	err := r.DB.WithContext(ctx).Where("contestactive = ?", true).Order("contestnumber asc").Take(&contest).Error
	return found(&contest, err)
}

func (r *ContestRepository) Activate(ctx context.Context, number int) error {
	return r.withTx(ctx, func(tx *gorm.DB) error {
		now := time.Now().Unix()
		err := tx.Model(&model.Contest{}).
			Where("contestactive = ? AND contestnumber <> ?", true, number).
			Updates(map[string]interface{}{"contestactive": false, "updatetime": now}).Error
		if err != nil {
			return err
		}
		return tx.Model(&model.Contest{}).
			Where("contestnumber = ?", number).
			Updates(map[string]interface{}{"contestactive": true, "updatetime": now}).Error
	})
}

func (r *ContestRepository) Transaction(ctx context.Context, fn func(store ContestStore) error) error {
	return r.withTx(ctx, func(tx *gorm.DB) error {
		return fn(&ContestRepository{DB: tx, inTx: true})
	})
}

func (r *ContestRepository) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if r.inTx {
		return fn(r.DB.WithContext(ctx))
	}
	return r.DB.WithContext(ctx).Transaction(fn)
}

func found(contest *model.Contest, err error) (*model.Contest, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contest, nil
}

// classifyDuplicate 将 MySQL 1062 错误区分为名称冲突和编号冲突
func classifyDuplicate(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		if strings.Contains(myErr.Message, "contestname") {
			return fmt.Errorf("%w: %s", ErrContestNameTaken, myErr.Message)
		}
		return fmt.Errorf("%w: %s", ErrSequenceConflict, myErr.Message)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrSequenceConflict, err)
	}
	return err
}
