package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slambook_backend/internal/feature/entries/domain/entity"
	"slambook_backend/internal/feature/entries/usecase"
)

// entryGorm はEntryRepositoryインターフェースのGORM実装です。
type entryGorm struct {
	db *gorm.DB
}

// entryGormがEntryRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.EntryRepository = (*entryGorm)(nil)

// NewEntryGorm は指定されたgorm.DB接続でentryGormを生成します。
func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// Create はUUIDを割り当ててエントリを保存し、タイムスタンプを e に反映します。
func (r *entryGorm) Create(ctx context.Context, e *entity.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m := toModel(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	e.CreatedAt = m.CreatedAt
	e.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID はIDでエントリを取得します。
// 存在しない場合、usecase.ErrEntryNotFoundを返します。
func (r *entryGorm) FindByID(ctx context.Context, id string) (*entity.Entry, error) {
	var m EntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// ListByUser はユーザーのエントリを作成順に offset/limit で返します。
func (r *entryGorm) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.Entry, error) {
	var models []EntryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toEntities(models), nil
}

// ListAllByUser はユーザーの全エントリを作成順に返します。
func (r *entryGorm) ListAllByUser(ctx context.Context, userID string) ([]*entity.Entry, error) {
	var models []EntryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toEntities(models), nil
}

// Update は全カラムを保存します。UpdatedAtはGORMが更新します。
// 呼び出し側はトランザクション内で FindByID 済みであること。
func (r *entryGorm) Update(ctx context.Context, e *entity.Entry) error {
	m := toModel(e)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	e.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete はエントリを削除します。
func (r *entryGorm) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&EntryModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrEntryNotFound
	}
	return nil
}

// Transaction は fn をトランザクション内で実行します。fn がエラーを返すとロールバックします。
func (r *entryGorm) Transaction(ctx context.Context, fn func(repo usecase.EntryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&entryGorm{db: tx})
	})
}

func toEntities(models []EntryModel) []*entity.Entry {
	out := make([]*entity.Entry, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out
}
