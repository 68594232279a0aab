package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"slambook_backend/internal/feature/entries/domain/entity"
)

// EntryRepository はエントリの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type EntryRepository interface {
	// Create はIDを割り当ててエントリを保存します。
	Create(ctx context.Context, e *entity.Entry) error

	// FindByID はIDでエントリを取得します。存在しない場合はErrEntryNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Entry, error)

	// ListByUser は作成順（created_at, id 昇順）でユーザーのエントリを返します。
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.Entry, error)

	// ListAllByUser はユーザーの全エントリを返します（統計用）。
	ListAllByUser(ctx context.Context, userID string) ([]*entity.Entry, error)

	// Update は全フィールドを保存し、UpdatedAtを更新します。
	Update(ctx context.Context, e *entity.Entry) error

	// Delete はエントリを削除します。
	Delete(ctx context.Context, id string) error

	// Transaction は fn を1つのトランザクション内で実行します。
	// fn に渡されるリポジトリはそのトランザクションに束縛されます。
	Transaction(ctx context.Context, fn func(repo EntryRepository) error) error
}

// StatisticsCache はユーザーごとの統計をキャッシュします（ベストエフォート）。
// 無効化のたびに世代番号が進み、古い世代で集計した統計は保存されません。
type StatisticsCache interface {
	// Get はキャッシュ済みの統計を返します。ミスや障害時は ok=false です。
	Get(ctx context.Context, userID string) (*entity.Statistics, bool)

	// Generation はユーザーの現在の世代番号を返します。集計前に読み取ります。
	Generation(ctx context.Context, userID string) (int64, error)

	// Set は gen が現在の世代と一致する場合のみ統計を保存します。
	Set(ctx context.Context, userID string, gen int64, stats *entity.Statistics) error

	// Invalidate は世代番号を進め、キャッシュ済みの統計を削除します。
	Invalidate(ctx context.Context, userID string) error
}

// entryUsecase はエントリのビジネスロジックを実装します。
// すべての操作は呼び出し元ユーザー（owner）の所有権を検証します。
type entryUsecase struct {
	repo  EntryRepository
	cache StatisticsCache
}

// NewEntryUsecase は entryUsecase を生成します。cache は nil でもよい。
func NewEntryUsecase(repo EntryRepository, cache StatisticsCache) *entryUsecase {
	return &entryUsecase{repo: repo, cache: cache}
}

// List はユーザーのエントリを作成順に返します。
func (u *entryUsecase) List(ctx context.Context, ownerID string, skip, limit int) ([]*entity.Entry, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid page: skip=%d limit=%d", skip, limit)
	}
	if limit == 0 {
		return []*entity.Entry{}, nil
	}
	entries, err := u.repo.ListByUser(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Get は所有者のエントリを1件返します。
func (u *entryUsecase) Get(ctx context.Context, ownerID, id string) (*entity.Entry, error) {
	return ownedEntry(ctx, u.repo, ownerID, id)
}

// Create は新しいエントリを作成します。所有者は常に ownerID です。
func (u *entryUsecase) Create(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error) {
	e := &entity.Entry{UserID: ownerID}
	fields.ApplyTo(e)
	if err := u.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	u.invalidate(ctx, ownerID)
	return e, nil
}

// Update はエントリの全内容フィールドを置き換えます。
func (u *entryUsecase) Update(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error) {
	var updated *entity.Entry
	err := u.repo.Transaction(ctx, func(repo EntryRepository) error {
		e, err := ownedEntry(ctx, repo, ownerID, id)
		if err != nil {
			return err
		}
		fields.ApplyTo(e)
		if err := repo.Update(ctx, e); err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx, ownerID)
	return updated, nil
}

// Delete はエントリを削除します。
func (u *entryUsecase) Delete(ctx context.Context, ownerID, id string) error {
	err := u.repo.Transaction(ctx, func(repo EntryRepository) error {
		if _, err := ownedEntry(ctx, repo, ownerID, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	u.invalidate(ctx, ownerID)
	return nil
}

// ToggleFavorite はお気に入りフラグを反転して保存します。
func (u *entryUsecase) ToggleFavorite(ctx context.Context, ownerID, id string) (*entity.Entry, error) {
	var updated *entity.Entry
	err := u.repo.Transaction(ctx, func(repo EntryRepository) error {
		e, err := ownedEntry(ctx, repo, ownerID, id)
		if err != nil {
			return err
		}
		e.IsFavorite = !e.IsFavorite
		if err := repo.Update(ctx, e); err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx, ownerID)
	return updated, nil
}

// Statistics はユーザーのエントリ統計を返します。
// キャッシュがあればそれを使い、なければストアから集計してキャッシュします。
func (u *entryUsecase) Statistics(ctx context.Context, ownerID string) (*entity.Statistics, error) {
	if u.cache != nil {
		if stats, ok := u.cache.Get(ctx, ownerID); ok {
			return stats, nil
		}
	}

	// 集計中に無効化が入った場合に古い統計を書き戻さないよう、世代を先に読む
	cacheable := false
	var gen int64
	if u.cache != nil {
		g, err := u.cache.Generation(ctx, ownerID)
		if err != nil {
			slog.Warn("failed to read statistics generation", "error", err, "user_id", ownerID)
		} else {
			gen, cacheable = g, true
		}
	}

	entries, err := u.repo.ListAllByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for statistics: %w", err)
	}
	stats := entity.NewStatistics(entries)

	if cacheable {
		if err := u.cache.Set(ctx, ownerID, gen, stats); err != nil {
			slog.Warn("failed to cache statistics", "error", err, "user_id", ownerID)
		}
	}
	return stats, nil
}

// ownedEntry は存在確認（404）の後に所有権確認（403）を行います。
func ownedEntry(ctx context.Context, repo EntryRepository, ownerID, id string) (*entity.Entry, error) {
	e, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != ownerID {
		return nil, ErrForbidden
	}
	return e, nil
}

func (u *entryUsecase) invalidate(ctx context.Context, ownerID string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx, ownerID); err != nil {
		slog.Warn("failed to invalidate statistics cache", "error", err, "user_id", ownerID)
	}
}
