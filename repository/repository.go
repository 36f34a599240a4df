// Package repository 对接持久层
//
// 每种实体通过 Repository 读写，失败时返回 *NetworkError。
// HTTPRepository 对接 CRUD 风格的 HTTP/JSON 接口，GormRepository 直接读写数据库表，
// MemoryRepository 用于测试和本地数据文件。
package repository

import (
	"context"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/query"
	"github.com/hatlonely/gridx/ref"
	"github.com/pkg/errors"
)

// Namespace 仓储类型注册的命名空间
const Namespace = "github.com/hatlonely/gridx/repository"

func init() {
	ref.MustRegisterT[HTTPRepository](NewHTTPRepositoryWithOptions)
	ref.MustRegisterT[GormRepository](NewGormRepositoryWithOptions)
	ref.MustRegisterT[MemoryRepository](NewMemoryRepositoryWithOptions)
}

// ErrNotFound 记录不存在，与状态码为 404 的 NetworkError 匹配
var ErrNotFound = errors.New("record not found")

// Repository 单个实体类型的持久层
type Repository interface {
	FetchAll(ctx context.Context) ([]grid.Row, error)
	FetchByID(ctx context.Context, id string) (grid.Row, error)
	// Create 返回服务端保存后的记录，其中包含服务端分配的 id
	Create(ctx context.Context, data grid.Row) (grid.Row, error)
	// Update 合并 partial 并返回更新后的记录
	Update(ctx context.Context, id string, partial grid.Row) (grid.Row, error)
	Delete(ctx context.Context, id string) error
	// BulkDelete 返回服务端实际删除的 id
	BulkDelete(ctx context.Context, ids []string) ([]string, error)
}

// Finder 支持服务端筛选的仓储
type Finder interface {
	Find(ctx context.Context, q query.Query) ([]grid.Row, error)
}

// NewRepositoryWithOptions 根据 TypeOptions 创建仓储
func NewRepositoryWithOptions(options *ref.TypeOptions) (Repository, error) {
	if options == nil {
		return nil, errors.New("repository options is nil")
	}
	repo, err := ref.Build[Repository](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.Build failed")
	}
	return repo, nil
}

// Find 在支持服务端筛选的仓储上执行查询，否则拉取全部记录后在内存中求值
func Find(ctx context.Context, repo Repository, q query.Query) ([]grid.Row, error) {
	if finder, ok := repo.(Finder); ok && q != nil {
		return finder.Find(ctx, q)
	}
	rows, err := repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return rows, nil
	}
	out := rows[:0:0]
	for _, row := range rows {
		if q.Match(row) {
			out = append(out, row)
		}
	}
	return out, nil
}
