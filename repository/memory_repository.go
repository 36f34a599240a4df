package repository

import (
	"context"
	"sync"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/query"
	"github.com/hatlonely/gridx/ref"
	"github.com/hatlonely/gridx/uid"
	"github.com/pkg/errors"
)

type MemoryOptions struct {
	IDField string           `cfg:"idField" def:"id"`
	Rows    []map[string]any `cfg:"rows"`
	// IDGenerator 为没有 id 的新记录分配 id，默认从 1 开始递增
	IDGenerator *ref.TypeOptions `cfg:"idGenerator"`
}

// MemoryRepository 内存中的仓储，按插入顺序返回记录
type MemoryRepository struct {
	mu      sync.RWMutex
	idField string
	order   []string
	rows    map[string]grid.Row
	ids     uid.IntGenerator
}

func NewMemoryRepositoryWithOptions(options *MemoryOptions) (*MemoryRepository, error) {
	if options == nil {
		options = &MemoryOptions{}
	}
	idField := options.IDField
	if idField == "" {
		idField = grid.DefaultIDField
	}
	ids, err := uid.NewIntGeneratorWithOptions(options.IDGenerator)
	if err != nil {
		return nil, errors.WithMessage(err, "uid.NewIntGeneratorWithOptions failed")
	}

	r := &MemoryRepository{
		idField: idField,
		rows:    map[string]grid.Row{},
		ids:     ids,
	}
	for _, row := range options.Rows {
		if _, err := r.Create(context.Background(), row); err != nil {
			return nil, errors.WithMessage(err, "load rows failed")
		}
	}
	return r, nil
}

func (r *MemoryRepository) FetchAll(ctx context.Context) ([]grid.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]grid.Row, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) FetchByID(ctx context.Context, id string) (grid.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, notFound(id)
	}
	return row.Clone(), nil
}

func (r *MemoryRepository) Find(ctx context.Context, q query.Query) ([]grid.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []grid.Row
	for _, id := range r.order {
		if row := r.rows[id]; q == nil || q.Match(row) {
			out = append(out, row.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) Create(ctx context.Context, data grid.Row) (grid.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := data.Clone()
	if row == nil {
		row = grid.Row{}
	}
	id := row.ID(r.idField)
	if id == "" {
		for {
			next := r.ids.GenerateInt()
			if _, used := r.rows[grid.FormatID(next)]; !used {
				row[r.idField] = next
				id = grid.FormatID(next)
				break
			}
		}
	}
	if _, ok := r.rows[id]; ok {
		return nil, conflict(id)
	}

	r.rows[id] = row
	r.order = append(r.order, id)
	return row.Clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, partial grid.Row) (grid.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, notFound(id)
	}
	// id 字段不能被修改
	updated := row.Merge(partial).With(r.idField, row[r.idField])
	r.rows[id] = updated
	return updated.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return notFound(id)
	}
	r.remove(id)
	return nil
}

func (r *MemoryRepository) BulkDelete(ctx context.Context, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.rows[id]; !ok {
			continue
		}
		r.remove(id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

func (r *MemoryRepository) remove(id string) {
	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
