package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/grid/column"
	"github.com/hatlonely/gridx/grid/filter"
	"github.com/hatlonely/gridx/grid/validate"
	"github.com/hatlonely/gridx/log"
	"github.com/hatlonely/gridx/log/logger"
	"github.com/hatlonely/gridx/ref"
	"github.com/hatlonely/gridx/repository"
	"github.com/hatlonely/gridx/uid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation 变更类型
type Operation string

const (
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpBulkDelete Operation = "bulk_delete"
	OpRefresh    Operation = "refresh"
)

// Phase 变更所处的阶段
//
//	Idle -> Pending -> Committed
//	             \---> RolledBack
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePending    Phase = "pending"
	PhaseCommitted  Phase = "committed"
	PhaseRolledBack Phase = "rolled_back"
)

// Event 阶段变化事件，IDs 为涉及的行
type Event struct {
	Operation Operation
	Phase     Phase
	IDs       []string
	Err       error
}

// EventListener 阶段变化的订阅者
type EventListener func(event Event)

type MutatorOptions struct {
	// Name 指标前缀和 tracer 名称
	Name string `cfg:"name" def:"gridx"`
	// EnableMetrics 是否记录 prometheus 指标
	EnableMetrics bool `cfg:"enableMetrics" def:"true"`
	// EnableTracing 是否创建 otel span
	EnableTracing bool `cfg:"enableTracing" def:"false"`
	// PushDownFilters 刷新时把能翻译的筛选条件交给仓储执行
	PushDownFilters bool `cfg:"pushDownFilters"`
	// TempID 乐观创建时的临时 id 生成器，默认为带 tmp- 前缀的 uuid
	TempID *ref.TypeOptions `cfg:"tempID"`

	// Table 提供各列的校验规则，为空时不做本地校验
	Table      *column.Table         `cfg:"-"`
	Registerer prometheus.Registerer `cfg:"-"`
	Logger     logger.Logger         `cfg:"-"`
}

// Mutator 通过仓储修改数据并同步到 Store
//
// 每个操作先在本地校验，再乐观地修改 Store，然后调用仓储。
// 仓储失败时恢复被修改的行并返回错误，成功时用仓储返回的数据对齐 Store。
type Mutator struct {
	store    *Store
	repo     repository.Repository
	table    *column.Table
	tempID   uid.Generator
	pushDown bool
	observer *observer
	logger   logger.Logger

	mu        sync.Mutex
	phase     Phase
	listeners []EventListener
}

func NewMutator(store *Store, repo repository.Repository, options *MutatorOptions) (*Mutator, error) {
	if store == nil || repo == nil {
		return nil, errors.New("store and repository are required")
	}
	if options == nil {
		options = &MutatorOptions{}
	}

	tempIDOptions := options.TempID
	if tempIDOptions == nil {
		tempIDOptions = &ref.TypeOptions{
			Namespace: "github.com/hatlonely/gridx/uid",
			Type:      "UUIDGenerator",
			Options:   &uid.UUIDOptions{Prefix: "tmp-"},
		}
	}
	tempID, err := uid.NewGeneratorWithOptions(tempIDOptions)
	if err != nil {
		return nil, errors.WithMessage(err, "uid.NewGeneratorWithOptions failed")
	}

	name := options.Name
	if name == "" {
		name = "gridx"
	}
	l := log.OrDefault(options.Logger).WithGroup("mutator").With("entity", store.Entity())

	obs := &observer{entity: store.Entity(), name: name, logger: l}
	if options.EnableMetrics {
		obs.metrics = newMutationMetrics(name, options.Registerer)
	}
	if options.EnableTracing {
		obs.tracer = newTracer(name)
	}

	return &Mutator{
		store:    store,
		repo:     repo,
		table:    options.Table,
		tempID:   tempID,
		pushDown: options.PushDownFilters,
		observer: obs,
		logger:   l,
		phase:    PhaseIdle,
	}, nil
}

// OnEvent 订阅阶段变化
func (m *Mutator) OnEvent(listener EventListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Phase 最近一次变更所处的阶段
func (m *Mutator) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Mutator) transition(op Operation, phase Phase, ids []string, err error) {
	m.mu.Lock()
	m.phase = phase
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	event := Event{Operation: op, Phase: phase, IDs: slices.Clone(ids), Err: err}
	for _, listener := range listeners {
		listener(event)
	}
}

func (m *Mutator) validate(row grid.Row, fields ...string) error {
	if m.table == nil {
		return nil
	}
	return m.table.Validate(row, fields...)
}

// Refresh 从仓储重新加载数据，后完成的刷新覆盖先完成的
func (m *Mutator) Refresh(ctx context.Context) error {
	return m.observer.observe(ctx, OpRefresh, 0, func(ctx context.Context) error {
		m.transition(OpRefresh, PhasePending, nil, nil)

		rows, err := m.fetch(ctx)
		if err != nil {
			m.transition(OpRefresh, PhaseRolledBack, nil, err)
			return err
		}
		m.store.SetData(rows)
		m.transition(OpRefresh, PhaseCommitted, nil, nil)
		return nil
	})
}

func (m *Mutator) fetch(ctx context.Context) ([]grid.Row, error) {
	if !m.pushDown {
		return m.repo.FetchAll(ctx)
	}
	snapshot := m.store.Snapshot()
	bq, local := filter.ToQuery(snapshot.FilterConditions, filter.Options{CaseSensitive: snapshot.FilterCaseSensitive})
	if len(local) > 0 {
		m.logger.DebugContext(ctx, "conditions evaluated locally", "count", len(local))
	}
	if len(bq.Must) == 0 {
		return m.repo.FetchAll(ctx)
	}
	return repository.Find(ctx, m.repo, bq)
}

// Create 乐观地插入带临时 id 的行，提交后替换为仓储返回的记录
// data 中已经带有 id 时使用该 id 作为临时 id
func (m *Mutator) Create(ctx context.Context, data grid.Row) (grid.Row, error) {
	var saved grid.Row
	err := m.observer.observe(ctx, OpCreate, 1, func(ctx context.Context) error {
		if err := m.validate(data); err != nil {
			return err
		}

		idField := m.store.IDField()
		tempID := data.ID(idField)
		if tempID == "" {
			tempID = m.tempID.Generate()
		}
		before := m.store.capture([]string{tempID})
		m.store.UpsertRow(data.With(idField, tempID))
		m.transition(OpCreate, PhasePending, []string{tempID}, nil)

		row, err := m.repo.Create(ctx, data)
		if err != nil {
			m.store.restore(before)
			m.transition(OpCreate, PhaseRolledBack, []string{tempID}, err)
			return err
		}

		if !m.store.ReplaceRow(tempID, row) {
			m.store.UpsertRow(row)
		}
		saved = row
		m.transition(OpCreate, PhaseCommitted, []string{row.ID(idField)}, nil)
		return nil
	})
	return saved, err
}

// Update 乐观地合并 partial，失败时恢复原行，partial 不能修改 id
func (m *Mutator) Update(ctx context.Context, id string, partial grid.Row) (grid.Row, error) {
	var saved grid.Row
	err := m.observer.observe(ctx, OpUpdate, 1, func(ctx context.Context) error {
		idField := m.store.IDField()
		if v, ok := partial[idField]; ok && grid.FormatID(v) != id {
			return &validate.ValidationError{Messages: []string{
				fmt.Sprintf("%s cannot change from %q to %q", idField, id, grid.FormatID(v)),
			}}
		}

		current, exists := m.store.Row(id)
		if err := m.validate(current.Merge(partial), partial.Fields()...); err != nil {
			return err
		}

		before := m.store.capture([]string{id})
		if exists {
			m.store.ReplaceRow(id, current.Merge(partial))
		}
		m.transition(OpUpdate, PhasePending, []string{id}, nil)

		row, err := m.repo.Update(ctx, id, partial)
		if err != nil {
			m.store.restore(before)
			m.transition(OpUpdate, PhaseRolledBack, []string{id}, err)
			return err
		}

		if !m.store.ReplaceRow(id, row) {
			m.store.UpsertRow(row)
		}
		saved = row
		m.transition(OpUpdate, PhaseCommitted, []string{id}, nil)
		return nil
	})
	return saved, err
}

// Delete 乐观地删除行，失败时恢复到原来的位置
func (m *Mutator) Delete(ctx context.Context, id string) error {
	return m.observer.observe(ctx, OpDelete, 1, func(ctx context.Context) error {
		before := m.store.capture([]string{id})
		m.store.RemoveRows(id)
		m.transition(OpDelete, PhasePending, []string{id}, nil)

		if err := m.repo.Delete(ctx, id); err != nil {
			m.store.restore(before)
			m.transition(OpDelete, PhaseRolledBack, []string{id}, err)
			return err
		}
		m.transition(OpDelete, PhaseCommitted, []string{id}, nil)
		return nil
	})
}

// BulkDelete 删除 ids，ids 为空时删除全部待删除的行
//
// 结果总是以仓储的返回为准：仓储报告删除的行被移除，其余行恢复原位并保持待删除状态。
// 返回实际删除的 id。
func (m *Mutator) BulkDelete(ctx context.Context, ids ...string) ([]string, error) {
	if len(ids) == 0 {
		ids = m.store.PendingDeleteIDs()
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var deleted []string
	err := m.observer.observe(ctx, OpBulkDelete, len(ids), func(ctx context.Context) error {
		before := m.store.capture(ids)
		m.store.RemoveRows(ids...)
		m.transition(OpBulkDelete, PhasePending, ids, nil)

		result, err := m.repo.BulkDelete(ctx, ids)
		if err != nil {
			m.store.restore(before)
			m.transition(OpBulkDelete, PhaseRolledBack, ids, err)
			return err
		}

		// 保留的行回到删除之前的相对位置，下标减去排在它前面且已被删除的行数
		var kept []touched
		for _, t := range before {
			if slices.Contains(result, t.id) {
				continue
			}
			if t.index < 0 && !t.pending {
				continue
			}
			if t.index >= 0 {
				shift := 0
				for _, d := range before {
					if d.index >= 0 && d.index < t.index && slices.Contains(result, d.id) {
						shift++
					}
				}
				t.index -= shift
			}
			t.pending = true
			kept = append(kept, t)
		}
		m.store.restore(kept)
		if len(kept) > 0 {
			m.logger.WarnContext(ctx, "rows not deleted by repository", "requested", len(ids), "deleted", len(result))
		}

		deleted = result
		m.transition(OpBulkDelete, PhaseCommitted, result, nil)
		return nil
	})
	return deleted, err
}

// touched 变更前某个 id 的状态，index 为 -1 表示行不存在
type touched struct {
	id       string
	index    int
	row      grid.Row
	selected bool
	pending  bool
}

func (s *Store) capture(ids []string) []touched {
	items := make([]touched, 0, len(ids))
	s.read(func(st *state) {
		for _, id := range ids {
			t := touched{id: id, index: s.indexOf(st, id), selected: st.selected.has(id), pending: st.pending.has(id)}
			if t.index >= 0 {
				t.row = st.data[t.index]
			}
			items = append(items, t)
		}
	})
	return items
}

// restore 把 items 中的行恢复到记录时的位置和状态
func (s *Store) restore(items []touched) {
	if len(items) == 0 {
		return
	}
	items = slices.Clone(items)
	slices.SortStableFunc(items, func(a, b touched) int {
		return a.index - b.index
	})

	s.update(func(st *state) bool {
		data := slices.Clone(st.data)
		for _, t := range items {
			data = slices.DeleteFunc(data, func(row grid.Row) bool {
				return row.ID(s.idField) == t.id
			})
		}
		for _, t := range items {
			if t.index >= 0 {
				data = slices.Insert(data, min(t.index, len(data)), t.row)
			}
			if t.selected {
				st.selected.add(t.id)
			} else {
				st.selected.remove(t.id)
			}
			if t.pending {
				st.pending.add(t.id)
			} else {
				st.pending.remove(t.id)
			}
		}
		st.data = data
		return true
	})
}
