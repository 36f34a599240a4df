package repository

import (
	"context"
	"fmt"

	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/query"
	"github.com/hatlonely/gridx/ref"
	"github.com/hatlonely/gridx/uid"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormOptions struct {
	// Driver 数据库驱动：sqlite, mysql
	Driver  string `cfg:"driver" def:"sqlite" validate:"omitempty,oneof=sqlite mysql"`
	DSN     string `cfg:"dsn"`
	Table   string `cfg:"table" validate:"required"`
	IDField string `cfg:"idField" def:"id"`
	// IDGenerator 为没有 id 的新记录分配 id，默认使用带连字符的 uuid
	IDGenerator *ref.TypeOptions `cfg:"idGenerator"`
}

// GormRepository 以 map 读写单张表，id 由客户端分配
type GormRepository struct {
	db      *gorm.DB
	table   string
	idField string
	ids     uid.Generator
}

func NewGormRepositoryWithOptions(options *GormOptions) (*GormRepository, error) {
	if options == nil || options.DSN == "" {
		return nil, errors.New("gorm repository dsn is required")
	}

	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	var db *gorm.DB
	var err error
	switch options.Driver {
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(options.DSN), config)
	case "mysql":
		db, err = gorm.Open(mysql.Open(options.DSN), config)
	default:
		return nil, errors.Errorf("unsupported database driver: %s", options.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "gorm.Open failed")
	}
	return NewGormRepository(db, options)
}

// NewGormRepository 使用已有的连接
func NewGormRepository(db *gorm.DB, options *GormOptions) (*GormRepository, error) {
	idField := options.IDField
	if idField == "" {
		idField = grid.DefaultIDField
	}
	if err := query.ValidateField(options.Table); err != nil {
		return nil, errors.WithMessage(err, "invalid table")
	}
	if err := query.ValidateField(idField); err != nil {
		return nil, errors.WithMessage(err, "invalid id field")
	}

	generatorOptions := options.IDGenerator
	if generatorOptions == nil {
		generatorOptions = &ref.TypeOptions{
			Namespace: "github.com/hatlonely/gridx/uid",
			Type:      "UUIDGenerator",
			Options:   &uid.UUIDOptions{WithHyphens: true},
		}
	}
	ids, err := uid.NewGeneratorWithOptions(generatorOptions)
	if err != nil {
		return nil, errors.WithMessage(err, "uid.NewGeneratorWithOptions failed")
	}

	return &GormRepository{db: db, table: options.Table, idField: idField, ids: ids}, nil
}

func (r *GormRepository) FetchAll(ctx context.Context) ([]grid.Row, error) {
	return r.find(ctx, "", nil)
}

func (r *GormRepository) FetchByID(ctx context.Context, id string) (grid.Row, error) {
	rows, err := r.find(ctx, r.idField+" = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(id)
	}
	return rows[0], nil
}

func (r *GormRepository) Find(ctx context.Context, q query.Query) ([]grid.Row, error) {
	if q == nil {
		return r.FetchAll(ctx)
	}
	where, args, err := q.ToSQL()
	if err != nil {
		return nil, errors.WithMessage(err, "query.ToSQL failed")
	}
	return r.find(ctx, where, args)
}

func (r *GormRepository) find(ctx context.Context, where string, args []any) ([]grid.Row, error) {
	tx := r.db.WithContext(ctx).Table(r.table)
	if where != "" {
		tx = tx.Where(where, args...)
	}

	var records []map[string]any
	if err := tx.Order(r.idField).Find(&records).Error; err != nil {
		return nil, unavailable(err)
	}

	rows := make([]grid.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, normalize(record))
	}
	return rows, nil
}

func (r *GormRepository) Create(ctx context.Context, data grid.Row) (grid.Row, error) {
	row := data.Clone()
	if row == nil {
		row = grid.Row{}
	}
	id := row.ID(r.idField)
	if id == "" {
		id = r.ids.Generate()
		row[r.idField] = id
	}
	if _, err := r.FetchByID(ctx, id); err == nil {
		return nil, conflict(id)
	}

	if err := r.db.WithContext(ctx).Table(r.table).Create(map[string]any(row)).Error; err != nil {
		return nil, unavailable(err)
	}
	return r.FetchByID(ctx, id)
}

func (r *GormRepository) Update(ctx context.Context, id string, partial grid.Row) (grid.Row, error) {
	if _, err := r.FetchByID(ctx, id); err != nil {
		return nil, err
	}

	values := partial.Clone()
	delete(values, r.idField)
	if len(values) > 0 {
		err := r.db.WithContext(ctx).Table(r.table).Where(r.idField+" = ?", id).Updates(map[string]any(values)).Error
		if err != nil {
			return nil, unavailable(err)
		}
	}
	return r.FetchByID(ctx, id)
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.table, r.idField), id)
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func (r *GormRepository) BulkDelete(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	var deleted []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []string
		if err := tx.Table(r.table).Where(r.idField+" IN ?", ids).Pluck(r.idField, &found).Error; err != nil {
			return err
		}
		if len(found) == 0 {
			return nil
		}
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", r.table, r.idField), found).Error; err != nil {
			return err
		}
		deleted = found
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	if deleted == nil {
		deleted = []string{}
	}
	return deleted, nil
}

// normalize 将驱动返回的 []byte 转换成字符串
func normalize(record map[string]any) grid.Row {
	row := make(grid.Row, len(record))
	for k, v := range record {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[k] = v
	}
	return row
}
