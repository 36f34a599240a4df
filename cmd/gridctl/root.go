package main

import (
	"github.com/hatlonely/gridx/cfg"
	"github.com/hatlonely/gridx/grid/column"
	"github.com/hatlonely/gridx/log"
	"github.com/hatlonely/gridx/log/logger"
	"github.com/hatlonely/gridx/prefs"
	"github.com/hatlonely/gridx/ref"
	"github.com/hatlonely/gridx/repository"
	"github.com/hatlonely/gridx/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Options gridctl 配置文件
type Options struct {
	Store store.Options `cfg:"store"`
	// Repository 实体仓储，为空时使用空的内存仓储
	Repository *ref.TypeOptions     `cfg:"repository"`
	Mutator    store.MutatorOptions `cfg:"mutator"`
	Prefs      prefs.KVStoreOptions `cfg:"prefs"`
	Logger     *logger.SLogOptions  `cfg:"logger"`
	Columns    []*column.Options    `cfg:"columns"`
}

type globalFlags struct {
	config    string
	envPrefix string
	tenant    string
	user      string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "gridctl",
		Short: "gridctl queries and edits entity tables",
		Long: `gridctl loads an entity table through the repository described in the
config file and applies search, filters, sorting and column visibility the
same way the interactive grid does.

Example:
  gridctl --config invoices.yaml query --search acme --sort total:desc
  gridctl --config invoices.yaml delete 3 4
  gridctl --config invoices.yaml prefs save --filter status:is:select:paid`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file (json, yaml, toml or ini)")
	cmd.PersistentFlags().StringVar(&flags.envPrefix, "env-prefix", "GRIDX", "environment variable prefix overriding config values")
	cmd.PersistentFlags().StringVar(&flags.tenant, "tenant", "", "tenant of the preference scope")
	cmd.PersistentFlags().StringVar(&flags.user, "user", "", "user of the preference scope")

	cmd.AddCommand(newQueryCommand(flags))
	cmd.AddCommand(newDeleteCommand(flags))
	cmd.AddCommand(newPrefsCommand(flags))
	return cmd
}

// app 一次命令执行用到的全部组件
type app struct {
	options *Options
	logger  logger.Logger
	table   *column.Table
	store   *store.Store
	repo    repository.Repository
	mutator *store.Mutator
	prefs   *prefs.KVStore
	scope   prefs.Scope
}

func loadOptions(flags *globalFlags) (*Options, error) {
	if flags.config == "" {
		return nil, errors.New("config file is required, use --config")
	}
	c, err := cfg.NewConfigWithOptions(&cfg.Options{
		Filename:  flags.config,
		EnvPrefix: flags.envPrefix,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "cfg.NewConfigWithOptions failed")
	}
	options := &Options{}
	if err := c.ConvertTo(options); err != nil {
		return nil, errors.WithMessagef(err, "load config %s failed", flags.config)
	}
	return options, nil
}

func newApp(flags *globalFlags) (*app, error) {
	options, err := loadOptions(flags)
	if err != nil {
		return nil, err
	}

	l, err := log.NewWithOptions(options.Logger)
	if err != nil {
		return nil, errors.WithMessage(err, "log.NewWithOptions failed")
	}
	log.SetDefault(l)

	a := &app{
		options: options,
		logger:  l,
		scope: prefs.Scope{
			Tenant: flags.tenant,
			User:   flags.user,
			Entity: options.Store.Entity,
		},
	}

	if len(options.Columns) > 0 {
		if a.table, err = column.NewTableWithOptions(options.Columns); err != nil {
			return nil, errors.WithMessage(err, "column.NewTableWithOptions failed")
		}
	}

	options.Store.Logger = l
	if a.store, err = store.NewWithOptions(&options.Store); err != nil {
		return nil, errors.WithMessage(err, "store.NewWithOptions failed")
	}

	if options.Repository != nil {
		a.repo, err = repository.NewRepositoryWithOptions(options.Repository)
	} else {
		a.repo, err = repository.NewMemoryRepositoryWithOptions(&repository.MemoryOptions{IDField: options.Store.IDField})
	}
	if err != nil {
		return nil, errors.WithMessage(err, "create repository failed")
	}

	mutatorOptions := options.Mutator
	mutatorOptions.Table = a.table
	mutatorOptions.Logger = l
	// 每次执行使用独立的注册表，命令行进程不暴露指标
	mutatorOptions.Registerer = prometheus.NewRegistry()
	if a.mutator, err = store.NewMutator(a.store, a.repo, &mutatorOptions); err != nil {
		return nil, errors.WithMessage(err, "store.NewMutator failed")
	}

	if a.prefs, err = prefs.NewKVStoreWithOptions(&options.Prefs); err != nil {
		return nil, errors.WithMessage(err, "prefs.NewKVStoreWithOptions failed")
	}
	return a, nil
}

func (a *app) Close() error {
	if a.prefs != nil {
		return a.prefs.Close()
	}
	return nil
}

// withApp 创建 app 并在 fn 返回后释放
func withApp(flags *globalFlags, fn func(a *app) error) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("close failed", "error", err.Error())
		}
	}()
	return fn(a)
}
