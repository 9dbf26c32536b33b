// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/model"
	"github.com/haierkeys/resource-usage-service/pkg/fileurl"
	"github.com/haierkeys/resource-usage-service/pkg/util"
	"github.com/haierkeys/resource-usage-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// Dao 数据访问对象，持有数据库连接和依赖
type Dao struct {
	db         *gorm.DB
	ctx        context.Context
	config     *DatabaseConfig
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

// Option Dao 配置选项
type Option func(*Dao)

// WithConfig 注入数据库配置
func WithConfig(cfg *DatabaseConfig) Option {
	return func(d *Dao) {
		d.config = cfg
	}
}

// WithLogger 注入日志器
func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) {
		d.logger = lg
	}
}

// WithWriteQueueManager 注入写队列管理器
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) {
		d.writeQueue = m
	}
}

// New 创建 Dao 实例
func New(db *gorm.DB, ctx context.Context, opts ...Option) *Dao {
	d := &Dao{
		db:  db,
		ctx: ctx,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// DB 获取底层 gorm 连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// WriteQueue 获取写队列管理器，未注入时返回 nil
func (d *Dao) WriteQueue() *writequeue.Manager {
	return d.writeQueue
}

// AutoMigrate 执行自动迁移
func (d *Dao) AutoMigrate(key string) error {
	return model.AutoMigrate(d.db, key)
}

// NewDBEngineWithConfig 创建数据库连接
func NewDBEngineWithConfig(c *DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {

	dialector := useDialector(c)
	if dialector == nil {
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}

	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	// 获取通用数据库对象 sql.DB，配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)

	if lifetime, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if idleTime, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && idleTime > 0 {
		sqlDB.SetConnMaxIdleTime(idleTime)
	} else {
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db, ""); err != nil {
			return nil, err
		}
	}

	if lg != nil {
		lg.Info("database engine initialized",
			zap.String("type", c.Type),
			zap.String("tablePrefix", c.TablePrefix))
	}

	return db, nil
}

// useDialector 根据配置选择数据库驱动
func useDialector(c *DatabaseConfig) gorm.Dialector {
	if c.Type == "mysql" {
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	} else if c.Type == "sqlite" {
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
