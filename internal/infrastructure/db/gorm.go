package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type options struct {
	log       logrus.FieldLogger
	level     logger.LogLevel
	maxOpen   int
	maxIdle   int
	singleCon bool
}

type Option func(*options)

// WithLogger routes gorm's SQL log through l at the given level.
func WithLogger(l logrus.FieldLogger, level logger.LogLevel) Option {
	return func(o *options) { o.log = l; o.level = level }
}

func WithPool(maxOpen, maxIdle int) Option {
	return func(o *options) { o.maxOpen = maxOpen; o.maxIdle = maxIdle }
}

// OpenGorm opens mysql or sqlite. An sqlite database is limited to one
// connection so ":memory:" stays a single database.
func OpenGorm(driver, dsn string, opts ...Option) (*gorm.DB, error) {
	switch driver {
	case DriverMySQL, "":
		return OpenGormWithDialector(mysql.Open(dsn), opts...)
	case DriverSQLite:
		return OpenGormWithDialector(sqlite.Open(dsn), append(opts, func(o *options) { o.singleCon = true })...)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{level: logger.Warn, maxOpen: 30, maxIdle: 10}
	for _, fn := range opts {
		fn(&o)
	}

	cfg := &gorm.Config{DisableAutomaticPing: true}
	if o.log != nil {
		cfg.Logger = logger.New(o.log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.level,
			IgnoreRecordNotFoundError: true,
		})
	} else {
		cfg.Logger = logger.Default.LogMode(o.level)
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.singleCon {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(o.maxOpen)
		sqlDB.SetMaxIdleConns(o.maxIdle)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	if o.log != nil {
		o.log.WithField("dialect", dial.Name()).Info("gorm: connected")
	}
	return db, nil
}
