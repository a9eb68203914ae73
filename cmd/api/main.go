package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	httpadp "github.com/channor/open-manage/internal/adapter/http"
	appmw "github.com/channor/open-manage/internal/adapter/middleware"
	"github.com/channor/open-manage/internal/adapter/notify"
	"github.com/channor/open-manage/internal/adapter/repository/mysql"
	"github.com/channor/open-manage/internal/config"
	domain "github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/infrastructure/cache"
	"github.com/channor/open-manage/internal/infrastructure/db"
	"github.com/channor/open-manage/internal/infrastructure/logger"
	"github.com/channor/open-manage/internal/usecase/absence"
	"github.com/channor/open-manage/internal/usecase/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, os.Stdout)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	level := gormlogger.Info
	if cfg.IsProduction() {
		level = gormlogger.Warn
	}
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.WithLogger(log, level))
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	if err := mysql.Seed(context.Background(), gdb); err != nil {
		log.WithError(err).Fatal("seed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("open redis")
	}

	users := mysql.NewUserRepository(gdb)
	absences := mysql.NewAbsenceRepository(gdb)
	types := mysql.NewAbsenceTypeRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	// notifications
	recipients := notification.NewRecipients(users, cfg.RecipientRole)
	sinks := []notification.Sink{notify.NewStreamSink(rdb, cfg.EventStream, cfg.EventStreamMaxLen)}
	if cfg.MailEnabled() {
		dialer := notify.NewSMTPDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		sinks = append(sinks, notify.NewMailSink(dialer, cfg.MailFrom, recipients))
	} else {
		log.Warn("SMTP_HOST not set, absence emails disabled")
	}
	dispatcher := notification.NewDispatcher(log, notification.Config{
		WorkerCount: cfg.NotifyWorkers,
		QueueSize:   cfg.NotifyQueueSize,
	}, sinks...)
	dispatcher.Start()

	uc := absence.NewUsecase(absences, types, tx,
		absence.WithPublisher(dispatcher),
		absence.WithLogger(log),
		absence.WithPolicy(domain.RolePolicy{ManagingRoles: cfg.ManagingRoles}),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	h := httpadp.NewHandler().
		WithCheck("db", sqlDB.PingContext).
		WithCheck("redis", cache.Ping(rdb))
	e.GET("/health", h.Health)

	g := e.Group("/absences",
		appmw.Auth(users, []byte(cfg.JWTSecret), log),
		appmw.Idempotency(rdb, cfg.IdempotencyTTL(), log),
	)
	httpadp.NewAbsenceHandler(uc, log).Register(g)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	dispatcher.Stop()
	_ = rdb.Close()
	_ = sqlDB.Close()
	log.Info("stopped")
}
