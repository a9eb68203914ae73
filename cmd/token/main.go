// Command token issues a bearer token for an existing user, for local use
// against the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	appmw "github.com/channor/open-manage/internal/adapter/middleware"
	"github.com/channor/open-manage/internal/adapter/repository/mysql"
	"github.com/channor/open-manage/internal/config"
	"github.com/channor/open-manage/internal/infrastructure/db"
	"github.com/channor/open-manage/internal/infrastructure/logger"
)

func main() {
	userID := flag.Uint64("user", 0, "user id (sub claim)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, os.Stderr)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	if *userID == 0 {
		log.Fatal("-user is required")
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.WithLogger(log, gormlogger.Silent))
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	u, err := mysql.NewUserRepository(gdb).GetByID(context.Background(), *userID)
	if err != nil {
		log.WithError(err).WithField("user_id", *userID).Fatal("load user")
	}

	tok, err := appmw.SignToken([]byte(cfg.JWTSecret), u.ID, *ttl)
	if err != nil {
		log.WithError(err).Fatal("sign token")
	}
	fmt.Println(tok)
}
