/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command server serves the member search over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/rostersearch"
	"github.com/tomoncle/rostersearch/config"
	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/handler"
	_ "github.com/tomoncle/rostersearch/model"
	"github.com/tomoncle/rostersearch/utils"
)

var log = utils.NewLogger("server")

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	database.InitLogger(database.NewLogger("database"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := database.InitDB(ctx, cfg); err != nil {
		log.WithError(err).Fatal("init database")
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			log.WithError(err).Warn("close database")
		}
	}()

	members := rostersearch.NewMemberService()
	if cfg.Database.DataInitConfig.AutoInitOnStartup {
		if err := members.Init(ctx); err != nil {
			log.WithError(err).Fatal("seed data")
		}
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := handler.NewRouter(handler.RouterDeps{
		Members: members,
		Logger:  utils.NewLogger("http"),
	})

	if err := run(ctx, cfg.Server.Addr, engine); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
	log.Info("server stopped")
}

// run serves until ctx is canceled, then drains in-flight requests.
func run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.WithField("addr", addr).Info("http server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
