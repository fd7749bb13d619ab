package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"reviewbot/internal/ratelimiter"
	"reviewbot/internal/review"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	service     *review.Service
	session     *discordgo.Session
	rateLimiter *ratelimiter.FixedWindowLimiter
}

type config struct {
	addr        string
	env         string
	discord     discordConfig
	db          dbConfig
	rateLimiter ratelimiter.Config
}

type discordConfig struct {
	token   string
	appID   string
	guildID string
}

type dbConfig struct {
	uri      string
	database string
}

func (app *application) run() error {
	app.session.Identify.Intents = discordgo.IntentsGuilds
	app.session.AddHandler(app.onReady)
	app.session.AddHandler(app.onInteraction)

	if err := app.session.Open(); err != nil {
		return err
	}
	defer app.session.Close()

	if err := app.registerCommands(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      app.mount(),
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("bot has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("bot has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

func (app *application) onReady(s *discordgo.Session, r *discordgo.Ready) {
	app.logger.Infow("logged in", "user", r.User.Username)
}
