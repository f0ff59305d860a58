package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"

	"go-plandy/internal/agents/communication"
	"go-plandy/internal/agents/data"
	"go-plandy/internal/agents/health"
	"go-plandy/internal/agents/plan"
	"go-plandy/internal/agents/supervisor"
	"go-plandy/internal/agents/worklife"
	"go-plandy/internal/api"
	"go-plandy/internal/clock"
	"go-plandy/internal/config"
	"go-plandy/internal/llm"
	"go-plandy/internal/schedule"
	"go-plandy/internal/workflow"
	"go-plandy/pkg/logger"
	"go-plandy/pkg/models"
)

func main() {
	log.Println("starting server")

	cfg, err := config.Load("")
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	if err := logger.NewGlobal(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	store, err := schedule.Open(cfg.SQLitePath)
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to open schedule store")
	}
	defer store.Close()

	factory := llm.New(cfg.Model, cfg.OpenAIKey, cfg.Temperature)
	clockSvc := clock.NewService(cfg.DefaultTimezone)

	var decider supervisor.Decider
	if factory.Available() {
		decider = supervisor.NewLLMDecider(factory)
	} else {
		decider = supervisor.KeywordDecider{}
	}

	engine := workflow.New(
		supervisor.NewNode(decider).Run,
		map[models.AgentName]workflow.NodeFunc{
			models.AgentHealth:        health.NewNode(health.NewHandler(factory)).Run,
			models.AgentPlan:          plan.NewNode(plan.NewHandler(factory, store)).Run,
			models.AgentData:          data.NewNode(data.NewHandler(factory)).Run,
			models.AgentWorkLife:      worklife.NewNode(worklife.NewHandler(factory, store)).Run,
			models.AgentCommunication: communication.NewNode(communication.NewHandler(factory, store, clockSvc)).Run,
		},
	)

	system := actor.NewActorSystem().Root
	app := api.New(system, cfg.HTTPAddr, api.Deps{
		Engine: engine,
		Store:  store,
		Clock:  clockSvc,
		LLM:    factory,
	})

	go func() {
		if err := app.Start(); err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
