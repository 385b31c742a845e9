package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gitlab.apk-group.net/siem/backend/project-analyzer/config"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer"
	analyzerPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/executor"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/workspace"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/queue"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/storage"
	appCtx "gitlab.apk-group.net/siem/backend/project-analyzer/pkg/context"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/mysql"
)

const defaultToolTimeout = 300 * time.Second

type app struct {
	db           *gorm.DB
	cfg          config.Config
	redisClient  *redis.Client
	taskQueue    jobPort.TaskQueue
	workspace    *workspace.Workspace
	aggregator   analyzerPort.Aggregator
	jobService   jobPort.Service
	workerRunner *executor.WorkerRunner
}

func (a *app) jobServiceWithDB(db *gorm.DB) jobPort.Service {
	return job.NewJobService(storage.NewJobRepo(db), a.taskQueue, a.workspace)
}

func (a *app) JobService(ctx context.Context) jobPort.Service {
	db := appCtx.GetDB(ctx)
	if db == nil {
		if a.jobService == nil {
			a.jobService = a.jobServiceWithDB(a.db)
		}
		return a.jobService
	}

	return a.jobServiceWithDB(db)
}

func (a *app) Workspace() *workspace.Workspace {
	return a.workspace
}

func (a *app) Config() config.Config {
	return a.cfg
}

func (a *app) DB() *gorm.DB {
	return a.db
}

// StartWorkers launches the scan worker pool
func (a *app) StartWorkers() {
	if a.workerRunner != nil {
		a.workerRunner.Start()
	}
}

// StopWorkers halts the scan worker pool
func (a *app) StopWorkers() {
	if a.workerRunner != nil {
		a.workerRunner.Stop()
	}
}

func (a *app) setDB() error {
	db, err := mysql.NewMysqlConnection(mysql.DBConnOptions{
		Host:     a.cfg.DB.Host,
		Port:     a.cfg.DB.Port,
		Username: a.cfg.DB.Username,
		Password: a.cfg.DB.Password,
		Database: a.cfg.DB.Database,
	})
	if err != nil {
		return err
	}
	mysql.GormMigrations(db)
	a.db = db
	return nil
}

func NewApp(cfg config.Config) (AppContainer, error) {
	a := &app{
		cfg: cfg,
	}
	if err := a.setDB(); err != nil {
		return nil, err
	}

	a.redisClient = queue.NewRedisClient(cfg.Redis)
	a.taskQueue = queue.NewRedisTaskQueue(a.redisClient, cfg.Redis.QueueKey)
	a.workspace = workspace.New(cfg.Scan)

	toolTimeout := defaultToolTimeout
	if cfg.Scan.ToolTimeoutSec > 0 {
		toolTimeout = time.Duration(cfg.Scan.ToolTimeoutSec) * time.Second
	}

	runner := analyzer.NewExecCommandRunner(toolTimeout)
	a.aggregator = analyzer.NewAggregator(cfg.Scan.MaxParallel, analyzer.DefaultAnalyzers(runner)...)

	a.jobService = a.jobServiceWithDB(a.db)

	taskExecutor := executor.NewTaskExecutor(storage.NewJobRepo(a.db), a.aggregator, a.workspace)
	a.workerRunner = executor.NewWorkerRunner(a.taskQueue, taskExecutor, cfg.Scan.Workers)

	return a, nil
}

func NewMustApp(cfg config.Config) AppContainer {
	a, err := NewApp(cfg)
	if err != nil {
		panic(err)
	}
	return a
}
