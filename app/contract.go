package app

import (
	"context"

	"gorm.io/gorm"

	"gitlab.apk-group.net/siem/backend/project-analyzer/config"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/workspace"
)

type AppContainer interface {
	JobService(ctx context.Context) jobPort.Service
	Workspace() *workspace.Workspace
	StartWorkers()
	StopWorkers()
	Config() config.Config
	DB() *gorm.DB
}
