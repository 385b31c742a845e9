package http

import (
	"context"

	"gitlab.apk-group.net/siem/backend/project-analyzer/api/service"
	"gitlab.apk-group.net/siem/backend/project-analyzer/app"
)

// job service transient instance handler
func jobServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.JobService] {
	return func(ctx context.Context) *service.JobService {
		return service.NewJobService(appContainer.JobService(ctx))
	}
}

// report service transient instance handler
func reportServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.ReportService] {
	return func(ctx context.Context) *service.ReportService {
		return service.NewReportService(appContainer.JobService(ctx), appContainer.Workspace())
	}
}
