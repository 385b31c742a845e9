package http

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gitlab.apk-group.net/siem/backend/project-analyzer/app"
	"gitlab.apk-group.net/siem/backend/project-analyzer/config"
)

func Run(appContainer app.AppContainer, cfg config.ServerConfig) error {
	router := fiber.New(fiber.Config{
		AppName:   "APK Project Analyzer",
		BodyLimit: 100 * 1024 * 1024, // uploaded archives can be large
	})
	router.Use(helmet.New())
	router.Use(TraceMiddleware())
	router.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} TraceID: ${locals:traceID}\n",
		Output: os.Stdout,
	}))

	registerJobAPI(appContainer, router.Group("", setUserContext))

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		},
		PreferServerCipherSuites: true,
	}

	router.Server().TLSConfig = tlsConfig
	if !cfg.SslEnabled {
		return router.Listen(fmt.Sprintf(":%d", cfg.HttpPort))
	}
	return router.ListenTLS(fmt.Sprintf(":%d", cfg.HttpPort), cfg.Cert, cfg.Key)
}

func registerJobAPI(appContainer app.AppContainer, router fiber.Router) {
	jobSvcGetter := jobServiceGetter(appContainer)
	reportSvcGetter := reportServiceGetter(appContainer)

	router.Get("/", Health())
	router.Get("/health", Health())

	// Upload runs outside the request transaction: the scan task is
	// enqueued during submission, and the job row must already be
	// committed when a worker picks the task up.
	router.Post("/upload", UploadProject(jobSvcGetter))

	router.Get("/jobs", GetJobs(jobSvcGetter))
	router.Get("/jobs/:id", GetJobByID(jobSvcGetter))
	router.Delete("/jobs/:id", setTransaction(appContainer.DB()), DeleteJob(jobSvcGetter))
	router.Delete("/jobs", setTransaction(appContainer.DB()), DeleteAllJobs(jobSvcGetter))

	router.Get("/jobs/:id/report/json", GetJSONReport(reportSvcGetter))
	router.Get("/jobs/:id/report/pdf", GetPDFReport(reportSvcGetter))
}
