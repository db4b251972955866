// @title           Case Document Extraction API
// @version         1.0
// @description     This API handles asynchronous legal document OCR, analysis and chunking
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/avemuri/CaseDocAPI/internal/analysis"
	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/data/store"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/extraction"
	"github.com/avemuri/CaseDocAPI/internal/handlers"
	"github.com/avemuri/CaseDocAPI/internal/ingest"
	"github.com/avemuri/CaseDocAPI/internal/job"
	"github.com/avemuri/CaseDocAPI/internal/middleware"
	"github.com/avemuri/CaseDocAPI/internal/pipeline"
	"github.com/avemuri/CaseDocAPI/internal/server"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	env := config.Load()
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//job store: redis when reachable, in-memory otherwise
	var jobStore jobModel.JobStore
	if rs := store.GetRedisJobStore(serviceContext, env.RedisAddr, env.RedisPassword); rs != nil {
		jobStore = rs
	} else {
		logger.Error("Redis store is offline")
		jobStore = store.InitInMemoryJobStore()
	}

	//document store: postgres when configured, in-memory otherwise
	var docStore docModel.DocumentStore
	var caseStore docModel.CaseStore
	if env.DatabaseURL != "" {
		pg := store.GetPostgresDocumentStore(serviceContext, env.DatabaseURL)
		if pg != nil {
			docStore, caseStore = pg, pg
		}
	}
	if docStore == nil {
		logger.Warn("Postgres unavailable, using in-memory document store")
		mem := store.InitInMemoryDocumentStore()
		docStore, caseStore = mem, mem
	}

	//file store: s3 when a bucket is configured, local disk otherwise
	var fileStore docModel.FileStore
	if env.BucketName != "" {
		if s3 := store.GetS3FileStore(serviceContext, env.AwsRegion, env.BucketName); s3 != nil {
			fileStore = s3
		}
	}
	if fileStore == nil {
		local, err := store.InitLocalFileStore(env.LocalFiles)
		if err != nil {
			logger.Error("Could not initialize local file storage", "error", err)
			return
		}
		fileStore = local
	}

	ocrChain := extraction.NewChain(
		extraction.NewDocAIProvider(env.DocAIEndpoint, env.DocAIAPIKey),
		extraction.NewGeminiVisionProvider(serviceContext, env.GeminiAPIKey, config.GeminiModelName),
		extraction.NewOcrWebProvider(env.OcrWebAPIKey),
	)
	analysisChain := analysis.NewChain(
		analysis.NewGeminiProvider(serviceContext, env.GeminiAPIKey, config.GeminiModelName),
		analysis.NewOpenAIProvider(env.OpenAIAPIKey, config.OpenAIModelName),
	)

	processor := pipeline.NewProcessor(pipeline.Config{
		Jobs:      jobStore,
		Docs:      docStore,
		Files:     fileStore,
		Ocr:       ocrChain,
		Analyzer:  analysisChain,
		Caches:    pipeline.DefaultCaches(),
		BatchSize: env.BatchSize,
	})
	ingestor := ingest.NewService(jobStore, docStore, caseStore, fileStore)

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobStore:      jobStore,
		DocumentStore: docStore,
		Ingestor:      ingestor,
		Processor:     processor,
	})

	handlers.InitServiceHandler(service)
	middleware.InitAuth(env.AuthToken, env.ServiceToken)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
