package main

import (
	"flag"
	"log/slog"
	"os"

	"staffchat/internal/config"
	"staffchat/internal/handler"
	"staffchat/internal/ingest"
	applog "staffchat/internal/logger"
	"staffchat/internal/middleware"
	"staffchat/internal/model"
	"staffchat/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	applog.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.Resource{}, &model.Project{}); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	convs, err := service.NewConversationStore(cfg.Data.Dir)
	if err != nil {
		slog.Error("conversation store init failed", "err", err)
		os.Exit(1)
	}
	files, err := service.NewFileStore(cfg.Data.Dir)
	if err != nil {
		slog.Error("file store init failed", "err", err)
		os.Exit(1)
	}

	verifier := service.NewStaticVerifier(cfg.Auth.Users)
	authSvc := service.NewAuthService(verifier, convs, []byte(cfg.Auth.JWTSecret))
	webhook := service.NewChatWebhook(cfg.Webhook)
	if webhook.Configured() {
		slog.Info("chat webhook enabled", "url", cfg.Webhook.URL)
	}
	resources := service.NewResourceService(db)
	projects := service.NewProjectService(db)
	ingestor := ingest.NewIngestor(db)

	authH := handler.NewAuthHandler(authSvc)
	convH := handler.NewConversationHandler(convs)
	chatH := handler.NewChatHandler(convs, webhook)
	ingestH := handler.NewIngestHandler(ingestor)
	dataH := handler.NewDataHandler(resources, projects, cfg.Dataset.DefaultLimit, cfg.Dataset.MaxLimit)
	resH := handler.NewResourceHandler(resources)
	projH := handler.NewProjectHandler(projects)
	fileH := handler.NewFileHandler(files, convs)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Identity([]byte(cfg.Auth.JWTSecret)))

	r.GET("/health", handler.Health)
	r.POST("/auth/signin", authH.SignIn)

	r.POST("/conversations", convH.Create)
	r.GET("/conversations", convH.List)
	r.GET("/conversations/:id", convH.Get)
	r.DELETE("/conversations/:id", convH.Delete)
	r.POST("/conversations/:id/messages", convH.AppendMessage)
	r.GET("/conversations/:id/messages", convH.Messages)
	r.POST("/conversations/:id/files", fileH.Upload)
	r.GET("/conversations/:id/files", fileH.List)
	r.GET("/conversations/:id/files/:name", fileH.Download)

	r.POST("/chat", chatH.Chat)

	data := r.Group("/data")
	data.POST("/resources/upload", ingestH.UploadResources)
	data.POST("/projects/upload", ingestH.UploadProjects)
	data.GET("/dataset", dataH.Dataset)
	data.GET("/debug/status", dataH.Status)
	data.POST("/resources", resH.Create)
	data.GET("/resources/:id", resH.Get)
	data.PATCH("/resources/:id", resH.Update)
	data.DELETE("/resources/:id", resH.Delete)
	data.POST("/projects", projH.Create)
	data.GET("/projects/:id", projH.Get)
	data.PATCH("/projects/:id", projH.Update)
	data.DELETE("/projects/:id", projH.Delete)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
