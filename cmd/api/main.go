package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/handlers"
	"github.com/clinica-bage/app-rx/internal/logging"
	"github.com/clinica-bage/app-rx/internal/middleware"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/services"

	_ "github.com/clinica-bage/app-rx/docs"
)

// @title           Clínica Bagé Receitas API
// @version         1.0
// @description     BFF do portal de renovação de receitas. Normaliza os registros do backend da clínica, consulta CEPs, resolve fotos de perfil e mantém o cadastro do paciente em dia quando um pedido é salvo.

// @contact.name   Clínica Bagé
// @contact.email  ti@clinica-bage.com.br

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name session
// @tag.description Login, usuário atual e logout

// @tag.name prescriptions
// @tag.description Pedidos de renovação de receita

// @tag.name identities
// @tag.description Cadastro de pacientes (administração)

// @tag.name address
// @tag.description Endereços e CEP

// @tag.name images
// @tag.description Fotos de perfil

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logging.Sync()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize storage
	config.InitRedis()
	config.InitObjectStorage()

	// Initialize services
	services.InitBackendClient()
	services.InitPostalLookupService()
	services.InitImageResolver()
	services.InitIdentityUpsertService()
	services.InitSessionService()
	services.InitPrescriptionService()

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTiming(),
		middleware.RequestTracker(),
		corsMiddleware(config.AppConfig.CORSAllowedOrigins),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessionHandlers := handlers.NewSessionHandlers(services.SessionServiceInstance)
	postalHandlers := handlers.NewPostalHandlers(services.PostalLookupServiceInstance)
	imageHandlers := handlers.NewImageHandlers(services.ImageResolverInstance)
	prescriptionHandlers := handlers.NewPrescriptionHandlers(services.PrescriptionServiceInstance)
	identityHandlers := handlers.NewIdentityHandlers(services.IdentityUpsertServiceInstance, services.BackendClientInstance)
	clinicHandlers := handlers.NewClinicHandlers(services.BackendClientInstance)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Health check endpoint
		v1.GET("/health", handlers.HealthCheck(config.Redis))

		v1.POST("/session", sessionHandlers.Login)
		v1.POST("/register", sessionHandlers.Register)

		v1.POST("/normalize/identity", handlers.NormalizeIdentity)
		v1.POST("/address/compose", handlers.ComposeAddress)
		v1.POST("/address/decompose", handlers.DecomposeAddress)
		v1.GET("/postal-codes/:cep", postalHandlers.GetPostalCode)

		v1.GET("/images/resolve", imageHandlers.ResolveImage)
		v1.POST("/images/next", imageHandlers.NextImage)
		v1.GET("/images/available", imageHandlers.ImageAvailable)

		authed := v1.Group("", middleware.SessionAuth(services.SessionServiceInstance), middleware.AuditMiddleware())
		{
			authed.GET("/session", sessionHandlers.Current)
			authed.DELETE("/session", sessionHandlers.Logout)
			authed.PATCH("/session/profile", sessionHandlers.UpdateProfile)
			authed.GET("/prescriptions", prescriptionHandlers.ListPrescriptions)
			authed.POST("/prescriptions", prescriptionHandlers.SavePrescription)
			authed.GET("/prescriptions/:id", prescriptionHandlers.GetPrescription)
		}

		admin := authed.Group("", middleware.RequireAdmin())
		{
			admin.PATCH("/prescriptions/:id/status", prescriptionHandlers.UpdatePrescriptionStatus)
			admin.DELETE("/prescriptions/:id", prescriptionHandlers.DeletePrescription)
			admin.GET("/prescriptions/:id/notes", clinicHandlers.ListNotes)
			admin.POST("/prescriptions/:id/notes", clinicHandlers.CreateNote)
			admin.POST("/identities/preview", identityHandlers.PreviewUpsert)
			admin.GET("/patients", identityHandlers.ListPatients)
			admin.GET("/patients/search", identityHandlers.SearchPatients)
			admin.GET("/patients/:id", identityHandlers.GetPatient)
			admin.GET("/reports/:name", clinicHandlers.GetReport)
			admin.GET("/settings", clinicHandlers.GetSettings)
			admin.PUT("/settings", clinicHandlers.UpdateSettings)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts. Writes wait on the backend, so the
	// write timeout follows BACKEND_TIMEOUT.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.AppConfig.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
			zap.String("api_url", config.AppConfig.APIURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
	}
	if config.Redis != nil {
		if err := config.Redis.Close(); err != nil {
			logging.Logger.Warn("failed to close Redis", zap.Error(err))
		}
	}

	logging.Logger.Info("server exited gracefully")
}

// corsMiddleware allows every origin unless CORS_ALLOWED_ORIGINS narrows it
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
