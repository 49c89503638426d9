package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// 1. Open DB connection (connection pooling)
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	// In a development environment, ensure SSL is disabled for local testing.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		dsn += " sslmode=disable"
	}
	// For non-development environments behind a transaction pooler like
	// pgbouncer, use the simple query protocol to avoid issues with
	// server-side prepared statements.
	if cfg.Environment != "development" {
		dsn += " prefer_simple_protocol=true"
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
		return nil, nil, err
	}

	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 2. Initialize S3 client
	s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Fatal().Msgf("Failed to load S3 config: %v", err)
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// 3. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Initialize Pub/Sub publisher for course lifecycle events
	pubSubPublisher, err := pubsub.NewPublisher(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
		return nil, nil, err
	}

	// 5. Load Stripe credentials from Secret Manager when the environment
	// does not provide them. Deployed instances keep Stripe keys out of env
	// files; local development sets them directly and skips this path.
	if (cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "") && cfg.GetGCPProjectID() != "" {
		secretSvc, err := service.NewSecretService(context.Background(), cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
			return nil, nil, err
		}
		if err := service.LoadStripeSecrets(context.Background(), secretSvc, cfg); err != nil {
			logger.Fatal().Msgf("Failed to load Stripe secrets: %v", err)
			return nil, nil, err
		}
	}

	// 6. Initialize repositories & services & handlers
	instructorRepo := repository.NewInstructorRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	draftRepo := repository.NewDraftRepository(db)
	contentRepo := repository.NewContentRepository(db)

	courseSvc := service.NewCourseService(courseRepo, pubSubPublisher, cfg.PubSubCourseEventsTopic, logger)
	draftSvc := service.NewDraftService(draftRepo, logger)
	contentSvc := service.NewContentService(contentRepo, s3Client, cfg.S3Bucket, logger)
	stripeSvc := service.NewStripeService(cfg, instructorRepo, logger)
	sessions := service.NewSessionManager(draftSvc, courseSvc, logger)

	courseHandler := handler.NewCourseHandler(courseSvc, validate)
	draftHandler := handler.NewDraftHandler(sessions, draftSvc, validate)
	contentHandler := handler.NewContentHandler(contentSvc, courseSvc, validate)
	instructorHandler := handler.NewInstructorHandler(instructorRepo, stripeSvc)

	// 7. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 8. Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	draftHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	contentHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	instructorHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Stripe calls the webhook directly; signature verification replaces auth.
	apiV1Mux.HandleFunc("/webhooks/stripe", stripeSvc.HandleWebhook)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect all other root-level requests to /v1/{path}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	// 9. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), db, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Only remove the middleware if it exists. This makes the client more
		// robust, especially for operations like presigned URLs that might
		// inspect the middleware stack.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
