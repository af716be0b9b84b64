package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/diet-hub/internal/auth"
	"github.com/fdg312/diet-hub/internal/blob"
	"github.com/fdg312/diet-hub/internal/config"
	"github.com/fdg312/diet-hub/internal/dietimport"
	"github.com/fdg312/diet-hub/internal/diets"
	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/fdg312/diet-hub/internal/storage/memory"
	"github.com/fdg312/diet-hub/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	blobStore      blob.Store
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()
	s.initBlobStore()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Подключение к PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("PostgreSQL подключен успешно")
	s.storage = pgStorage
}

// initBlobStore выбирает хранилище исходных файлов диет (BLOB_MODE)
func (s *Server) initBlobStore() {
	store, mode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize diet file store: %v", err)
	}
	log.Printf("INFO blob: diet files mode: %s", mode)
	s.blobStore = store
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Diets API
	limits := s.config.Diet
	validator := dietimport.NewService(s.storage, log.Default()).WithLimits(dietimport.Limits{
		MealNameMaxLen: limits.MealNameMaxLen,
		CaloriesMin:    limits.CaloriesMin,
		CaloriesMax:    limits.CaloriesMax,
		MaxMealsPerDay: limits.MaxMealsPerDay,
	})
	dietsService := diets.NewService(validator, s.storage, s.blobStore, diets.Options{
		MaxUploadBytes:    s.config.UploadMaxBytes(),
		AllowedExtensions: append([]string(nil), s.config.UploadAllowedExtensions...),
		ObjectPrefix:      s.config.Blob.S3.Prefix,
		PublicBaseURL:     s.config.Blob.S3.PublicBaseURL,
		PreferPublicURL:   s.config.Blob.S3.PreferPublicURL,
		PresignTTLSeconds: s.config.Blob.S3.PresignTTLSeconds,
	}, log.Default())
	dietsHandler := diets.NewHandlers(dietsService).WithAccessPolicy(newDietitianPolicy(s.config))

	// POST /v1/diets/validate - validate spreadsheet, report as json|pdf|csv|text
	s.mux.HandleFunc("POST /v1/diets/validate", dietsHandler.HandleValidate)

	// POST /v1/diets/import - validate and save diet
	s.mux.HandleFunc("POST /v1/diets/import", dietsHandler.HandleImport)

	// GET /v1/diets - list diets
	s.mux.HandleFunc("GET /v1/diets", dietsHandler.HandleList)

	// GET /v1/diets/{id} - diet details
	s.mux.HandleFunc("GET /v1/diets/{id}", dietsHandler.HandleGet)

	// DELETE /v1/diets/{id} - delete diet, shopping lists and file
	s.mux.HandleFunc("DELETE /v1/diets/{id}", dietsHandler.HandleDelete)

	// GET /v1/diets/{id}/shopping-list - shopping list of a diet
	s.mux.HandleFunc("GET /v1/diets/{id}/shopping-list", dietsHandler.HandleShoppingList)

	// GET /v1/diets/{id}/file - download original spreadsheet
	s.mux.HandleFunc("GET /v1/diets/{id}/file", dietsHandler.HandleFile)

	// GET /v1/shopping-lists - all shopping lists of a user
	s.mux.HandleFunc("GET /v1/shopping-lists", dietsHandler.HandleListShoppingLists)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler собирает цепочку middleware (outermost first): CORS → Rate Limit → Auth → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		handler = s.authMiddleware.Handler(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Diets API: http://localhost%s/v1/diets\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
