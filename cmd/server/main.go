package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prepmock/backend/internal/auth"
	"github.com/prepmock/backend/internal/content"
	"github.com/prepmock/backend/internal/courses"
	"github.com/prepmock/backend/internal/database"
	"github.com/prepmock/backend/internal/generator"
	"github.com/prepmock/backend/internal/middleware"
	"github.com/prepmock/backend/internal/mocktest"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Domain wiring
	gen := generator.NewGenerator()
	courseStore := courses.NewStore(db)
	testStore := mocktest.NewStore(db)
	materialStore := content.NewStore(db)
	materials := content.NewCachedProvider(materialStore, 15*time.Minute)
	assembler := mocktest.NewAssembler(testStore, gen, materials)
	testService := mocktest.NewService(courseStore, testStore, assembler, gen)

	// Handlers
	authHandler := auth.NewHandler(db)
	courseHandler := courses.NewHandler(courseStore)
	testHandler := mocktest.NewHandler(testService)
	contentHandler := content.NewHandler(materialStore)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api.HandleFunc("/courses", courseHandler.CreateCourse).Methods("POST")
	api.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	api.HandleFunc("/courses/{id}/subjects", courseHandler.ListPlans).Methods("GET")
	api.HandleFunc("/courses/{id}/subjects/{subjectId}", courseHandler.UpsertPlan).Methods("PUT")
	api.HandleFunc("/courses/{id}/mock-tests", testHandler.ListLiveTests).Methods("GET")
	api.HandleFunc("/subjects", courseHandler.CreateSubject).Methods("POST")
	api.HandleFunc("/questions", testHandler.CreateQuestion).Methods("POST")
	api.HandleFunc("/materials", contentHandler.AddMaterial).Methods("POST")
	api.HandleFunc("/mock-tests/generate", testHandler.GenerateMockExam).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/mock-tests/{id}/attempts", testHandler.SubmitAttempt).Methods("POST")
	protected.HandleFunc("/attempts/{id}", testHandler.GetAttempt).Methods("GET")
	protected.HandleFunc("/me/attempts", testHandler.MyAttempts).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s (model %s)", port, gen.ModelName())
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
