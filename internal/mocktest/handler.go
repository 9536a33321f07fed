package mocktest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prepmock/backend/internal/courses"
	"github.com/prepmock/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) GenerateMockExam(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateMockTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.CourseID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "course_id is required"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title is required"})
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}

	test, err := h.service.GenerateMockExam(r.Context(), req)
	if err != nil {
		if errors.Is(err, courses.ErrCourseNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course not found"})
			return
		}
		if errors.Is(err, ErrNoSubjectsConfigured) {
			writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Course has no subjects configured"})
			return
		}
		log.Printf("[mocktest] GenerateMockExam error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Exam generation failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, test)
}

func (h *Handler) ListLiveTests(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid course ID"})
		return
	}

	tests, err := h.service.ListLiveTests(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, courses.ErrCourseNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course not found"})
			return
		}
		log.Printf("[mocktest] ListLiveTests error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list mock tests"})
		return
	}

	if tests == nil {
		tests = []models.MockTest{}
	}
	writeJSON(w, http.StatusOK, models.MockTestListResponse{MockTests: tests, Total: len(tests)})
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	testID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid mock test ID"})
		return
	}

	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	attempt, err := h.service.SubmitAttempt(r.Context(), userID, testID, req.Answers)
	if err != nil {
		if errors.Is(err, ErrMockTestNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Mock test not found"})
			return
		}
		log.Printf("[mocktest] SubmitAttempt error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to grade attempt"})
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	attemptID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid attempt ID"})
		return
	}

	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	attempt, err := h.service.GetAttempt(r.Context(), attemptID)
	if err != nil || attempt.UserID != userID {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Attempt not found"})
		return
	}

	writeJSON(w, http.StatusOK, attempt)
}

func (h *Handler) MyAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	limit := intQueryParam(query, "limit", 20)
	offset := intQueryParam(query, "offset", 0)

	attempts, err := h.service.ListUserAttempts(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[mocktest] MyAttempts error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list attempts"})
		return
	}

	if attempts == nil {
		attempts = []models.MockTestAttempt{}
	}
	writeJSON(w, http.StatusOK, models.AttemptListResponse{Attempts: attempts, Total: len(attempts)})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.SubjectID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "subject_id is required"})
		return
	}
	if strings.TrimSpace(req.QuestionText) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_text is required"})
		return
	}
	if len(req.Options) < 2 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "at least 2 options are required"})
		return
	}
	if req.CorrectIndex < 0 || req.CorrectIndex >= len(req.Options) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "correct_index out of range"})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be 'easy', 'medium', or 'hard'"})
		return
	}

	question, err := h.service.CreateQuestion(r.Context(), req)
	if err != nil {
		log.Printf("[mocktest] CreateQuestion error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create question"})
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
