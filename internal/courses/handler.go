package courses

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prepmock/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}

	course, err := h.store.CreateCourse(r.Context(), req.Name)
	if err != nil {
		log.Printf("[courses] CreateCourse error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create course"})
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		log.Printf("[courses] ListCourses error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list courses"})
		return
	}

	if courses == nil {
		courses = []models.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}

	subject, err := h.store.CreateSubject(r.Context(), req.Name)
	if err != nil {
		log.Printf("[courses] CreateSubject error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create subject"})
		return
	}

	writeJSON(w, http.StatusCreated, subject)
}

func (h *Handler) UpsertPlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid course ID"})
		return
	}
	subjectID, err := strconv.ParseInt(vars["subjectId"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid subject ID"})
		return
	}

	var req models.UpsertPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.QuestionCount <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_count must be positive"})
		return
	}
	if req.MarksPerQuestion <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "marks_per_question must be positive"})
		return
	}
	if req.NegativeMarks < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "negative_marks must not be negative"})
		return
	}
	if req.SourcingMode != "" && !models.ValidSourcingModes[req.SourcingMode] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "sourcing_mode must be 'bank' or 'generative'"})
		return
	}

	plan, err := h.store.UpsertPlan(r.Context(), courseID, subjectID, req)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) || errors.Is(err, ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("[courses] UpsertPlan error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save subject plan"})
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid course ID"})
		return
	}

	plans, err := h.store.ResolvePlan(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course not found"})
			return
		}
		log.Printf("[courses] ListPlans error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list subject plans"})
		return
	}

	if plans == nil {
		plans = []models.SubjectPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
