package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"chatsql/internal/application/port/input"
	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTitle = "Chat with MySQL DB"
	appTitle  = "🦜 Chat with SQL DB"
)

type Handler struct {
	runner   input.QueryRunner
	markdown *Markdown
	page     *template.Template
	logger   output.LoggerPort
}

func NewHandler(runner input.QueryRunner, logger output.LoggerPort) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		runner:   runner,
		markdown: NewMarkdown(),
		page:     page,
		logger:   logger,
	}, nil
}

type pageData struct {
	PageTitle  string
	Title      string
	Form       entity.QueryRequest
	Outcome    *entity.Outcome
	AnswerHTML template.HTML
	Elapsed    string
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{})
}

// Query handles the "Run Query" form. Every field is echoed back so the
// sidebar keeps its values between runs.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := entity.QueryRequest{
		Credentials: entity.Credentials{
			Host:     r.PostFormValue("host"),
			User:     r.PostFormValue("user"),
			Password: r.PostFormValue("password"),
			Database: r.PostFormValue("database"),
			APIKey:   r.PostFormValue("api_key"),
		},
		Query: r.PostFormValue("query"),
	}

	outcome := h.runner.Run(r.Context(), req, nil)

	data := pageData{Form: req, Outcome: &outcome}
	if outcome.Answer != "" {
		data.AnswerHTML = h.markdown.Render(outcome.Answer)
	}
	if outcome.Duration > 0 {
		data.Elapsed = outcome.Duration.Round(time.Millisecond).String()
	}
	h.render(w, http.StatusOK, data)
}

type apiRequest struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	APIKey   string `json:"api_key"`
	Query    string `json:"query"`
}

type apiStep struct {
	Iteration   int    `json:"iteration"`
	Tool        string `json:"tool"`
	Input       string `json:"input,omitempty"`
	Observation string `json:"observation"`
	IsError     bool   `json:"is_error,omitempty"`
}

type apiResponse struct {
	Level      entity.BannerLevel `json:"level"`
	Message    string             `json:"message"`
	Answer     string             `json:"answer,omitempty"`
	Steps      []apiStep          `json:"steps"`
	DurationMS int64              `json:"duration_ms"`
}

// APIQuery is the JSON form of Query: 200 on success, 400 when the request
// fails validation, 502 when the agent or database fails.
func (h *Handler) APIQuery(w http.ResponseWriter, r *http.Request) {
	var body apiRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Level:   entity.BannerError,
			Message: "Error: invalid JSON body",
			Steps:   []apiStep{},
		})
		return
	}

	req := entity.QueryRequest{
		Credentials: entity.Credentials{
			Host:     body.Host,
			User:     body.User,
			Password: body.Password,
			Database: body.Database,
			APIKey:   body.APIKey,
		},
		Query: body.Query,
	}

	outcome := h.runner.Run(r.Context(), req, nil)

	resp := apiResponse{
		Level:      outcome.Banner.Level,
		Message:    outcome.Banner.Message,
		Answer:     outcome.Answer,
		Steps:      make([]apiStep, 0, len(outcome.Steps)),
		DurationMS: outcome.Duration.Milliseconds(),
	}
	for _, s := range outcome.Steps {
		resp.Steps = append(resp.Steps, apiStep(s))
	}

	writeJSON(w, statusFor(req, outcome), resp)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func statusFor(req entity.QueryRequest, outcome entity.Outcome) int {
	if outcome.Succeeded() {
		return http.StatusOK
	}
	if _, ok := entity.ValidationBanner(req.Validate()); ok {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	data.PageTitle = pageTitle
	data.Title = appTitle

	var sb strings.Builder
	if err := h.page.Execute(&sb, data); err != nil {
		h.logger.Error("Failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(sb.String()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
