package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/justinas/alice"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"go-plandy/internal/clock"
	"go-plandy/internal/llm"
	"go-plandy/internal/runs"
	"go-plandy/internal/schedule"
	"go-plandy/internal/workflow"
	"go-plandy/pkg/data"
	"go-plandy/pkg/logger"
	"go-plandy/pkg/messages"
	"go-plandy/pkg/models"
)

type chatRequest struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Success      bool     `json:"success"`
	AIResponse   string   `json:"ai_response"`
	SessionID    string   `json:"session_id"`
	SystemStatus string   `json:"system_status"`
	Errors       []string `json:"errors,omitempty"`
}

func toChatResponse(st models.SharedState) chatResponse {
	return chatResponse{
		Success:      st.SystemStatus != models.StatusError,
		AIResponse:   st.AIResponse,
		SessionID:    st.SessionID,
		SystemStatus: st.SystemStatus,
		Errors:       st.ErrorMessages,
	}
}

type stepResponse struct {
	Node    string `json:"node"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Deps are the wired components the server routes requests into.
type Deps struct {
	Engine *workflow.Engine
	Store  *schedule.Store
	Clock  *clock.Service
	LLM    *llm.Factory
}

type Server struct {
	ac     *actor.RootContext
	deps   Deps
	server *http.Server
	runs   *runs.Cache
}

func New(ac *actor.RootContext, addr string, deps Deps) *Server {
	s := &Server{
		ac:   ac,
		deps: deps,
		runs: runs.NewCache(),
	}

	r := chi.NewRouter()
	r.Use(logMiddleware())

	r.Post("/chat", s.handleChat)
	r.Post("/chat/stream", s.handleChatStream)
	r.Get("/ws/chat", s.handleChatWS)
	r.Post("/runs", s.handleNewRun)
	r.Get("/runs/{id}", s.handleRunStatus)
	r.Get("/schedules/{userID}", s.handleListSchedules)
	r.Post("/schedules", s.handleSaveSchedule)
	r.Post("/schedules/{id}/optimize", s.handleOptimizeSchedule)
	r.Get("/time", s.handleTime)
	r.Get("/healthz", s.handleHealthz)

	s.server = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// initialState builds the run state for one chat request, stamping locale
// context so downstream nodes can answer in the user's time and language.
func (s *Server) initialState(req chatRequest) models.SharedState {
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	st := models.NewInitialState(req.Message, req.UserID, req.SessionID)

	language := data.DetectLanguage(req.Message)
	tz := data.TimezoneFor(language)
	st.Context["language"] = language
	st.Context["timezone"] = tz
	if now, err := s.deps.Clock.Now(tz); err == nil {
		st.Context["current_time"] = now.ReadableTime
	}
	return st
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := unmarshalRequestBody(r, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	st := s.initialState(req)
	final := s.deps.Engine.Run(r.Context(), st)

	render.JSON(w, r, toChatResponse(final))
}

// handleChatStream runs the pipeline and pushes one SSE event per completed
// node, then a final event carrying the reply.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := unmarshalRequestBody(r, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "streaming unsupported"})
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	st := s.initialState(req)
	for ev := range s.deps.Engine.Stream(r.Context(), st) {
		if ev.Terminal {
			writeSSE(w, "done", toChatResponse(ev.State))
		} else {
			writeSSE(w, "step", stepResponse{
				Node:    string(ev.Node),
				Status:  ev.State.SystemStatus,
				Message: lastMessage(ev.State),
			})
		}
		flusher.Flush()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsFrame struct {
	Type string        `json:"type"` // "step" or "done"
	Step *stepResponse `json:"step,omitempty"`
	Done *chatResponse `json:"done,omitempty"`
}

// handleChatWS serves a persistent chat session: each inbound frame is one
// pipeline run, answered with per-node progress frames and a final reply.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		if req.SessionID == "" {
			req.SessionID = sessionID
		}

		for ev := range s.deps.Engine.Stream(r.Context(), s.initialState(req)) {
			var frame wsFrame
			if ev.Terminal {
				done := toChatResponse(ev.State)
				frame = wsFrame{Type: "done", Done: &done}
			} else {
				frame = wsFrame{Type: "step", Step: &stepResponse{
					Node:    string(ev.Node),
					Status:  ev.State.SystemStatus,
					Message: lastMessage(ev.State),
				}}
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}

func (s *Server) handleNewRun(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := unmarshalRequestBody(r, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	decider := func(reason interface{}) actor.Directive {
		log.Error().Msgf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	strategy := actor.NewOneForOneStrategy(3, 10000, decider)

	props := actor.PropsFromProducer(func() actor.Actor {
		return runs.NewActor(s.deps.Engine)
	}, actor.WithSupervisor(strategy))
	pid := s.ac.Spawn(props)

	id := uuid.New()
	s.ac.Send(pid, messages.StartRun{
		RunID:     id,
		Message:   req.Message,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})
	s.runs.Put(id, pid)

	log.Debug().Str(logger.RunIDField, id.String()).Msg("run has been started")
	render.JSON(w, r, struct {
		ID string `json:"id"`
	}{id.String()})
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse id"})
		return
	}
	pid, ok := s.runs.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	future := s.ac.RequestFuture(pid, messages.GetStatus{}, time.Minute) // blocking
	res, err := future.Result()
	if err != nil {
		s.runs.Delete(id)
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Str(logger.RunIDField, idParam).Err(err).Msg("unable to get status from actor")
		return
	}

	status, ok := res.(messages.RunStatus)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Str(logger.RunIDField, idParam).Msg("unknown status from actor")
		return
	}
	render.JSON(w, r, status)
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse user id"})
		return
	}

	var date *time.Time
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		date = &parsed
	}

	schedules, err := s.deps.Store.List(r.Context(), userID, date)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Err(err).Msg("schedule list failed")
		render.JSON(w, r, errorResponse{Error: "schedule lookup failed"})
		return
	}
	render.JSON(w, r, struct {
		Schedules []schedule.Schedule `json:"schedules"`
	}{schedules})
}

func (s *Server) handleSaveSchedule(w http.ResponseWriter, r *http.Request) {
	var sc schedule.Schedule
	if err := unmarshalRequestBody(r, &sc); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	id, err := s.deps.Store.Save(r.Context(), sc)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Err(err).Msg("schedule save failed")
		render.JSON(w, r, errorResponse{Error: "schedule save failed"})
		return
	}
	render.JSON(w, r, struct {
		ID int64 `json:"id"`
	}{id})
}

func (s *Server) handleOptimizeSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse schedule id"})
		return
	}

	result, err := s.deps.Store.Optimize(r.Context(), id, r.URL.Query().Get("type"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		log.Debug().Err(err).Msg("schedule optimize failed")
		render.JSON(w, r, errorResponse{Error: "schedule not found"})
		return
	}
	render.JSON(w, r, result)
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	tz := r.URL.Query().Get("timezone")
	if tz == "" {
		tz = r.URL.Query().Get("tz")
	}
	now, err := s.deps.Clock.Now(tz)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}
	render.JSON(w, r, now)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	storeOK := s.deps.Store != nil && s.deps.Store.Ping(r.Context()) == nil
	render.JSON(w, r, struct {
		Status string        `json:"status"`
		Graph  workflow.Info `json:"graph"`
		LLM    bool          `json:"llm_available"`
		Store  bool          `json:"store_available"`
	}{"ok", s.deps.Engine.Info(), s.deps.LLM.Available(), storeOK})
}

func writeSSE(w http.ResponseWriter, event string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("sse payload marshal failed")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, body)
}

func lastMessage(st models.SharedState) string {
	if len(st.Messages) == 0 {
		return ""
	}
	return st.Messages[len(st.Messages)-1].Content
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func unmarshalRequestBody(req *http.Request, output interface{}) error {
	if req.Body == nil {
		return errors.New("invalid body in request")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if err = req.Body.Close(); err != nil {
		return err
	}
	if err = json.Unmarshal(body, &output); err != nil {
		return err
	}

	return nil
}
