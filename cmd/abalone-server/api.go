package main

import (
	"encoding/json"
	"io"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/game"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
	"github.com/dhruvparekh01/abalone/internal/movegen"
	"github.com/dhruvparekh01/abalone/internal/notation"
	"github.com/dhruvparekh01/abalone/internal/search"
)

// maxSearchBudget bounds /api/search requests.
const maxSearchBudget = 60 * time.Second

type server struct {
	controller *game.Controller
	hub        *Hub
	searchHub  *SearchHub
	logger     zerolog.Logger
}

type sideDTO struct {
	Score       int   `json:"score"`
	Marbles     int   `json:"marbles"`
	Moves       int   `json:"moves"`
	TotalTimeMs int64 `json:"total_time_ms"`
	LastTimeMs  int64 `json:"last_time_ms"`
}

type historyEntryDTO struct {
	Colour    board.Colour `json:"colour"`
	Move      movegen.Move `json:"move"`
	MoveText  string       `json:"move_text"`
	Cells     string       `json:"cells"`
	ElapsedMs int64        `json:"elapsed_ms"`
	IsAi      bool         `json:"is_ai"`
	Depth     int          `json:"depth"`
	Pass      bool         `json:"pass,omitempty"`
}

type statusResponse struct {
	Settings        game.Settings     `json:"settings"`
	Config          config.Config     `json:"config"`
	Status          game.Status       `json:"status"`
	ToMove          board.Colour      `json:"to_move"`
	Board           [][]int           `json:"board"`
	Cells           string            `json:"cells"`
	Black           sideDTO           `json:"black"`
	White           sideDTO           `json:"white"`
	LastMove        *historyEntryDTO  `json:"last_move,omitempty"`
	Message         string            `json:"message,omitempty"`
	AiThinking      bool              `json:"ai_thinking"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings game.Settings `json:"settings"`
	Config   config.Config `json:"config"`
}

type moveRequest struct {
	Marbles   []board.Coord   `json:"marbles"`
	Direction board.Direction `json:"direction"`
}

type positionRequest struct {
	Colour    string `json:"colour"`
	Cells     string `json:"cells"`
	Evaluator string `json:"evaluator"`
	BudgetMs  int    `json:"budget_ms"`
	MaxDepth  int    `json:"max_depth"`
}

type successorDTO struct {
	Cells string       `json:"cells"`
	Move  movegen.Move `json:"move"`
	Text  string       `json:"text"`
}

type searchResponse struct {
	Found      bool          `json:"found"`
	Move       *successorDTO `json:"move,omitempty"`
	Value      float64       `json:"value"`
	Depth      int           `json:"depth"`
	Nodes      int64         `json:"nodes"`
	Cutoffs    int64         `json:"cutoffs"`
	ElapsedMs  int64         `json:"elapsed_ms"`
	DepthTimes string        `json:"depth_times"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  stdlog.New(s.logger, "", 0),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	})
	r.Post("/api/start", s.handleStart)
	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		s.controller.Stop()
		status := controllerStatus(s.controller)
		s.hub.PublishStatus(status)
		writeJSON(w, http.StatusOK, status)
	})
	r.Post("/api/move", s.handleMove)
	r.Post("/api/undo", func(w http.ResponseWriter, r *http.Request) {
		if err := s.controller.Undo(); err != nil {
			writeError(w, err)
			return
		}
		status := controllerStatus(s.controller)
		s.hub.PublishReset(status)
		writeJSON(w, http.StatusOK, status)
	})
	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsPayload{Settings: s.controller.Settings(), Config: config.Get()})
	})
	r.Post("/api/settings", s.handleSettings)
	r.Get("/api/evaluators", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"names": heuristic.Names(), "default": heuristic.DefaultName})
	})
	r.Post("/api/successors", s.handleSuccessors)
	r.Post("/api/evaluate", s.handleEvaluate)
	r.Post("/api/search", s.handleSearch)

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.hub, s.controller, w, r)
	})
	r.Get("/ws/search", func(w http.ResponseWriter, r *http.Request) {
		serveSearchWS(s.searchHub, w, r)
	})
	return r
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := decodeOptional(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload: " + err.Error()})
		return
	}
	settings := s.controller.Settings()
	if err := overlay(payload.Settings, &settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settings: " + err.Error()})
		return
	}
	if err := s.controller.StartGame(settings); err != nil {
		writeError(w, err)
		return
	}
	status := controllerStatus(s.controller)
	s.hub.PublishReset(status)
	writeJSON(w, http.StatusOK, status)
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload: " + err.Error()})
		return
	}
	if _, err := s.controller.ApplyHumanMove(payload.Marbles, payload.Direction); err != nil {
		writeError(w, err)
		return
	}
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		s.hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	status := controllerStatus(s.controller)
	s.hub.PublishStatus(status)
	writeJSON(w, http.StatusOK, status)
}

// handleSettings overlays the posted fields on the current settings and
// engine config. Either both parts are applied or neither is.
func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings json.RawMessage `json:"settings"`
		Config   json.RawMessage `json:"config"`
		Reset    bool            `json:"reset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload: " + err.Error()})
		return
	}
	cfg := config.Get()
	if len(payload.Config) > 0 {
		if err := overlay(payload.Config, &cfg); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid config: " + err.Error()})
			return
		}
		if err := cfg.Validate(); err != nil {
			writeError(w, err)
			return
		}
	}
	settings := s.controller.Settings()
	if len(payload.Settings) > 0 {
		if err := overlay(payload.Settings, &settings); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settings: " + err.Error()})
			return
		}
		if err := settings.Validate(); err != nil {
			writeError(w, err)
			return
		}
	}

	// Both parts are valid; nothing is applied before this point.
	if len(payload.Config) > 0 {
		config.Set(cfg)
		if err := s.controller.SetConfig(cfg); err != nil {
			writeError(w, err)
			return
		}
	}
	if len(payload.Settings) > 0 {
		if err := s.controller.UpdateSettings(settings, payload.Reset); err != nil {
			writeError(w, err)
			return
		}
	}
	current := settingsPayload{Settings: s.controller.Settings(), Config: config.Get()}
	s.hub.PublishSettings(current)
	writeJSON(w, http.StatusOK, current)
}

func (s *server) handleSuccessors(w http.ResponseWriter, r *http.Request) {
	_, colour, b, ok := decodePosition(w, r)
	if !ok {
		return
	}
	successors := movegen.GenerateBySize(colour, b)
	out := make([]successorDTO, 0, len(successors))
	for _, succ := range successors {
		out = append(out, successorToDTO(succ))
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "successors": out})
}

func (s *server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	req, colour, b, ok := decodePosition(w, r)
	if !ok {
		return
	}
	ev, err := heuristic.Lookup(req.Evaluator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"value": ev.Evaluate(b, colour)})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, colour, b, ok := decodePosition(w, r)
	if !ok {
		return
	}
	cfg := config.Get()
	if req.Evaluator == "" {
		req.Evaluator = cfg.AiHeuristic
	}
	ev, err := heuristic.Lookup(req.Evaluator)
	if err != nil {
		writeError(w, err)
		return
	}
	budget := time.Duration(req.BudgetMs) * time.Millisecond
	if req.BudgetMs <= 0 {
		budget = cfg.TimeBudget()
	}
	if budget > maxSearchBudget {
		budget = maxSearchBudget
	}
	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.AiMaxDepth
	}
	res := search.Search(b, colour, search.Options{
		Evaluator:       ev,
		Budget:          budget,
		SafetyMargin:    cfg.SafetyMargin(),
		MaxDepth:        maxDepth,
		OrderMinimizing: cfg.AiOrderMinimizing,
	})
	resp := searchResponse{
		Found:      res.Found,
		Value:      res.Value,
		Depth:      res.Depth,
		Nodes:      res.Stats.Nodes,
		Cutoffs:    res.Stats.Cutoffs,
		ElapsedMs:  res.Stats.Elapsed().Milliseconds(),
		DepthTimes: res.Stats.DepthTimes(),
	}
	if res.Found {
		dto := successorToDTO(movegen.Successor{Board: res.Board, Move: res.Move})
		resp.Move = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodePosition(w http.ResponseWriter, r *http.Request) (positionRequest, board.Colour, board.Board, bool) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload: " + err.Error()})
		return req, board.White, board.Board{}, false
	}
	colour, err := board.ParseColour(req.Colour)
	if err != nil {
		writeError(w, err)
		return req, board.White, board.Board{}, false
	}
	b, err := notation.ParseCells(req.Cells)
	if err != nil {
		writeError(w, err)
		return req, board.White, board.Board{}, false
	}
	return req, colour, b, true
}

func overlay(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// decodeOptional accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrNotRunning),
		errors.Is(err, game.ErrNotHumanTurn),
		errors.Is(err, game.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrInvalidSettings),
		errors.Is(err, board.ErrInvalidLabel),
		errors.Is(err, board.ErrInvalidColour),
		errors.Is(err, board.ErrInvalidDirection),
		errors.Is(err, notation.ErrMalformedInput),
		errors.Is(err, heuristic.ErrUnknownEvaluator),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

func controllerStatus(controller *game.Controller) statusResponse {
	state := controller.State()
	history := controller.History().All()
	resp := statusResponse{
		Settings:        controller.Settings(),
		Config:          config.Get(),
		Status:          state.Status,
		ToMove:          state.ToMove,
		Board:           state.Board.Grid(),
		Cells:           notation.FormatBoard(state.Board),
		Black:           sideFromState(state, board.Black),
		White:           sideFromState(state, board.White),
		Message:         state.LastMessage,
		AiThinking:      controller.AiThinking(),
		History:         make([]historyEntryDTO, 0, len(history)),
		TurnStartedAtMs: controller.TurnStartedAt().UnixMilli(),
	}
	for _, entry := range history {
		resp.History = append(resp.History, historyEntryToDTO(entry))
	}
	if n := len(resp.History); n > 0 {
		last := resp.History[n-1]
		resp.LastMove = &last
	}
	return resp
}

func sideFromState(state game.State, colour board.Colour) sideDTO {
	return sideDTO{
		Score:       state.Score(colour),
		Marbles:     state.Board.Count(colour),
		Moves:       state.MovesFor(colour),
		TotalTimeMs: state.TotalTimeFor(colour).Milliseconds(),
		LastTimeMs:  state.LastTime[colour].Milliseconds(),
	}
}

func historyEntryToDTO(entry game.HistoryEntry) historyEntryDTO {
	dto := historyEntryDTO{
		Colour:    entry.Colour,
		Move:      entry.Move,
		Cells:     notation.FormatBoard(entry.Board),
		ElapsedMs: entry.Elapsed.Milliseconds(),
		IsAi:      entry.IsAI,
		Depth:     entry.Depth,
		Pass:      entry.Pass,
	}
	if !entry.Pass {
		dto.MoveText = entry.Move.String()
	}
	return dto
}

func successorToDTO(s movegen.Successor) successorDTO {
	return successorDTO{Cells: notation.FormatBoard(s.Board), Move: s.Move, Text: s.Move.String()}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
