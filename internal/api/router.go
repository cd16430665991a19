package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/api/middleware"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/store"
)

type API struct {
	host     *host.Host
	store    store.Store
	recent   *recent.Registry
	dirty    *editing.DirtySet
	platform core.Platform
	log      *zap.Logger

	mu     sync.Mutex
	opened map[string]openRecord
}

// openRecord remembers which window an Idempotency-Key opened.
type openRecord struct {
	hash     string
	windowID string
}

func NewAPI(h *host.Host, st store.Store, rec *recent.Registry, dirty *editing.DirtySet, p core.Platform, log *zap.Logger) *API {
	return &API{
		host:     h,
		store:    st,
		recent:   rec,
		dirty:    dirty,
		platform: p,
		log:      log,
		opened:   make(map[string]openRecord),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(a.log))
	r.Use(middleware.Logger(a.log))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Health endpoints
	r.Get("/healthz", a.HealthHandler)
	r.Get("/readyz", a.ReadyHandler)

	r.Route("/v1", func(r chi.Router) {
		// Windows
		r.Get("/windows", a.ListWindows)
		r.Post("/windows", a.OpenWindow)
		r.Get("/windows/{wid}", a.GetWindow)
		r.Post("/windows/{wid}/shutdown", a.Shutdown)

		// Folders
		r.Post("/windows/{wid}/folders:update", a.UpdateFolders)
		r.Post("/windows/{wid}/folders:add", a.AddFolders)
		r.Post("/windows/{wid}/folders:remove", a.RemoveFolders)

		// Workspace identity
		r.Post("/windows/{wid}/workspace:validate-target", a.ValidateTarget)
		r.Post("/windows/{wid}/workspace:enter", a.EnterWorkspace)
		r.Post("/windows/{wid}/workspace:create", a.CreateWorkspace)
		r.Post("/windows/{wid}/workspace:save-as", a.SaveAs)
		r.Post("/windows/{wid}/workspace:save-and-enter", a.SaveAndEnter)

		// Settings and storage
		r.Get("/windows/{wid}/settings", a.GetSettings)
		r.Post("/windows/{wid}/settings:copy", a.CopySettings)
		r.Get("/windows/{wid}/storage", a.ListStorage)
		r.Put("/windows/{wid}/storage/{key}", a.PutStorage)
		r.Get("/windows/{wid}/transitions", a.ListTransitions)

		r.Get("/recent", a.ListRecent)
		r.Get("/files/dirty", a.ListDirty)
		r.Post("/files:mark-dirty", a.MarkDirty)
	})

	return r
}

// Answers carries the replies to dialogs an operation may raise.
type Answers struct {
	Choices    []string       `json:"choices,omitempty"`
	SaveTarget *core.Location `json:"save_target,omitempty"`
}

// withAnswers routes dialogs raised while serving r to a preset built from ans.
func withAnswers(r *http.Request, ans Answers) (context.Context, *dialog.Preset) {
	preset := dialog.NewPreset(ans.Choices, ans.SaveTarget)
	return dialog.WithService(r.Context(), preset), preset
}

func decodeBody(r *http.Request, v interface{}) *core.AppError {
	if r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return core.NewAppError(core.ErrBadRequest, "invalid request body")
	}
	return nil
}

// parseLimit parses a limit query parameter with default and max values.
func parseLimit(s string, defaultVal, maxVal int) int {
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return defaultVal
	}
	if n > maxVal {
		return maxVal
	}
	return n
}
