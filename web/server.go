// Package web serves the dashboard: an HTML grid of the most-viewed videos
// from the stored snapshot, refreshed on a schedule by a discovery run.
package web

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ytmovers/config"
	"ytmovers/snapshot"
	"ytmovers/storage"
	"ytmovers/tracker"
	"ytmovers/youtube"
)

//go:embed dashboard.html.tmpl
var dashboardHTML string

// Server renders the dashboard and keeps the underlying snapshot fresh.
type Server struct {
	cfg      *config.Config
	store    storage.SnapshotStore
	guard    storage.RunGuard
	provider youtube.StatsProvider
	logger   *zap.Logger
	tmpl     *template.Template
	now      func() time.Time
}

// NewServer creates a dashboard server. provider may be nil, in which case
// the server only renders what the store already holds and never triggers
// a discovery run.
func NewServer(cfg *config.Config, store storage.SnapshotStore, guard storage.RunGuard, provider youtube.StatsProvider, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"comma":  comma,
		"addOne": func(i int) int { return i + 1 },
	}).Parse(dashboardHTML)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		guard:    guard,
		provider: provider,
		logger:   logger.Named("web"),
		tmpl:     tmpl,
		now:      time.Now,
	}, nil
}

// Router returns the HTTP routes for the dashboard.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Start serves the dashboard on cfg.ListenAddr and schedules periodic
// snapshot refreshes until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	c := cron.New()
	if s.provider != nil && s.cfg.RefreshEvery > 0 {
		_, err := c.AddFunc("@every "+s.cfg.RefreshEvery.String(), func() {
			rctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
			defer cancel()
			s.refresh(rctx)
		})
		if err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		c.Start()
		defer c.Stop()
	}

	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", s.cfg.ListenAddr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// pageData is what the dashboard template renders.
type pageData struct {
	GeneratedAt time.Time
	TakenAt     time.Time
	Rows        []snapshot.RankedRow
	Empty       bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("loading snapshot", zap.Error(err))
		http.Error(w, "snapshot unavailable", http.StatusInternalServerError)
		return
	}

	// First visit with nothing stored: run discovery inline so the page
	// has something to show. An empty result is rendered as-is and never
	// persisted.
	if (snap == nil || snap.Empty()) && s.provider != nil {
		snap = s.refresh(ctx)
	}

	data := pageData{GeneratedAt: s.now(), Empty: true}
	if snap != nil && !snap.Empty() {
		data.TakenAt = snap.TakenAt
		data.Rows = snapshot.TopN(snap, snapshot.ViewsAsDeltas(snap), nil, snapshot.MetricViews, s.cfg.TopN)
		data.Empty = false
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("rendering dashboard", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// refresh runs a discovery pass and persists the result. It honours the
// run guard so the scheduler can fire more often than discovery is allowed
// to run, and it never replaces the stored snapshot with an empty one.
// It returns the fresh snapshot, or nil when the refresh was skipped or
// came back empty.
func (s *Server) refresh(ctx context.Context) *snapshot.Snapshot {
	if s.guard != nil {
		last, ok, err := s.guard.LastRun(ctx)
		if err != nil {
			s.logger.Warn("reading run guard", zap.Error(err))
		}
		if ok && s.now().Sub(last) < tracker.GuardWindow {
			s.logger.Debug("discovery skipped, guard window not elapsed",
				zap.Time("last_run", last))
			return nil
		}
	}

	channels := config.LoadChannelSources(s.cfg.ChannelsFile)
	keywords := config.LoadKeywordSources(s.cfg.KeywordsFile)
	limits := tracker.DiscoveryLimits{
		PerChannel: s.cfg.MaxPerChannel,
		PerKeyword: s.cfg.MaxPerKeyword,
	}

	snap, err := tracker.BuildDiscovered(ctx, s.provider, channels, keywords, limits, s.now(), s.logger)
	if err != nil {
		s.logger.Error("discovery refresh failed", zap.Error(err))
		return nil
	}
	if snap.Empty() {
		s.logger.Warn("discovery refresh found nothing, keeping stored snapshot")
		return nil
	}

	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.Error("saving refreshed snapshot", zap.Error(err))
		return snap
	}
	if s.guard != nil {
		if err := s.guard.SetLastRun(ctx, s.now()); err != nil {
			s.logger.Warn("updating run guard", zap.Error(err))
		}
	}
	s.logger.Info("snapshot refreshed", zap.Int("videos", len(snap.Videos)))
	return snap
}

// comma formats n with thousands separators for the template.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
