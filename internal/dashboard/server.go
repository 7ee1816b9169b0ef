// Package dashboard serves the operator page. Every refresh pulls a fresh
// copy of the bridge state; nothing is pushed to the browser.
package dashboard

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tetragramaton/smartfarm-go/internal/bridge"
	"github.com/tetragramaton/smartfarm-go/internal/command"
	"github.com/tetragramaton/smartfarm-go/internal/telemetry"
)

const DefaultRefresh = 3 * time.Second

//go:embed templates/*.html
var templateFiles embed.FS

var actuatorLabels = map[string]string{
	telemetry.KeyPump: "Pump",
	telemetry.KeyFan:  "Fan",
	telemetry.KeyLED:  "LED",
}

// Bridges hands out the bridge for a set of connection settings. Only
// settings changes call Acquire; requests read the live bridge via Current.
type Bridges interface {
	Acquire(cfg bridge.Config) *bridge.Bridge
	Current() *bridge.Bridge
}

type Server struct {
	bridges Bridges
	refresh time.Duration
	log     *logrus.Entry
	tmpl    *template.Template

	mu       sync.RWMutex
	cfg      bridge.Config
	interval int
}

func NewServer(bridges Bridges, initial bridge.Config, refresh time.Duration, logger *logrus.Entry) *Server {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	s := &Server{
		bridges:  bridges,
		refresh:  refresh,
		log:      logger.WithField("component", "dashboard"),
		tmpl:     template.Must(template.ParseFS(templateFiles, "templates/dashboard.html")),
		cfg:      initial,
		interval: command.DefaultInterval,
	}
	bridges.Acquire(initial)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("POST /command", s.handleCommand)
	mux.HandleFunc("POST /settings", s.handleSettings)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) config() bridge.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// state reads the live bridge. Before the first bridge or after shutdown it
// reports a disconnected, empty state.
func (s *Server) state() bridge.State {
	if b := s.bridges.Current(); b != nil {
		return b.State()
	}
	return bridge.State{}
}

type metricView struct {
	Label string
	Value string
}

type actuatorView struct {
	Device string
	Label  string
	State  string
}

type flash struct {
	OK   bool
	Text string
}

type pageData struct {
	Config         bridge.Config
	Connected      bool
	LastUpdate     string
	Metrics        []metricView
	Actuators      []actuatorView
	RawJSON        string
	Interval       int
	MinInterval    int
	MaxInterval    int
	RefreshSeconds int
	Flash          *flash
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	cfg := s.config()
	st := s.state()

	s.mu.RLock()
	interval := s.interval
	s.mu.RUnlock()

	data := pageData{
		Config:         cfg,
		Connected:      st.Connected,
		LastUpdate:     st.LastUpdate(),
		RawJSON:        st.Snapshot.Pretty(),
		Interval:       interval,
		MinInterval:    command.MinInterval,
		MaxInterval:    command.MaxInterval,
		RefreshSeconds: int(s.refresh / time.Second),
		Flash:          flashFromQuery(r.URL.Query()),
	}
	if data.RefreshSeconds < 1 {
		data.RefreshSeconds = 1
	}
	for _, m := range telemetry.Metrics {
		data.Metrics = append(data.Metrics, metricView{Label: m.Label, Value: m.Value(st.Snapshot)})
	}
	for _, key := range telemetry.Actuators {
		data.Actuators = append(data.Actuators, actuatorView{Device: key, Label: actuatorLabels[key], State: st.Snapshot.Text(key)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.WithError(err).Error("template render failed")
	}
}

func flashFromQuery(q url.Values) *flash {
	if v := q.Get("sent"); v != "" {
		return &flash{OK: true, Text: "Sent: " + v}
	}
	if v := q.Get("failed"); v != "" {
		return &flash{Text: "Failed to send: " + v}
	}
	return nil
}

// commandFromForm maps a button or form submission to its fixed command text.
func commandFromForm(form url.Values) (command.Command, error) {
	switch action := form.Get("action"); action {
	case "status":
		return command.Status(), nil
	case "interval":
		n, err := strconv.Atoi(strings.TrimSpace(form.Get("seconds")))
		if err != nil {
			return command.Command{}, errors.Wrap(err, "interval seconds")
		}
		return command.Interval(n)
	default:
		d, err := command.ParseDevice(action)
		if err != nil {
			return command.Command{}, err
		}
		on, err := command.ParseState(form.Get("state"))
		if err != nil {
			return command.Command{}, err
		}
		return command.Actuator(d, on), nil
	}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd, err := commandFromForm(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if cmd.Kind == command.KindInterval {
		s.mu.Lock()
		s.interval = cmd.Seconds
		s.mu.Unlock()
	}

	text := cmd.String()
	q := url.Values{}
	res := bridge.Result{Err: errors.New("no active bridge")}
	if b := s.bridges.Current(); b != nil {
		res = b.PublishCommand(text)
	}
	if res.OK {
		q.Set("sent", text)
	} else {
		q.Set("failed", text)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func settingsFromForm(form url.Values) (bridge.Config, error) {
	cfg := bridge.Config{
		Broker:   strings.TrimSpace(form.Get("broker")),
		PubTopic: strings.TrimSpace(form.Get("pub")),
		SubTopic: strings.TrimSpace(form.Get("sub")),
	}
	port, err := strconv.Atoi(strings.TrimSpace(form.Get("port")))
	if err != nil || port < 1 || port > 65535 {
		return cfg, errors.Errorf("invalid port %q", form.Get("port"))
	}
	cfg.Port = port
	if cfg.Broker == "" || cfg.PubTopic == "" || cfg.SubTopic == "" {
		return cfg, errors.New("broker, publish topic and subscribe topic are required")
	}
	return cfg, nil
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg, err := settingsFromForm(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// settings and live bridge change together
	s.mu.Lock()
	changed := s.cfg != cfg
	s.cfg = cfg
	s.bridges.Acquire(cfg)
	s.mu.Unlock()

	if changed {
		s.log.WithField("broker", cfg.Address()).Info("connection settings updated")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type stateResponse struct {
	Connected  bool               `json:"connected"`
	LastUpdate string             `json:"last_update"`
	Snapshot   telemetry.Snapshot `json:"snapshot"`
	Config     bridge.Config      `json:"config"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	cfg := s.config()
	st := s.state()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stateResponse{
		Connected:  st.Connected,
		LastUpdate: st.LastUpdate(),
		Snapshot:   st.Snapshot,
		Config:     cfg,
	}); err != nil {
		s.log.WithError(err).Error("encode state")
	}
}
