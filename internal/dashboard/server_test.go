package dashboard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetragramaton/smartfarm-go/internal/bridge"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
	"github.com/tetragramaton/smartfarm-go/internal/interface/mqtt/mock"
)

var initial = bridge.Config{
	Broker:   "10.0.0.5",
	Port:     1883,
	PubTopic: "farm/test/cmd",
	SubTopic: "farm/test/telemetry",
}

type fakeFactory struct {
	ctrl    *gomock.Controller
	clients []*mock.MockAPI
}

func (f *fakeFactory) NewClient(*mqtt.ClientOptions) mqttIface.API {
	tok := mock.NewMockToken(f.ctrl)
	tok.EXPECT().Wait().Return(true).AnyTimes()
	tok.EXPECT().Error().Return(nil).AnyTimes()

	api := mock.NewMockAPI(f.ctrl)
	api.EXPECT().Connect().Return(tok)
	f.clients = append(f.clients, api)
	return api
}

type fixture struct {
	ctrl    *gomock.Controller
	factory *fakeFactory
	reg     *bridge.Registry
	srv     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	factory := &fakeFactory{ctrl: ctrl}
	logger, _ := test.NewNullLogger()
	entry := logrus.NewEntry(logger)

	reg := bridge.NewRegistry(mqttclient.DefaultConfig(), factory, entry)
	s := NewServer(reg, initial, 0, entry)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &fixture{ctrl: ctrl, factory: factory, reg: reg, srv: srv}
}

// client never follows redirects so tests can inspect them.
func (f *fixture) client() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := f.client().Get(f.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (f *fixture) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := f.client().PostForm(f.srv.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// connect completes the handshake of the live bridge.
func (f *fixture) connect(t *testing.T) {
	t.Helper()
	tok := mock.NewMockToken(f.ctrl)
	tok.EXPECT().WaitTimeout(gomock.Any()).Return(true)
	tok.EXPECT().Error().Return(nil)
	b := f.reg.Current()
	f.factory.clients[len(f.factory.clients)-1].EXPECT().
		Subscribe(b.Config().SubTopic, byte(0), gomock.Any()).Return(tok)
	require.True(t, b.HandleConnect().OK)
}

func (f *fixture) expectPublish(text string, err error) {
	tok := mock.NewMockToken(f.ctrl)
	tok.EXPECT().WaitTimeout(gomock.Any()).Return(true)
	tok.EXPECT().Error().Return(err)
	f.factory.clients[len(f.factory.clients)-1].EXPECT().
		Publish(initial.PubTopic, byte(0), false, text).Return(tok)
}

func TestDashboard_BeforeFirstMessage(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `content="3; url=/"`)
	assert.Contains(t, body, `<span id="status">DISCONNECTED</span>`)
	assert.Contains(t, body, `<code id="last-update">-</code>`)
	assert.Contains(t, body, "No data yet.")
	assert.Contains(t, body, `<div class="value">-</div>`)
	assert.Contains(t, body, "farm/test/cmd")
}

func TestDashboard_ShowsLatestSnapshot(t *testing.T) {
	f := newFixture(t)
	b := f.reg.Current()
	require.NotNil(t, b)
	require.True(t, b.HandleMessage([]byte(`{"temp":24.5,"hum":61,"soil":0,"lux":812.6,"pump":"on","fan":"off"}`)).OK)

	code, body := f.get(t, "/")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<div class="value">24.5</div>`)
	assert.Contains(t, body, `<div class="value">61.0</div>`)
	assert.Contains(t, body, `<div class="value">0.0</div>`)
	assert.Contains(t, body, `<div class="value">813</div>`)
	assert.Contains(t, body, "Pump <small>(on)</small>")
	assert.Contains(t, body, "LED <small>(-)</small>")
	assert.NotContains(t, body, "No data yet.")
	assert.NotContains(t, body, `<code id="last-update">-</code>`)
}

func TestDashboard_Flash(t *testing.T) {
	f := newFixture(t)

	_, body := f.get(t, "/?sent=pump+on")
	assert.Contains(t, body, `<div class="flash ok">Sent: pump on</div>`)

	_, body = f.get(t, "/?failed=status")
	assert.Contains(t, body, `<div class="flash failed">Failed to send: status</div>`)
}

func TestCommand_Actuator(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.expectPublish("pump on", nil)

	resp := f.post(t, "/command", url.Values{"action": {"pump"}, "state": {"on"}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?sent=pump+on", resp.Header.Get("Location"))
}

func TestCommand_Interval(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.expectPublish("interval 10", nil)

	resp := f.post(t, "/command", url.Values{"action": {"interval"}, "seconds": {"10"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := f.get(t, "/")
	assert.Contains(t, body, `step="1" value="10"`)
}

func TestCommand_Status(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.expectPublish("status", nil)

	resp := f.post(t, "/command", url.Values{"action": {"status"}})

	assert.Equal(t, "/?sent=status", resp.Header.Get("Location"))
}

func TestCommand_PublishFailure(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.expectPublish("fan off", errors.New("not connected"))

	resp := f.post(t, "/command", url.Values{"action": {"fan"}, "state": {"off"}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?failed=fan+off", resp.Header.Get("Location"))
}

func TestCommand_Invalid(t *testing.T) {
	cases := map[string]url.Values{
		"interval too small": {"action": {"interval"}, "seconds": {"0"}},
		"interval too large": {"action": {"interval"}, "seconds": {"3601"}},
		"interval not int":   {"action": {"interval"}, "seconds": {"fast"}},
		"unknown device":     {"action": {"heater"}, "state": {"on"}},
		"bad state":          {"action": {"led"}, "state": {"dim"}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.post(t, "/command", form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSettings_SwapsBridge(t *testing.T) {
	f := newFixture(t)
	first := f.reg.Current()
	f.factory.clients[0].EXPECT().Disconnect(uint(250))

	resp := f.post(t, "/settings", url.Values{
		"broker": {"10.0.0.9"},
		"port":   {"8883"},
		"pub":    {"farm/b/cmd"},
		"sub":    {"farm/b/telemetry"},
	})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	second := f.reg.Current()
	assert.NotSame(t, first, second)
	assert.Equal(t, bridge.Config{Broker: "10.0.0.9", Port: 8883, PubTopic: "farm/b/cmd", SubTopic: "farm/b/telemetry"}, second.Config())
	assert.Len(t, f.factory.clients, 2)

	_, body := f.get(t, "/")
	assert.Contains(t, body, "<b>10.0.0.9:8883</b>")
}

func TestSettings_UnchangedKeepsBridge(t *testing.T) {
	f := newFixture(t)
	first := f.reg.Current()

	resp := f.post(t, "/settings", url.Values{
		"broker": {initial.Broker},
		"port":   {"1883"},
		"pub":    {initial.PubTopic},
		"sub":    {initial.SubTopic},
	})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Same(t, first, f.reg.Current())
	assert.Len(t, f.factory.clients, 1)
}

func TestSettings_Invalid(t *testing.T) {
	cases := map[string]url.Values{
		"port zero": {"broker": {"h"}, "port": {"0"}, "pub": {"p"}, "sub": {"s"}},
		"port text": {"broker": {"h"}, "port": {"x"}, "pub": {"p"}, "sub": {"s"}},
		"port high": {"broker": {"h"}, "port": {"70000"}, "pub": {"p"}, "sub": {"s"}},
		"no broker": {"broker": {" "}, "port": {"1883"}, "pub": {"p"}, "sub": {"s"}},
		"no sub":    {"broker": {"h"}, "port": {"1883"}, "pub": {"p"}, "sub": {""}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.post(t, "/settings", form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Len(t, f.factory.clients, 1)
		})
	}
}

func TestAPIState(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.Current().HandleMessage([]byte(`{"temp":21.25,"note":"x"}`)).OK)

	code, body := f.get(t, "/api/state")
	require.Equal(t, http.StatusOK, code)

	var got struct {
		Connected  bool           `json:"connected"`
		LastUpdate string         `json:"last_update"`
		Snapshot   map[string]any `json:"snapshot"`
		Config     bridge.Config  `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.False(t, got.Connected)
	assert.NotEqual(t, "-", got.LastUpdate)
	assert.Equal(t, 21.25, got.Snapshot["temp"])
	assert.Equal(t, "x", got.Snapshot["note"])
	assert.Equal(t, initial, got.Config)
}

func TestCommand_DisconnectedReportsFailure(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/command", url.Values{"action": {"pump"}, "state": {"on"}})

	assert.Equal(t, "/?failed=pump+on", resp.Header.Get("Location"))
}

func TestRequestsNeverRebuildBridge(t *testing.T) {
	f := newFixture(t)
	f.factory.clients[0].EXPECT().Disconnect(uint(250))
	f.reg.Close()
	require.Nil(t, f.reg.Current())

	code, body := f.get(t, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<span id="status">DISCONNECTED</span>`)

	code, _ = f.get(t, "/api/state")
	assert.Equal(t, http.StatusOK, code)

	resp := f.post(t, "/command", url.Values{"action": {"status"}})
	assert.Equal(t, "/?failed=status", resp.Header.Get("Location"))

	assert.Nil(t, f.reg.Current())
	assert.Len(t, f.factory.clients, 1)
}

func TestHealthzAndUnknownPath(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", strings.TrimSpace(body))

	code, _ = f.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}
