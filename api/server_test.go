package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/hubcfg/config"
)

func testStore(t *testing.T) *config.Store {
	t.Helper()
	s, err := config.New(config.Values{
		Network: config.NetworkValues{
			SSID:       "hub-net",
			Password:   "wifi-pass",
			StaticIP:   "192.168.2.122",
			Gateway:    "192.168.2.1",
			SubnetMask: "255.255.255.0",
		},
		MQTT: config.MQTTValues{
			Host:           "raspberrypi.local",
			Port:           1883,
			ClientID:       "ESP8266-WD",
			Username:       "admin",
			Password:       "broker-pass",
			SubscribeTopic: "heartbeatHUB/#",
			PublishTopic:   "heartbeatHUB",
		},
		Notify: config.NotifyValues{ChatID: "42"},
		NTP:    config.NTPValues{Server: "asia.pool.ntp.org"},
	})
	require.NoError(t, err)
	return s
}

func TestConfigEndpoint(t *testing.T) {
	h := NewApi(testStore(t)).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.NotContains(t, body, "wifi-pass")
	assert.NotContains(t, body, "broker-pass")

	var got map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "hub-net", got["network"]["ssid"])
	assert.Equal(t, "[redacted]", got["network"]["password"])
	assert.Equal(t, "192.168.2.0/24", got["network"]["prefix"])
	assert.Equal(t, "tcp://raspberrypi.local:1883", got["mqtt"]["broker"])
	assert.Equal(t, float64(1883), got["mqtt"]["port"])
	assert.Equal(t, "[redacted]", got["mqtt"]["password"])
	assert.Equal(t, "heartbeatHUB/#", got["mqtt"]["subscribeTopic"])
	assert.Equal(t, true, got["mqtt"]["loopback"])
	assert.Equal(t, false, got["notify"]["enabled"])
	assert.Equal(t, "", got["notify"]["botToken"])
	assert.Equal(t, "asia.pool.ntp.org", got["ntp"]["server"])
}

func TestHealthz(t *testing.T) {
	h := NewApi(testStore(t)).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewApi(testStore(t)).Handler()

	for _, path := range []string{"/config", "/healthz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	}
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	a := NewApi(testStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- a.Serve(ctx, addr)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
