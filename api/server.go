package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/matt-g-everett/hubcfg/config"
)

// Api serves a read-only, redacted view of the hub configuration.
type Api struct {
	store *config.Store
}

func NewApi(store *config.Store) *Api {
	a := new(Api)
	a.store = store
	return a
}

type networkView struct {
	SSID       string        `json:"ssid"`
	Password   config.Secret `json:"password"`
	StaticIP   string        `json:"staticIP"`
	Gateway    string        `json:"gateway"`
	SubnetMask string        `json:"subnetMask"`
	Prefix     string        `json:"prefix"`
}

type mqttView struct {
	Broker         string        `json:"broker"`
	Host           string        `json:"host"`
	Port           uint16        `json:"port"`
	ClientID       string        `json:"clientID"`
	Username       string        `json:"username"`
	Password       config.Secret `json:"password"`
	SubscribeTopic string        `json:"subscribeTopic"`
	PublishTopic   string        `json:"publishTopic"`
	Loopback       bool          `json:"loopback"`
}

type notifyView struct {
	Enabled  bool          `json:"enabled"`
	ChatID   string        `json:"chatID"`
	BotToken config.Secret `json:"botToken"`
}

type configView struct {
	Network networkView `json:"network"`
	MQTT    mqttView    `json:"mqtt"`
	Notify  notifyView  `json:"notify"`
	NTP     struct {
		Server string `json:"server"`
	} `json:"ntp"`
}

func newConfigView(s *config.Store) configView {
	var v configView
	v.Network = networkView{
		SSID:       s.SSID(),
		Password:   s.NetworkPassword(),
		StaticIP:   s.StaticIP().String(),
		Gateway:    s.Gateway().String(),
		SubnetMask: s.SubnetMask().String(),
		Prefix:     s.Prefix().String(),
	}
	v.MQTT = mqttView{
		Broker:         s.MQTTBrokerURL(),
		Host:           s.MQTTHost(),
		Port:           s.MQTTPort(),
		ClientID:       s.MQTTClientID(),
		Username:       s.MQTTUsername(),
		Password:       s.MQTTPassword(),
		SubscribeTopic: s.SubscribeFilter().String(),
		PublishTopic:   s.PublishTopic().String(),
		Loopback:       s.ReceivesOwnPublishes(),
	}
	v.Notify = notifyView{
		Enabled:  s.NotificationsEnabled(),
		ChatID:   s.NotifyChatID(),
		BotToken: s.NotifyBotToken(),
	}
	v.NTP.Server = s.NTPServer()
	return v
}

// Handler routes GET /config and GET /healthz.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/config", getOnly(a.handleConfig))
	mux.HandleFunc("/healthz", getOnly(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}))
	return mux
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (a *Api) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newConfigView(a.store)); err != nil {
		log.WithError(err).Error("Failed to write config response")
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Listening...")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
