// Package web serves the countdown status and a preview of the panel.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	xdraw "golang.org/x/image/draw"

	appLog "github.com/fkcurrie/olympics-countdown-led/internal/log"
	"github.com/fkcurrie/olympics-countdown-led/internal/plugin"
)

const (
	maxPreviewScale = 16

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Source is what the server reports on
type Source interface {
	Info() plugin.Info
	// Frame returns the current frame, nil before the first update
	Frame() *image.RGBA
}

// Server is the status HTTP server
type Server struct {
	src      Source
	server   *http.Server
	upgrader websocket.Upgrader
	// pollInterval is how often websocket clients are checked for changes
	pollInterval time.Duration
}

// NewServer creates a server listening on addr
func NewServer(addr string, src Source) *Server {
	s := &Server{
		src:          src,
		pollInterval: time.Second,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/info", s.handleInfo)
	mux.HandleFunc("/preview.png", s.handlePreview)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	appLog.Info("Web server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.src.Info()); err != nil {
		appLog.Error("Failed to encode info", err)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	frame := s.src.Frame()
	if frame == nil {
		http.Error(w, "no countdown state yet", http.StatusServiceUnavailable)
		return
	}

	scale := 1
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPreviewScale {
			http.Error(w, "scale must be between 1 and 16", http.StatusBadRequest)
			return
		}
		scale = n
	}

	var img image.Image = frame
	if scale > 1 {
		b := frame.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, b, xdraw.Src, nil)
		img = scaled
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		appLog.Error("Failed to encode preview", err)
	}
}

// handleWS pushes the info payload whenever the displayed message changes
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		appLog.Warn("Websocket upgrade failed", "err", err)
		return
	}

	done := make(chan struct{})
	go s.readPump(conn, done)
	s.writePump(r.Context(), conn, done)
}

// readPump drains client frames so pongs and close messages are handled
func (s *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				appLog.Warn("Websocket read failed", "err", err)
			}
			return
		}
	}
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	poll := time.NewTicker(s.pollInterval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		poll.Stop()
		ping.Stop()
		conn.Close()
	}()

	var last string
	send := func() error {
		info := s.src.Info()
		key := info.Date + "|" + info.Message + "|" + info.Error
		if key == last {
			return nil
		}
		last = key
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(info)
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-poll.C:
			if err := send(); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
