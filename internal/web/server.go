// Package web serves a small read-only status API next to the bot:
// liveness plus per-guild playback state.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"musicbot/internal/music/session"
	"musicbot/internal/version"
)

type guildStatus struct {
	GuildID    string `json:"guild_id"`
	NowPlaying string `json:"now_playing,omitempty"`
	QueueLen   int    `json:"queue_len"`
	Volume     int    `json:"volume"`
}

type Server struct {
	addr     string
	sessions *session.Registry
	engine   *gin.Engine
}

func New(addr string, sessions *session.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{addr: addr, sessions: sessions, engine: engine}
	engine.GET("/healthz", s.health)
	engine.GET("/guilds", s.guilds)
	return s
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     version.AppName,
		"version": version.AppVersion,
	})
}

func (s *Server) guilds(c *gin.Context) {
	all := s.sessions.All()
	out := make([]guildStatus, 0, len(all))
	for _, sess := range all {
		status := guildStatus{
			GuildID:  sess.GuildID(),
			QueueLen: sess.QueueLen(),
			Volume:   sess.VolumePercent(),
		}
		if now, ok := sess.NowPlaying(); ok {
			status.NowPlaying = now.Title
		}
		out = append(out, status)
	}
	c.JSON(http.StatusOK, out)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
