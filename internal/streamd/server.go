package streamd

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mveld/ringctl/internal/aspace"
	"github.com/mveld/ringctl/internal/config"
	"github.com/mveld/ringctl/internal/device"
	"github.com/mveld/ringctl/internal/observability"
	"github.com/mveld/ringctl/internal/submit"
)

// ServiceConfig fixes the daemon's listen surface and device profile.
type ServiceConfig struct {
	NodeID      string
	ListenAddr  string
	CorsOrigins []string
	Profile     config.DeviceProfile
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		NodeID:     "streamctl.local",
		ListenAddr: ":9300",
		Profile: config.DeviceProfile{
			Name:             "sim0",
			QueueCount:       4,
			MemstoreBase:     0x9000_0000,
			SetstateBase:     0x9001_0000,
			InflightSwitches: 2,
		},
	}
}

// Server drives the switch compiler over a simulated device.
type Server struct {
	cfg      ServiceConfig
	dev      *device.Device
	switcher *aspace.Switcher
	recorder *submit.Recorder

	router  *gin.Engine
	started time.Time
}

func NewServer(cfg ServiceConfig) (*Server, error) {
	if err := config.ValidateDeviceProfile(cfg.Profile); err != nil {
		return nil, fmt.Errorf("streamd: %w", err)
	}
	dev, err := device.New(config.DeviceConfig(cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("streamd: %w", err)
	}
	rec := submit.NewRecorder()
	sw := aspace.NewSwitcher(dev, rec, cfg.Profile.InflightSwitches)
	if err := sw.Prepare(); err != nil {
		return nil, fmt.Errorf("streamd: %w", err)
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestTelemetry(cfg.NodeID, log.Logger))
	if len(cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		cfg:      cfg,
		dev:      dev,
		switcher: sw,
		recorder: rec,
		router:   r,
		started:  time.Now(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Router() *gin.Engine { return s.router }

// Device exposes the simulated device for admin toggles and tests.
func (s *Server) Device() *device.Device { return s.dev }

func (s *Server) Serve() error {
	log.Info().
		Str("node", s.cfg.NodeID).
		Str("addr", s.cfg.ListenAddr).
		Str("device", s.cfg.Profile.Name).
		Msg("streamd listening")
	return s.router.Run(s.cfg.ListenAddr)
}
