package http

import (
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"seguraassina/internal/config"
	"seguraassina/internal/domain"
	"seguraassina/internal/infra/auditlog"
	"seguraassina/internal/infra/crypto"
	"seguraassina/internal/infra/metrics"
	"seguraassina/internal/infra/ratelimit"
	"seguraassina/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// requestOverhead is allowed on top of the encoded document for keys,
// signatures and JSON framing.
const requestOverhead = 64 << 10

type Server struct {
	cfg    config.Config
	r      *gin.Engine
	logger zerolog.Logger

	generateUC *usecase.GenerateKeys
	signUC     *usecase.SignDocument
	verifyUC   *usecase.VerifyDocument
	digestUC   *usecase.DigestDocument

	metrics *metrics.Recorder

	maxDocumentBytes int64
	maxBodyBytes     int64

	rateLimiter         domain.RateLimiter
	rateBudget          domain.RateBudget
	rateLimitFailClosed bool
}

type ServerDeps struct {
	GenerateKeys *usecase.GenerateKeys
	Sign         *usecase.SignDocument
	Verify       *usecase.VerifyDocument
	Digest       *usecase.DigestDocument
	Metrics      *metrics.Recorder
	RateLimiter  domain.RateLimiter
	AuditSink    usecase.AuditSink
}

// NewServer wires the default dependencies from cfg.
func NewServer(cfg config.Config, logger zerolog.Logger) *Server {
	return NewServerWithDeps(cfg, logger, ServerDeps{})
}

// NewServerWithDeps uses the provided dependencies and builds defaults for
// the ones left nil.
func NewServerWithDeps(cfg config.Config, logger zerolog.Logger, deps ServerDeps) *Server {
	s := &Server{
		cfg:              cfg,
		logger:           logger,
		generateUC:       deps.GenerateKeys,
		signUC:           deps.Sign,
		verifyUC:         deps.Verify,
		digestUC:         deps.Digest,
		metrics:          deps.Metrics,
		maxDocumentBytes: cfg.MaxDocumentSize(),
	}
	s.maxBodyBytes = int64(base64.StdEncoding.EncodedLen(int(s.maxDocumentBytes))) + requestOverhead
	s.initDeps(deps.AuditSink)
	s.initRateLimit(deps.RateLimiter)

	s.r = gin.New()
	s.r.Use(gin.Recovery())
	s.r.Use(requestID())
	s.r.Use(accessLog(s.logger))
	if s.metrics != nil {
		s.r.Use(s.metrics.Middleware())
	}
	s.r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	s.routes()
	return s
}

func (s *Server) initDeps(sink usecase.AuditSink) {
	if s.metrics == nil && s.cfg.MetricsEnabled {
		s.metrics = metrics.New()
	}
	if sink == nil {
		sink = auditlog.New(s.logger)
	}
	audit := usecase.NewAuditEmitter(sink, nil)
	cryptoSvc := crypto.NewService()

	// A typed nil *metrics.Recorder must not leak into the interface.
	var m usecase.Metrics
	if s.metrics != nil {
		m = s.metrics
	}
	if s.generateUC == nil {
		s.generateUC = &usecase.GenerateKeys{Crypto: cryptoSvc, Audit: audit, Metrics: m}
	}
	if s.signUC == nil {
		s.signUC = &usecase.SignDocument{Crypto: cryptoSvc, Audit: audit, Metrics: m}
	}
	if s.verifyUC == nil {
		s.verifyUC = &usecase.VerifyDocument{Crypto: cryptoSvc, Audit: audit, Metrics: m}
	}
	if s.digestUC == nil {
		s.digestUC = &usecase.DigestDocument{Crypto: cryptoSvc, Audit: audit}
	}
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	s.rateLimiter = override
	s.rateBudget = domain.RateBudget{Units: s.cfg.RateLimitBudget, Window: s.cfg.RateLimitWindow()}
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
	if s.rateLimiter != nil || s.rateBudget.Units <= 0 {
		return
	}
	if s.cfg.RedisAddr != "" {
		limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil)
		if err == nil {
			s.rateLimiter = limiter
			return
		}
		s.logger.Warn().Err(err).Msg("redis rate limiter unavailable, using memory limiter")
	}
	s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryOptions{
		MaxClients: s.cfg.RateLimitMaxClients,
	})
}

func (s *Server) routes() {
	api := s.r.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		limited := api.Group("", s.limitBody())
		limited.POST("/generate-keys", s.handleGenerateKeys)
		limited.POST("/sign", s.handleSign)
		limited.POST("/verify", s.handleVerify)
		limited.POST("/hash", s.handleHash)
	}
	if s.metrics != nil {
		s.r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.r.NoRoute(s.handleNoRoute)
}

// Close releases the rate limiter's connections, if it holds any. Call it
// after the HTTP server has shut down.
func (s *Server) Close() error {
	if closer, ok := s.rateLimiter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.r
}

// HTTPServer returns a server bound to the configured address. The caller
// owns its lifecycle.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{headerRequestID, "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "RateLimit-Cost", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
