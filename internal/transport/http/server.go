package transporthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newsverifier/internal/config"
	"newsverifier/internal/newsapi"
	"newsverifier/internal/verify"
)

// HeadlineVerifier runs a verification for one headline.
type HeadlineVerifier interface {
	Verify(ctx context.Context, headline string) verify.Result
}

// ArticleStore accepts articles into the local corpus.
type ArticleStore interface {
	Add(a newsapi.Article) (newsapi.Article, error)
}

type Server struct {
	verifier HeadlineVerifier
	articles ArticleStore
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewServer wires the HTTP handlers. articles may be nil, which disables ingestion.
func NewServer(verifier HeadlineVerifier, cfg config.Config, articles ArticleStore, logger zerolog.Logger) *Server {
	timeout := cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Server{
		verifier: verifier,
		articles: articles,
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(s.logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", s.health)
	r.GET("/verify", s.handleVerify)
	r.POST("/verify", s.handleVerify)
	r.POST("/articles", s.handleIngest)
	r.GET("/swagger", serveExplorer)
	r.GET("/swagger/openapi.yaml", serveOpenAPI)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleVerify(c *gin.Context) {
	headline := c.Query("headline")
	if c.Request.Method == http.MethodPost {
		var req struct {
			Headline string `json:"headline"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid payload")
			return
		}
		headline = req.Headline
	}
	if strings.TrimSpace(headline) == "" {
		writeError(c, http.StatusBadRequest, "headline is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	result := s.verifier.Verify(ctx, headline)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleIngest(c *gin.Context) {
	if s.articles == nil {
		writeError(c, http.StatusServiceUnavailable, "ingest disabled")
		return
	}

	var payload struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Source      string `json:"source"`
		Author      string `json:"author"`
		Content     string `json:"content"`
		PublishedAt string `json:"published_at"`
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if strings.TrimSpace(payload.Title) == "" || strings.TrimSpace(payload.URL) == "" {
		writeError(c, http.StatusBadRequest, "title and url are required")
		return
	}

	if payload.PublishedAt != "" {
		ts, err := time.Parse(time.RFC3339, payload.PublishedAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "published_at must be RFC3339")
			return
		}
		payload.PublishedAt = ts.UTC().Format(time.RFC3339)
	}

	stored, err := s.articles.Add(newsapi.Article{
		Source:      newsapi.Source{Name: defaultString(payload.Source, "ingest")},
		Author:      payload.Author,
		Title:       payload.Title,
		Description: payload.Description,
		URL:         payload.URL,
		PublishedAt: payload.PublishedAt,
		Content:     payload.Content,
	})
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":       "accepted",
		"url":          stored.URL,
		"published_at": stored.PublishedAt,
	})
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// accessLog emits one zerolog line per request.
func accessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Request.Method == http.MethodOptions {
			event = logger.Debug().Bool("preflight", true)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
