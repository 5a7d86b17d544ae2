package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/rellink/internal/core/linking"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/validation"
)

// Linker links the relations of one question given its AMR.
type Linker interface {
	Link(ctx context.Context, question, amrText string) (*linking.Result, error)
}

// QuestionValidator validates the candidate paths of one question.
type QuestionValidator interface {
	ValidateQuestion(ctx context.Context, q validation.Question, topK int, acceptUnvalidatedAsk bool) validation.Output
}

type Server struct {
	Linker    Linker
	Validator QuestionValidator

	TopK                 int
	AcceptUnvalidatedAsk bool

	log *logger.Logger
}

func NewServer(linker Linker, validator QuestionValidator, topK int, acceptUnvalidatedAsk bool, log *logger.Logger) *Server {
	if topK < 1 {
		topK = 1
	}
	return &Server{
		Linker:               linker,
		Validator:            validator,
		TopK:                 topK,
		AcceptUnvalidatedAsk: acceptUnvalidatedAsk,
		log:                  logger.OrNop(log),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Metrics(), RequestLogger(s.log))

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/link", s.LinkRelations)
	r.POST("/validate", s.ValidatePaths)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type LinkRequest struct {
	Question string `json:"question" binding:"required"`
	AMR      string `json:"amr" binding:"required"`
}

func (s *Server) LinkRelations(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res, err := s.Linker.Link(c.Request.Context(), req.Question, req.AMR)
	if err != nil {
		if errors.Is(err, linking.ErrInvalidGraph) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("failed to link question", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link question"})
		return
	}

	c.JSON(http.StatusOK, res)
}

type ValidateRequest struct {
	Question validation.Question `json:"question"`
	// TopK overrides the configured number of graphs to keep.
	TopK int `json:"top_k,omitempty"`
}

func (s *Server) ValidatePaths(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Question.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question text is required"})
		return
	}
	topK := s.TopK
	if req.TopK > 0 {
		topK = req.TopK
	}

	out := s.Validator.ValidateQuestion(c.Request.Context(), req.Question, topK, s.AcceptUnvalidatedAsk)
	c.JSON(http.StatusOK, out)
}
