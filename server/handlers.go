package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orayew2002/paperwork/domain"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Paperwork Generation API",
		"version": Version,
		"health":  "/api/health",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

func (s *Server) handleSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates_dir":  s.cfg.Paths.Templates,
		"signatures_dir": s.cfg.Paths.Signatures,
		"output_dir":     s.cfg.Paths.Output,
		"host":           s.cfg.Server.Host,
		"port":           s.cfg.Server.Port,
		"pdf_enabled":    s.gen.PDFEnabled(),
		"week_anchor":    s.cfg.WeekAnchor().String(),
	})
}

func (s *Server) handleSignatures(c *gin.Context) {
	sig1, err := s.gen.ListSignatures(domain.Sig1)
	if err != nil {
		s.fail(c, err)
		return
	}
	sig2, err := s.gen.ListSignatures(domain.Sig2)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sig1_images": sig1, "sig2_images": sig2})
}

func (s *Server) handleLoadsheet(c *gin.Context) {
	var req domain.LoadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	domain.FillDerived(&req)

	res, err := s.gen.GenerateLoadsheet(c.Request.Context(), &req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleTimesheet(c *gin.Context) {
	var req domain.TimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	domain.FillDerived(&req)

	res, err := s.gen.GenerateTimesheet(c.Request.Context(), &req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// fail maps err onto a status code and writes it.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		msg = "internal server error"
	} else {
		s.logger.Warn("request rejected", zap.String("request_id", c.GetString("request_id")), zap.Int("status", status), zap.Error(err))
	}
	writeError(c, status, msg)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrTemplateMissing):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPayload),
		errors.Is(err, domain.ErrTemplateCapacityExceeded),
		errors.Is(err, domain.ErrInvalidMappingField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "status_code": status})
}
