package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cuticulome/internal/metrics"
	"cuticulome/internal/relay"
)

const retryHint = "If the problem persists, please contact the curators directly via the Contact page."

func (s *Server) submit(c *gin.Context) {
	var draft relay.Draft
	if err := c.ShouldBind(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed submission."})
		return
	}

	receipt, err := s.relay.Submit(c.Request.Context(), draft)
	if err != nil {
		s.submissionFailed(c, err)
		return
	}

	s.metrics.Submissions.WithLabelValues(metrics.OutcomeRelayed).Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you! Your submission has been received and will be reviewed by the curators.",
		"receipt": receipt,
	})
}

func (s *Server) submissionFailed(c *gin.Context, err error) {
	var validationErr *relay.ValidationError
	var transportErr *relay.TransportError

	switch {
	case errors.Is(err, relay.ErrNotConfigured):
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeNotConfigured).Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Submission system is not configured. Please contact the administrators.",
		})
	case errors.As(err, &validationErr):
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Please fix the following errors:",
			"messages": validationErr.Messages,
		})
	case errors.As(err, &transportErr) && transportErr.Timeout:
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeTimeout).Inc()
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "The submission timed out. Please try again.",
			"hint":  retryHint,
		})
	case errors.As(err, &transportErr):
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeTransport).Inc()
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "An error occurred while submitting your data. Please try again later.",
			"hint":  retryHint,
		})
	default:
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeTransport).Inc()
		s.logger.Error("submission failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An error occurred while submitting your data. Please try again later.",
		})
	}
}

func (s *Server) contact(c *gin.Context) {
	var msg relay.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed message."})
		return
	}
	if err := msg.Validate(); err != nil {
		var validationErr *relay.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    "Please fix the following errors:",
				"messages": validationErr.Messages,
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.logger.Info("contact message received", zap.String("subject", msg.Subject))
	c.JSON(http.StatusOK, gin.H{
		"message": "Thank you! Your message has been received. We'll get back to you soon.",
	})
}
