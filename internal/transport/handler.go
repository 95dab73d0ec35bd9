package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-frame-filters/internal/config"
	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/logger"
	"go-frame-filters/internal/service"
	"go-frame-filters/internal/storage"
	"go-frame-filters/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewHandler builds the HTTP surface over the filter service
func NewHandler(svc service.FilterService, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/modes", listModes(svc))
	r.GET("/metrics", metrics(svc))
	r.POST("/transform/:mode", transformBody(svc, cfg))
	r.POST("/transform/:mode/url", transformURL(svc, cfg))

	return r
}

func transformBody(svc service.FilterService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		mode, err := filter.ParseMode(c.Param("mode"))
		if err != nil {
			respondError(c, "unknown mode", err)
			return
		}
		intensity, err := intensityParam(c)
		if err != nil {
			respondError(c, "invalid intensity", err)
			return
		}
		format, err := negotiateFormat(c)
		if err != nil {
			respondError(c, "unsupported output format", err)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondError(c, "request body too large",
					apperrors.NewPayloadTooLargeError(fmt.Sprintf("body exceeds %d bytes", maxErr.Limit), err))
				return
			}
			respondError(c, "failed to read request body", apperrors.NewValidationError("unreadable body", err))
			return
		}

		src, err := decodeBody(body, c.ContentType(), cfg.MaxFramePixels)
		if err != nil {
			respondError(c, "invalid frame", err)
			return
		}

		out, err := svc.Transform(ctx, mode, src, service.Params{Intensity: intensity, Source: "body"})
		if err != nil {
			respondError(c, "transform failed", err)
			return
		}

		data, err := frame.EncodeAs(out, format)
		if err != nil {
			respondError(c, "failed to encode result", err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"mode":               mode.String(),
			"rows":               out.Rows,
			"cols":               out.Cols,
			"format":             string(format),
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Frame transformed")

		c.Header("X-Frame-Rows", strconv.Itoa(out.Rows))
		c.Header("X-Frame-Cols", strconv.Itoa(out.Cols))
		c.Header("X-Processing-Time", duration.String())
		c.Data(http.StatusOK, format.ContentType(), data)
	}
}

func transformURL(svc service.FilterService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		mode, err := filter.ParseMode(c.Param("mode"))
		if err != nil {
			respondError(c, "unknown mode", err)
			return
		}

		var req models.TransformURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "invalid request format", apperrors.NewValidationError("invalid request body", err))
			return
		}

		logger.WithFields(logrus.Fields{
			"mode":   mode.String(),
			"url":    req.URL,
			"output": req.Output,
		}).Debug("Transforming stored frame")

		resp, err := svc.TransformLocation(ctx, mode, req)
		if err != nil {
			respondError(c, "transform failed", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listModes(svc service.FilterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Modes())
	}
}

func metrics(svc service.FilterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Metrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody accepts either the raw frame wire format or any registered
// image encoding
func decodeBody(body []byte, contentType string, maxPixels int64) (*frame.Frame, error) {
	if len(body) == 0 {
		return nil, apperrors.NewValidationError("request body is empty", nil)
	}
	if strings.EqualFold(contentType, frame.ContentType) {
		return frame.Decode(body, maxPixels)
	}

	img, _, err := storage.DecodeImageLimited(bytes.NewReader(body), maxPixels)
	if errors.Is(err, storage.ErrTooManyPixels) {
		return nil, apperrors.NewInvalidDimensionsError(err.Error())
	}
	if err != nil {
		return nil, apperrors.NewValidationError("body is not a supported image", err)
	}
	return frame.FromImage(img), nil
}

func intensityParam(c *gin.Context) (*float64, error) {
	raw := c.Query("intensity")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewInvalidParameterError(fmt.Sprintf("intensity %q is not a number", raw))
	}
	return &v, nil
}

// negotiateFormat picks the response encoding from ?format= or Accept,
// defaulting to PNG
func negotiateFormat(c *gin.Context) (frame.Format, error) {
	if q := c.Query("format"); q != "" {
		return frame.ParseFormat(q)
	}
	for _, part := range strings.Split(c.GetHeader("Accept"), ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch strings.ToLower(mediaType) {
		case frame.ContentType:
			return frame.FormatRaw, nil
		case "image/jpeg":
			return frame.FormatJPEG, nil
		case "image/png":
			return frame.FormatPNG, nil
		}
	}
	return frame.FormatPNG, nil
}
