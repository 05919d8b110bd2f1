// Package api MARC21 record REST API
//
// @title           MARC21 Record API
// @version         1.0.0
// @description     REST API for storing, selecting and projecting MARC21 records.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// StartServer serves the API on config.Bind:config.Port until the listener fails
func StartServer(store RecordStore, config ServerConfig, logger *logrus.Logger) error {
	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(store, config, metrics, logger)

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(promhttp.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"addr":    addr,
		"metrics": fmt.Sprintf("http://%s/metrics", addr),
	}).Info("starting MARC21 REST API server")
	return httpServer.ListenAndServe()
}

// Router builds the chi router. metricsHandler is mounted unprotected at
// /metrics when non-nil.
func (s *Server) Router(metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/records", m.InstrumentHandler("GET", "/api/v1/records", s.handleListRecords))
		r.Post("/records", m.InstrumentHandler("POST", "/api/v1/records", s.handleCreateRecord))
		r.Post("/records/manifest", m.InstrumentHandler("POST", "/api/v1/records/manifest", s.handleCreateFromManifest))
		r.Get("/records/{id}", m.InstrumentHandler("GET", "/api/v1/records/{id}", s.handleGetRecord))
		r.Put("/records/{id}", m.InstrumentHandler("PUT", "/api/v1/records/{id}", s.handleReplaceRecord))
		r.Delete("/records/{id}", m.InstrumentHandler("DELETE", "/api/v1/records/{id}", s.handleDeleteRecord))
		r.Get("/records/{id}/fields", m.InstrumentHandler("GET", "/api/v1/records/{id}/fields", s.handleSelectFields))
		r.Get("/records/{id}/xml", m.InstrumentHandler("GET", "/api/v1/records/{id}/xml", s.handleGetXML))

		r.Get("/control-numbers/{cn}", m.InstrumentHandler("GET", "/api/v1/control-numbers/{cn}", s.handleLookupControlNumber))
	})

	return r
}
