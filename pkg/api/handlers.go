package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/marc21/pkg/manifest"
	"github.com/ssargent/marc21/pkg/marc"
	"github.com/ssargent/marc21/pkg/marcxml"
)

const (
	contentTypeMARC    = "application/marc"
	contentTypeMARCXML = "application/marcxml+xml"
)

// Server holds the API server state
type Server struct {
	store   RecordStore
	config  ServerConfig
	metrics *Metrics
	logger  *logrus.Logger
}

// NewServer creates a new API server
func NewServer(store RecordStore, config ServerConfig, metrics *Metrics, logger *logrus.Logger) *Server {
	if config.MaxRecordSize <= 0 {
		config.MaxRecordSize = marc.MaxRecordLength
	}
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListRecords godoc
//
//	@Summary		List records
//	@Description	List every stored record in creation order
//	@Tags			records
//	@Produce		json
//	@Success		200	{array}		RecordSummary
//	@Failure		500	{object}	APIResponse
//	@Router			/records [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ids, err := s.store.List()
	s.metrics.RecordStoreOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, "list", err)
		return
	}
	s.metrics.UpdateRecordCount(len(ids))

	summaries := make([]RecordSummary, 0, len(ids))
	for _, id := range ids {
		data, err := s.store.Read(id)
		if err != nil {
			s.fail(w, r, "list", err)
			return
		}
		summaries = append(summaries, summarize(id, data))
	}
	sendSuccess(w, summaries)
}

// handleCreateRecord godoc
//
//	@Summary		Store a record
//	@Description	Store a binary MARC21 record after validating its directory and fields
//	@Tags			records
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"MARC21 record"
//	@Success		201		{object}	RecordSummary
//	@Failure		413		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/records [post]
//	@Security		ApiKeyAuth
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, "create", err)
		return
	}
	s.create(w, r, data)
}

// handleCreateFromManifest godoc
//
//	@Summary		Build and store a record
//	@Description	Build a MARC21 record from a YAML or JSON field manifest and store it
//	@Tags			records
//	@Accept			json,yaml
//	@Produce		json
//	@Param			body	body		manifest.Manifest	true	"Field manifest"
//	@Success		201		{object}	RecordSummary
//	@Failure		400		{object}	APIResponse
//	@Router			/records/manifest [post]
//	@Security		ApiKeyAuth
func (s *Server) handleCreateFromManifest(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, "build", err)
		return
	}

	m, err := manifest.Parse(body)
	if err != nil {
		s.metrics.RecordCodecOperation("build", false)
		s.fail(w, r, "build", fmt.Errorf("%w: %v", marc.ErrInvalidInput, err))
		return
	}

	b := marc.NewBuilder()
	if s.config.DefaultLeader != "" {
		if err := b.SetLeader(s.config.DefaultLeader); err != nil {
			s.fail(w, r, "build", err)
			return
		}
	}
	if err := m.Apply(b); err != nil {
		s.metrics.RecordCodecOperation("build", false)
		s.fail(w, r, "build", err)
		return
	}
	data, err := b.Build()
	s.metrics.RecordCodecOperation("build", err == nil)
	if err != nil {
		s.fail(w, r, "build", err)
		return
	}
	s.create(w, r, data)
}

// handleGetRecord godoc
//
//	@Summary		Fetch a record
//	@Description	Return the stored binary MARC21 record
//	@Tags			records
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Record ID"
//	@Success		200	{string}	byte
//	@Failure		404	{object}	APIResponse
//	@Router			/records/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, data, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentTypeMARC)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+".mrc"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleReplaceRecord godoc
//
//	@Summary		Replace a record
//	@Description	Replace a stored record with a new binary MARC21 record, moving its control number index
//	@Tags			records
//	@Accept			octet-stream
//	@Produce		json
//	@Param			id		path		string	true	"Record ID"
//	@Param			body	body		[]byte	true	"MARC21 record"
//	@Success		200		{object}	RecordSummary
//	@Failure		404		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/records/{id} [put]
//	@Security		ApiKeyAuth
func (s *Server) handleReplaceRecord(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record ID", http.StatusBadRequest)
		return
	}
	data, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, "update", err)
		return
	}

	start := time.Now()
	err = s.store.Update(id, data)
	s.metrics.RecordStoreOperation("update", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, "update", err)
		return
	}
	s.metrics.RecordAccepted(len(data))
	s.logger.WithFields(logrus.Fields{"record_id": id.String(), "bytes": len(data)}).Info("record replaced")
	sendSuccess(w, summarize(id, data))
}

// handleSelectFields godoc
//
//	@Summary		Select fields
//	@Description	Decode the fields whose canonical key matches the select pattern (all fields when empty)
//	@Tags			records
//	@Produce		json
//	@Param			id		path		string	true	"Record ID"
//	@Param			select	query		string	false	"Regular expression over tag or tag/indicators"
//	@Success		200		{object}	FieldsResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/records/{id}/fields [get]
//	@Security		ApiKeyAuth
func (s *Server) handleSelectFields(w http.ResponseWriter, r *http.Request) {
	id, data, ok := s.load(w, r)
	if !ok {
		return
	}

	pattern := r.URL.Query().Get("select")
	sel, err := marc.NewRecord(data).Select(pattern)
	s.metrics.RecordCodecOperation("select", err == nil)
	if err != nil {
		s.fail(w, r, "select", err)
		return
	}

	resp := FieldsResponse{
		ID:     id.String(),
		Select: pattern,
		Keys:   make([]string, 0, len(sel)),
		Fields: make(map[string][]marc.Field, len(sel)),
	}
	for _, key := range sel.Keys() {
		resp.Keys = append(resp.Keys, key.String())
		resp.Fields[key.String()] = sel[key]
	}
	sendSuccess(w, resp)
}

// handleGetXML godoc
//
//	@Summary		Project a record to MARC-XML
//	@Description	Render the stored record as a MARC21 slim XML document
//	@Tags			records
//	@Produce		xml
//	@Param			id	path		string	true	"Record ID"
//	@Success		200	{string}	string
//	@Failure		404	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Router			/records/{id}/xml [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetXML(w http.ResponseWriter, r *http.Request) {
	_, data, ok := s.load(w, r)
	if !ok {
		return
	}
	doc, err := marcxml.Marshal(marc.NewRecord(data))
	s.metrics.RecordCodecOperation("xml", err == nil)
	if err != nil {
		s.fail(w, r, "xml", err)
		return
	}
	w.Header().Set("Content-Type", contentTypeMARCXML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// handleDeleteRecord godoc
//
//	@Summary		Delete a record
//	@Description	Remove a record and its control number index entry
//	@Tags			records
//	@Produce		json
//	@Param			id	path		string	true	"Record ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	APIResponse
//	@Router			/records/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record ID", http.StatusBadRequest)
		return
	}

	start := time.Now()
	err = s.store.Delete(id)
	s.metrics.RecordStoreOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, "delete", err)
		return
	}
	sendSuccess(w, map[string]string{"message": "Record deleted successfully"})
}

// handleLookupControlNumber godoc
//
//	@Summary		Find a record by control number
//	@Description	Resolve the value of field 001 to a stored record
//	@Tags			records
//	@Produce		json
//	@Param			cn	path		string	true	"Control number"
//	@Success		200	{object}	RecordSummary
//	@Failure		404	{object}	APIResponse
//	@Router			/control-numbers/{cn} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleLookupControlNumber(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := s.store.FindByControlNumber(chi.URLParam(r, "cn"))
	if err == nil {
		var data []byte
		data, err = s.store.Read(id)
		if err == nil {
			s.metrics.RecordStoreOperation("lookup", true, time.Since(start))
			sendSuccess(w, summarize(id, data))
			return
		}
	}
	s.metrics.RecordStoreOperation("lookup", false, time.Since(start))
	s.fail(w, r, "lookup", err)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, data []byte) {
	start := time.Now()
	id, err := s.store.Create(data)
	s.metrics.RecordStoreOperation("create", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, "create", err)
		return
	}
	s.metrics.RecordAccepted(len(data))
	s.logger.WithFields(logrus.Fields{"record_id": id.String(), "bytes": len(data)}).Info("record stored")
	sendSuccessStatus(w, summarize(id, data), http.StatusCreated)
}

// load resolves the {id} URL parameter and reads the record, writing the
// error response itself when it fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, []byte, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record ID", http.StatusBadRequest)
		return ksuid.Nil, nil, false
	}

	start := time.Now()
	data, err := s.store.Read(id)
	s.metrics.RecordStoreOperation("read", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, "read", err)
		return ksuid.Nil, nil, false
	}
	return id, data, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, int64(s.config.MaxRecordSize)))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	entry := s.logger.WithFields(logrus.Fields{
		"operation": operation,
		"path":      r.URL.Path,
		"status":    status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	sendError(w, err.Error(), status)
}

func summarize(id ksuid.KSUID, data []byte) RecordSummary {
	rec := marc.NewRecord(data)
	summary := RecordSummary{
		ID:     id.String(),
		Leader: rec.Leader(),
		Length: len(data),
	}
	if fields, err := rec.Field(marc.ControlKey("001")); err == nil && len(fields) > 0 {
		summary.ControlNumber = fields[0].Value
	}
	return summary
}
