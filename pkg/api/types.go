package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/marc21/pkg/marc"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port          int
	Bind          string
	APIKey        string
	DefaultLeader string // leader template for manifest uploads
	MaxRecordSize int    // upper bound on request bodies, in bytes
}

// RecordStore defines the record persistence operations used by the API
type RecordStore interface {
	Create(data []byte) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) ([]byte, error)
	Update(id ksuid.KSUID, data []byte) error
	Delete(id ksuid.KSUID) error
	FindByControlNumber(cn string) (ksuid.KSUID, error)
	List() ([]ksuid.KSUID, error)
}

// RecordSummary describes a stored record without its fields
type RecordSummary struct {
	ID            string `json:"id"`
	ControlNumber string `json:"control_number,omitempty"`
	Leader        string `json:"leader"`
	Length        int    `json:"length"`
}

// FieldsResponse is the result of a field selection
type FieldsResponse struct {
	ID     string                  `json:"id"`
	Select string                  `json:"select"`
	Keys   []string                `json:"keys"`
	Fields map[string][]marc.Field `json:"fields"`
}
