package api

import (
	"github.com/ssargent/recprobe/pkg/archive"
	"github.com/ssargent/recprobe/pkg/codec"
	"github.com/ssargent/recprobe/pkg/report"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port         int
	Bind         string
	APIKey       string
	MaxBodyBytes int64
}

// CandidateView is the JSON form of one candidate
type CandidateView struct {
	Name      string            `json:"name"`
	Layout    string            `json:"layout,omitempty"`
	Size      int               `json:"size,omitempty"`
	ByteOrder codec.ByteOrder   `json:"byte_order"`
	Fields    []codec.FieldSpec `json:"fields,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// CandidateSetView is the response of the candidates endpoint
type CandidateSetView struct {
	Set        string          `json:"set"`
	Sets       []string        `json:"sets"`
	Candidates []CandidateView `json:"candidates"`
}

// RunStore is the archive surface used by the runs endpoints
type RunStore interface {
	Get(id string) (report.Report, error)
	List() ([]archive.Entry, error)
	Delete(id string) error
}
