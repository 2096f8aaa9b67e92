package discovery

import "github.com/kbukum/sdiscovery/util"

// Well-known property keys.
const (
	PropertyHTTP = "http"
	PropertyJDBC = "jdbc"
)

// ServiceRecord is one registered service as returned by the registry.
// Records are shared between snapshots and results; treat them as read-only.
type ServiceRecord struct {
	Type        string            `json:"type"`
	Pool        string            `json:"pool"`
	Environment string            `json:"environment,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	ID          *string           `json:"id,omitempty"`
}

// Snapshot is the result of one successful query.
// ByType partitions Services by each record's Type, keeping encounter order.
type Snapshot struct {
	Environment string
	Services    []ServiceRecord
	ByType      map[string][]ServiceRecord
}

// NewSnapshot builds a Snapshot and its type index in one pass.
func NewSnapshot(environment string, services []ServiceRecord) *Snapshot {
	s := &Snapshot{
		Environment: environment,
		Services:    make([]ServiceRecord, len(services)),
		ByType:      make(map[string][]ServiceRecord),
	}
	copy(s.Services, services)
	for _, rec := range s.Services {
		s.ByType[rec.Type] = append(s.ByType[rec.Type], rec)
	}
	return s
}

// Query selects services. A nil field does not constrain the result.
type Query struct {
	Type *string
	Pool *string
}

// Filter returns the records matching q in snapshot order. Matching is exact
// and case-sensitive. The result is never nil.
func (s *Snapshot) Filter(q Query) []ServiceRecord {
	candidates := s.Services
	if q.Type != nil {
		candidates = s.ByType[*q.Type]
	}
	if q.Pool == nil {
		out := make([]ServiceRecord, len(candidates))
		copy(out, candidates)
		return out
	}
	pool := *q.Pool
	return util.Filter(candidates, func(rec ServiceRecord) bool {
		return rec.Pool == pool
	})
}

// PropertyValues returns Properties[key] for every record of serviceType that
// has the key, in snapshot order.
func (s *Snapshot) PropertyValues(serviceType, key string) []string {
	out := make([]string, 0)
	for _, rec := range s.ByType[serviceType] {
		if v, ok := rec.Properties[key]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Announcement is a static registration to publish. Pool, Environment, Type
// and Properties are required; an empty string or an empty map counts as
// present, nil does not. Location is optional.
type Announcement struct {
	Pool        *string           `json:"pool" validate:"required"`
	Environment *string           `json:"environment" validate:"required"`
	Type        *string           `json:"type" validate:"required"`
	Properties  map[string]string `json:"properties" validate:"required"`
	Location    *string           `json:"location"`
}

type serviceList struct {
	Environment string           `json:"environment"`
	Services    *[]ServiceRecord `json:"services"`
}

type announceResponse struct {
	ID string `json:"id"`
}
