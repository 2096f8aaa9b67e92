// Package discoverytest provides an in-process discovery registry for tests
// and local runs.
//
//	srv := discoverytest.NewServer("prod", discoverytest.Service{Type: "web", Pool: "general"})
//	defer srv.Close()
//	client, _ := discovery.NewClient([]string{srv.URL})
package discoverytest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/sdiscovery/errors"
)

// Service is a registry entry as served by GET /v1/service.
type Service struct {
	Type        string            `json:"type"`
	Pool        string            `json:"pool"`
	Environment string            `json:"environment,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	ID          *string           `json:"id,omitempty"`
}

// Announcement is a static announcement accepted by the server.
type Announcement struct {
	ID          string            `json:"id"`
	Pool        *string           `json:"pool" binding:"required"`
	Environment *string           `json:"environment" binding:"required"`
	Type        *string           `json:"type" binding:"required"`
	Properties  map[string]string `json:"properties" binding:"required"`
	Location    *string           `json:"location"`
}

// RecordedRequest is one request seen by the server.
type RecordedRequest struct {
	Method      string
	Path        string
	RequestID   string
	ContentType string
	Body        []byte
}

// Server is a fake registry backed by httptest.Server and gin.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	environment   string
	services      []Service
	announcements []Announcement
	failStatus    int
	rawBody       []byte
	requests      []RecordedRequest
	newID         func() string
}

// NewServer starts a registry that reports environment and the given
// static services. Announcements are listed after them.
func NewServer(environment string, services ...Service) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		environment: environment,
		services:    append([]Service(nil), services...),
		newID:       uuid.NewString,
	}

	r := gin.New()
	r.UseRawPath = true
	r.Use(gin.Recovery(), s.record, s.injectFailure)

	v1 := r.Group("/v1")
	v1.GET("/service", s.listServices)
	v1.POST("/announcement/static", s.announce)
	v1.DELETE("/announcement/static/:id", s.deleteAnnouncement)

	s.Server = httptest.NewServer(r)
	return s
}

// FailWith makes every request answer with status. Zero restores normal
// behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// SetRawServiceBody makes GET /v1/service return body verbatim with status
// 200. An empty body restores normal behaviour.
func (s *Server) SetRawServiceBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if body == "" {
		s.rawBody = nil
		return
	}
	s.rawBody = []byte(body)
}

// SetIDFunc replaces the announcement id generator.
func (s *Server) SetIDFunc(fn func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = fn
}

// AddService registers another static service.
func (s *Server) AddService(svc Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append(s.services, svc)
}

// Requests returns the requests received so far, oldest first.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Announcements returns the live announcements in creation order.
func (s *Server) Announcements() []Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Announcement(nil), s.announcements...)
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:      c.Request.Method,
		Path:        c.Request.URL.EscapedPath(),
		RequestID:   c.GetHeader("X-Request-ID"),
		ContentType: c.ContentType(),
		Body:        body,
	})
	s.mu.Unlock()

	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	s.mu.Lock()
	status := s.failStatus
	s.mu.Unlock()

	if status != 0 {
		abortWithError(c, errors.New(errors.ErrCodeInternal, http.StatusText(status), status))
		return
	}
	c.Next()
}

func (s *Server) listServices(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rawBody != nil {
		c.Data(http.StatusOK, "application/json", s.rawBody)
		return
	}

	services := make([]Service, 0, len(s.services)+len(s.announcements))
	services = append(services, s.services...)
	for _, a := range s.announcements {
		id := a.ID
		services = append(services, Service{
			Type:        *a.Type,
			Pool:        *a.Pool,
			Environment: *a.Environment,
			Location:    a.Location,
			Properties:  a.Properties,
			ID:          &id,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"environment": s.environment,
		"services":    services,
	})
}

func (s *Server) announce(c *gin.Context) {
	var a Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		abortWithError(c, errors.Validation(err.Error()))
		return
	}

	s.mu.Lock()
	a.ID = s.newID()
	s.announcements = append(s.announcements, a)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"id": a.ID})
}

func (s *Server) deleteAnnouncement(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.announcements {
		if a.ID == id {
			s.announcements = append(s.announcements[:i], s.announcements[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	abortWithError(c, errors.NotFound("announcement", id))
}

// abortWithError renders err as the registry's JSON error body.
func abortWithError(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
