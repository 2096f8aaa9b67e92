package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/sdiscovery/component"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/util"
)

// Announcer holds one static announcement for the lifetime of a process:
// Start announces and keeps the id, Stop deletes it.
type Announcer struct {
	registry     Registry
	announcement Announcement
	log          *logger.Logger

	mu      sync.RWMutex
	id      string
	lastErr error
}

var (
	_ component.Component   = (*Announcer)(nil)
	_ component.Describable = (*Announcer)(nil)
)

// NewAnnouncer creates an Announcer for a. A nil logger discards output.
func NewAnnouncer(registry Registry, a Announcement, log *logger.Logger) *Announcer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Announcer{
		registry:     registry,
		announcement: a,
		log:          log.WithComponent("announcer"),
	}
}

// Name implements component.Component.
func (a *Announcer) Name() string {
	return "announcement:" + util.Deref(a.announcement.Type) + "/" + util.Deref(a.announcement.Pool)
}

// Start publishes the announcement. Starting an already announced Announcer
// is a no-op.
func (a *Announcer) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.id != "" {
		return nil
	}

	id, err := a.registry.StaticAnnounce(ctx, a.announcement)
	a.lastErr = err
	if err != nil {
		return err
	}
	a.id = id
	a.log.Info("Announced", logger.Fields("id", id))
	return nil
}

// Stop deletes the announcement made by Start. The id is kept when the
// delete fails so Stop can be retried.
func (a *Announcer) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.id == "" {
		return nil
	}

	id := a.id
	if err := a.registry.StaticDelete(ctx, &id); err != nil {
		a.lastErr = err
		return err
	}
	a.log.Info("Announcement deleted", logger.Fields("id", id))
	a.id = ""
	a.lastErr = nil
	return nil
}

// ID returns the registry-assigned id, or "" when not announced.
func (a *Announcer) ID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

// Health implements component.Component.
func (a *Announcer) Health(ctx context.Context) component.Health {
	a.mu.RLock()
	defer a.mu.RUnlock()

	h := component.Health{Name: a.Name(), Status: component.StatusHealthy}
	switch {
	case a.id != "" && a.lastErr != nil:
		h.Status = component.StatusDegraded
		h.Message = a.lastErr.Error()
	case a.id != "":
		h.Message = "announced as " + a.id
	case a.lastErr != nil:
		h.Status = component.StatusUnhealthy
		h.Message = a.lastErr.Error()
	default:
		h.Status = component.StatusUnhealthy
		h.Message = "not announced"
	}
	return h
}

// Describe implements component.Describable.
func (a *Announcer) Describe() component.Description {
	return component.Description{
		Name: "Static announcement",
		Type: "announcement",
		Details: fmt.Sprintf("%s/%s in %s",
			util.Deref(a.announcement.Type),
			util.Deref(a.announcement.Pool),
			util.Deref(a.announcement.Environment)),
	}
}
