package discovery

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/sdiscovery/component"
	"github.com/kbukum/sdiscovery/discovery/discoverytest"
	"github.com/kbukum/sdiscovery/util"
)

func webAnnouncement() Announcement {
	return Announcement{
		Pool:        util.Ptr("general"),
		Environment: util.Ptr("prod"),
		Type:        util.Ptr("web"),
		Properties:  map[string]string{"http": "http://10.0.0.1:8080"},
	}
}

func TestAnnouncer_Lifecycle(t *testing.T) {
	srv := discoverytest.NewServer("prod")
	defer srv.Close()
	c := newClient(t, []string{srv.URL})
	a := NewAnnouncer(c, webAnnouncement(), nil)
	ctx := context.Background()

	if a.Name() != "announcement:web/general" {
		t.Errorf("unexpected name %q", a.Name())
	}
	if h := a.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	id := a.ID()
	if id == "" {
		t.Fatal("expected an id after Start")
	}
	if h := a.Health(ctx); h.Status != component.StatusHealthy || !strings.Contains(h.Message, id) {
		t.Errorf("expected healthy with id, got %+v", h)
	}

	// a second Start does not announce again
	_ = a.Start(ctx)
	if n := len(srv.Announcements()); n != 1 {
		t.Errorf("expected one announcement, got %d", n)
	}

	if err := a.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if a.ID() != "" || len(srv.Announcements()) != 0 {
		t.Error("expected announcement to be deleted on Stop")
	}
	if err := a.Stop(ctx); err != nil {
		t.Errorf("expected second Stop to be a no-op, got %v", err)
	}
}

func TestAnnouncer_StartFailure(t *testing.T) {
	srv := discoverytest.NewServer("prod")
	defer srv.Close()
	srv.FailWith(http.StatusInternalServerError)

	a := NewAnnouncer(newClient(t, []string{srv.URL}), webAnnouncement(), nil)
	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail")
	}
	if h := a.Health(context.Background()); h.Status != component.StatusUnhealthy || h.Message == "not announced" {
		t.Errorf("expected unhealthy with the failure, got %+v", h)
	}
	if err := a.Stop(context.Background()); err != nil {
		t.Errorf("expected Stop after failed Start to be a no-op, got %v", err)
	}
}

func TestAnnouncer_StopFailureKeepsID(t *testing.T) {
	srv := discoverytest.NewServer("prod")
	defer srv.Close()
	a := NewAnnouncer(newClient(t, []string{srv.URL}), webAnnouncement(), nil)
	ctx := context.Background()

	_ = a.Start(ctx)
	id := a.ID()

	srv.FailWith(http.StatusBadGateway)
	if err := a.Stop(ctx); err == nil {
		t.Fatal("expected Stop to fail")
	}
	if a.ID() != id {
		t.Errorf("expected id to be kept for a retry, got %q", a.ID())
	}
	if h := a.Health(ctx); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded, got %+v", h)
	}

	srv.FailWith(0)
	if err := a.Stop(ctx); err != nil {
		t.Fatalf("retried Stop failed: %v", err)
	}
	if len(srv.Announcements()) != 0 {
		t.Error("expected announcement to be deleted on retry")
	}
}

func TestAnnouncer_InRegistry(t *testing.T) {
	srv := discoverytest.NewServer("prod")
	defer srv.Close()
	c := newClient(t, []string{srv.URL})

	reg := component.NewRegistry(nil)
	if err := reg.Register(NewAnnouncer(c, webAnnouncement(), nil)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(srv.Announcements()) != 1 {
		t.Fatal("expected announcement after StartAll")
	}
	if err := reg.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(srv.Announcements()) != 0 {
		t.Error("expected announcement to be retracted after StopAll")
	}
}

func TestAnnouncer_Describe(t *testing.T) {
	d := NewAnnouncer(nil, webAnnouncement(), nil).Describe()
	if d.Type != "announcement" || d.Details != "web/general in prod" {
		t.Errorf("unexpected description %+v", d)
	}
}
