package component

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/sdiscovery/logger"
)

type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
	deadline   *time.Time
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	if m.deadline != nil {
		*m.deadline, _ = ctx.Deadline()
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "announcement", Details: "web/general in prod"}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register(&mockComponent{name: "announcer"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "announcer"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "announcer"})

	if got := r.Get("announcer"); got == nil || got.Name() != "announcer" {
		t.Errorf("expected registered component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAllOrder(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}
	_ = r.Register(&mockComponent{name: "a", startOrder: &order})
	_ = r.Register(&mockComponent{name: "b", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("expected start order [a b], got %v", order)
	}

	// already started components are not started twice
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllErrorLeavesEarlierStarted(t *testing.T) {
	r := NewRegistry(nil)
	stops := []string{}
	_ = r.Register(&mockComponent{name: "a", stopOrder: &stops})
	_ = r.Register(&mockComponent{name: "b", startErr: fmt.Errorf("registry down"), stopOrder: &stops})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to start b") {
		t.Fatalf("expected start failure for b, got %v", err)
	}

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if strings.Join(stops, ",") != "a" {
		t.Errorf("expected only a to be stopped, got %v", stops)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}
	for _, name := range []string{"a", "b", "c"} {
		_ = r.Register(&mockComponent{name: name, stopOrder: &order})
	}

	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if strings.Join(order, ",") != "c,b,a" {
		t.Errorf("expected reverse stop order [c b a], got %v", order)
	}

	// a second StopAll is a no-op
	_ = r.StopAll(context.Background())
	if len(order) != 3 {
		t.Errorf("expected no second stops, got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}
	_ = r.Register(&mockComponent{name: "a", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}
	_ = r.Register(&mockComponent{name: "a", stopErr: fmt.Errorf("first"), stopOrder: &order})
	_ = r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("second"), stopOrder: &order})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	if !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Errorf("expected both failures, got %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected every component to be stopped, got %v", order)
	}
}

func TestStopTimeout(t *testing.T) {
	r := NewRegistry(nil)
	r.SetStopTimeout(time.Second)
	var deadline time.Time
	_ = r.Register(&mockComponent{name: "a", deadline: &deadline})
	_ = r.StartAll(context.Background())

	before := time.Now()
	_ = r.StopAll(context.Background())
	if deadline.IsZero() || deadline.Sub(before) > 2*time.Second {
		t.Errorf("expected stop deadline about 1s away, got %v", deadline.Sub(before))
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusUnhealthy, Message: "not announced"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy || results[1].Status != StatusUnhealthy {
		t.Errorf("unexpected health results %+v", results)
	}
}

func TestStartAllLogsDescription(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: "json", Writer: &buf}, "test")
	r := NewRegistry(log)
	_ = r.Register(&describedComponent{mockComponent{name: "announcer"}})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"details":"web/general in prod"`) || !strings.Contains(out, `"type":"announcement"`) {
		t.Errorf("expected description in start log, got %s", out)
	}
}
