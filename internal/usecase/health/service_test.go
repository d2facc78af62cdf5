package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

type mockTextSearch struct {
	supported bool
}

func (m *mockTextSearch) SupportsTextSearch(_ context.Context) bool { return m.supported }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"store", "embedding", "oracle"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_StoreErrorIsUnhealthy(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, &mockChecker{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["store"] != CheckError {
		t.Errorf("expected store %q, got %q", CheckError, r.Checks["store"])
	}
}

func TestCheck_OracleErrorDegrades(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{}, &mockChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["oracle"] != CheckError {
		t.Errorf("expected oracle %q, got %q", CheckError, r.Checks["oracle"])
	}
	if r.Checks["store"] != CheckOK {
		t.Errorf("store should still pass")
	}
}

func TestCheck_EmbeddingErrorDegrades(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("quota")}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
}

func TestCheck_MissingTextSearchDegrades(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil).WithTextSearch(&mockTextSearch{supported: false})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["text_search"] != CheckError {
		t.Errorf("expected text_search %q, got %q", CheckError, r.Checks["text_search"])
	}
}

func TestCheck_TextSearchSupported(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil).WithTextSearch(&mockTextSearch{supported: true})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["text_search"] != CheckOK {
		t.Errorf("expected text_search %q, got %q", CheckOK, r.Checks["text_search"])
	}
}

func TestCheck_NilProvidersSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the store check, got %v", r.Checks)
	}
}
