package render

import "testing"

type fakeHandle struct {
	released bool
}

func (h *fakeHandle) Release() { h.released = true }

func TestBindReleasesPriorHandle(t *testing.T) {
	r := NewChartRegistry()

	first := &fakeHandle{}
	second := &fakeHandle{}

	r.Bind("risk-heatmap", first)
	if first.released {
		t.Fatalf("first handle released too early")
	}

	r.Bind("risk-heatmap", second)
	if !first.released {
		t.Fatalf("binding the same canvas must release the prior handle")
	}
	if second.released {
		t.Fatalf("new handle must stay live")
	}
	if r.Len() != 1 {
		t.Fatalf("one canvas must hold one handle, got %d", r.Len())
	}

	h, ok := r.Get("risk-heatmap")
	if !ok || h != second {
		t.Fatalf("expected second handle bound, got %v", h)
	}
}

func TestReleaseViewByPrefix(t *testing.T) {
	r := NewChartRegistry()

	compliance := &fakeHandle{}
	compliance2 := &fakeHandle{}
	risk := &fakeHandle{}

	r.Bind("compliance-bar", compliance)
	r.Bind("compliance-pie", compliance2)
	r.Bind("risk-heatmap", risk)

	r.ReleaseView("compliance-")

	if !compliance.released || !compliance2.released {
		t.Fatalf("all compliance handles must be released")
	}
	if risk.released {
		t.Fatalf("other views must be untouched")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 surviving handle, got %d", r.Len())
	}
}
