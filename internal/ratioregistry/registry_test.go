package ratioregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newRegistry(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/regions/Africa":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"region":"Africa","icu_rate":7,"doubling_period_days":4}`))
		case "/regions/South America":
			w.Write([]byte(`{"region":"South America","bed_availability":40}`))
		case "/regions/Broken":
			w.Write([]byte(`{not json`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	var hits int32
	srv := newRegistry(t, &hits)
	c := New(srv.URL, 2*time.Second, nil)

	got := c.Lookup(context.Background(), []string{"Africa", "South America", "Europe", "Broken", "Africa"})

	africa := got["Africa"]
	if africa.ICURate == nil || *africa.ICURate != 7 {
		t.Errorf("Africa icu_rate = %v, want 7", africa.ICURate)
	}
	if africa.DoublingPeriodDays == nil || *africa.DoublingPeriodDays != 4 {
		t.Errorf("Africa doubling period = %v, want 4", africa.DoublingPeriodDays)
	}
	if africa.BedAvailability != nil {
		t.Errorf("Africa bed_availability should be unset")
	}

	sa := got["South America"]
	if sa.BedAvailability == nil || *sa.BedAvailability != 40 {
		t.Errorf("South America bed_availability = %v, want 40", sa.BedAvailability)
	}

	for _, r := range []string{"Europe", "Broken"} {
		p, ok := got[r]
		if !ok {
			t.Fatalf("%s missing from result", r)
		}
		if p.BedAvailability != nil || p.ICURate != nil {
			t.Errorf("%s: expected no overrides, got %+v", r, p)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 4 {
		t.Errorf("expected 4 registry requests, got %d", n)
	}

	// Second lookup is served from cache.
	c.Lookup(context.Background(), []string{"Africa", "Europe"})
	if n := atomic.LoadInt32(&hits); n != 4 {
		t.Errorf("expected cached lookups, registry hit %d times", n)
	}
}

func TestLookup_Disabled(t *testing.T) {
	c := New("", time.Second, nil)
	if c.Enabled() {
		t.Fatal("client without URL should be disabled")
	}
	got := c.Lookup(context.Background(), []string{"Africa"})
	if p, ok := got["Africa"]; !ok || p.ICURate != nil {
		t.Errorf("expected empty overrides, got %+v", got)
	}
}

func TestLookup_EmptyRegionName(t *testing.T) {
	var hits int32
	srv := newRegistry(t, &hits)
	c := New(srv.URL, time.Second, nil)

	got := c.Lookup(context.Background(), []string{""})
	if _, ok := got[""]; !ok {
		t.Fatal("empty region missing from result")
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("empty region should not hit the registry, got %d requests", n)
	}
}
