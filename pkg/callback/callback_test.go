package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sushant-bot/HONEY-POT/pkg/report"
)

func TestNewPicksReporter(t *testing.T) {
	if _, ok := New("", "key").(*LogReporter); !ok {
		t.Error("empty URL should yield a log reporter")
	}
	if _, ok := New("http://example.com/report", "key").(*HTTPReporter); !ok {
		t.Error("configured URL should yield an HTTP reporter")
	}
}

func TestHTTPReporterDeliver(t *testing.T) {
	var got report.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(srv.URL, "secret")
	payload := report.Payload{ReportID: "r-1", SessionID: "s-1", ScamDetected: true}
	if err := r.Deliver(context.Background(), payload); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got.SessionID != "s-1" || !got.ScamDetected {
		t.Errorf("delivered payload = %+v", got)
	}
}

func TestHTTPReporterErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	r := New(srv.URL, "")
	if err := r.Deliver(context.Background(), report.Payload{ReportID: "r-2"}); err == nil {
		t.Fatal("expected error on 403 response")
	}
}

func TestLogReporterNeverFails(t *testing.T) {
	r := &LogReporter{}
	if err := r.Deliver(context.Background(), report.Payload{ReportID: "r-3"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
}
