package counting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsatony/headcount/internal/config"
	"github.com/itsatony/headcount/internal/errors"
)

func TestFetchCounts_SendsFormEncodedBatch(t *testing.T) {
	var received []Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if err := json.Unmarshal([]byte(r.PostForm.Get("cameras")), &received); err != nil {
			t.Fatalf("decoding form field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":[
			{"camera_id":1,"camera_name":"lobby","in":5,"out":2,"start_time":3540,"end_time":"3600"},
			{"camera_id":2,"camera_name":"dock","in":0,"out":1,"start_time":3480.0,"end_time":3600}
		]}`))
	}))
	defer server.Close()

	client := NewClient(config.CountingConfig{URL: server.URL, FormField: "cameras", Timeout: time.Second})
	batch := []Request{
		{CameraName: "lobby", CameraID: 1, StartTime: 3540, EndTime: 3600},
		{CameraName: "dock", CameraID: 2, StartTime: 3480, EndTime: 3600},
	}

	resp, err := client.FetchCounts(context.Background(), batch)
	if err != nil {
		t.Fatalf("FetchCounts() error: %v", err)
	}
	if len(received) != 2 || received[1].StartTime != 3480 || received[0].CameraName != "lobby" {
		t.Errorf("server received %+v", received)
	}
	if !resp.Succeeded() || len(resp.Data) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Data[0].EndTime != 3600 || resp.Data[1].StartTime != 3480 {
		t.Errorf("epoch parsing failed: %+v", resp.Data)
	}
}

func TestFetchCounts_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		}},
		{"bad epoch", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success","data":[{"camera_id":1,"start_time":"soon","end_time":1}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(config.CountingConfig{URL: server.URL})
			_, err := client.FetchCounts(context.Background(), []Request{{CameraID: 1}})
			if !errors.IsUpstream(err) {
				t.Errorf("FetchCounts() error = %v, want upstream error", err)
			}
		})
	}
}

func TestFetchCounts_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(config.CountingConfig{URL: url, Timeout: time.Second})
	if _, err := client.FetchCounts(context.Background(), []Request{{CameraID: 1}}); !errors.IsUpstream(err) {
		t.Errorf("FetchCounts() error = %v, want upstream error", err)
	}
}

func TestResponseSucceeded(t *testing.T) {
	var nilResp *Response
	if nilResp.Succeeded() {
		t.Error("nil response should not succeed")
	}
	if (&Response{Status: "error"}).Succeeded() {
		t.Error("status error should not succeed")
	}
	if !(&Response{Status: "success"}).Succeeded() {
		t.Error("status success should succeed")
	}
}
