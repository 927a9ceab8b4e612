package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientForward(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"18.5204","lon":"73.8567"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	coords, ok, err := client.Forward(context.Background(), "MG Road", "Pune", "Maharashtra")
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if !ok {
		t.Fatal("expected a result")
	}
	if coords.Lat != 18.5204 || coords.Lon != 73.8567 {
		t.Errorf("unexpected coordinates: %+v", coords)
	}
	if gotQuery != "MG Road, Pune, Maharashtra, India" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestClientForwardSkipsEmptyFields(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, ok, err := client.Forward(context.Background(), "", "Pune", "")
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if ok {
		t.Error("expected no result for empty response")
	}
	if gotQuery != "Pune, India" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestClientForwardAllFieldsEmpty(t *testing.T) {
	client := NewClient("http://unused.invalid", time.Second)
	_, ok, err := client.Forward(context.Background(), "", "", "  ")
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if ok {
		t.Error("expected no lookup for an entirely empty address")
	}
}

func TestClientForwardServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, _, err := client.Forward(context.Background(), "MG Road", "Pune", "Maharashtra")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestClientReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"address":{"state":"Maharashtra","town":"Shirur","road":"Station Road","village":"Shirur"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	addr, err := client.Reverse(context.Background(), 18.8, 74.3)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if addr.State != "Maharashtra" {
		t.Errorf("unexpected state %q", addr.State)
	}
	// city falls back through the component chain: city > town > village
	if addr.City != "Shirur" {
		t.Errorf("unexpected city %q", addr.City)
	}
	if addr.Area != "Station Road" {
		t.Errorf("unexpected area %q", addr.Area)
	}
	if !addr.Rural {
		t.Error("expected village component to mark the address rural")
	}
}
