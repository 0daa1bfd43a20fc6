package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

// A request sent with a token that a concurrent renewal has already
// replaced must replay with the current token instead of renewing again.
func TestDo_StaleTokenReplaysWithoutRenewal(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var refreshes, replays atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRefresh:
			refreshes.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access":"new"}`))
		case "/api/employees/":
			switch r.Header.Get("Authorization") {
			case "Bearer old":
				if r.URL.Query().Get("search") == "slow" {
					close(arrived)
					<-release
				}
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"token expired"}`))
			case "Bearer new":
				if r.URL.Query().Get("search") == "slow" {
					replays.Add(1)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
			default:
				w.WriteHeader(http.StatusForbidden)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sess := newSession()
	sess.AccessToken.Set("old")
	client, err := NewClient(srv.URL, sess)
	if err != nil {
		t.Fatal(err)
	}

	slowErr := make(chan error, 1)
	go func() {
		var page model.Page[model.Employee]
		slowErr <- client.Get(context.Background(), "/api/employees/?search=slow", &page)
	}()
	<-arrived

	var page model.Page[model.Employee]
	if err := client.Get(context.Background(), "/api/employees/?search=fast", &page); err != nil {
		t.Fatalf("fast request: %v", err)
	}
	if got := sess.AccessToken.Get(); got != "new" {
		t.Fatalf("token after renewal = %q, want new", got)
	}

	close(release)
	if err := <-slowErr; err != nil {
		t.Fatalf("slow request: %v", err)
	}

	if got := refreshes.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if got := client.Refresher().Renewals(); got != 1 {
		t.Errorf("renewals = %d, want 1", got)
	}
	if got := replays.Load(); got != 1 {
		t.Errorf("slow replays = %d, want 1", got)
	}
}

// A session cleared while a request was in flight is not renewed.
func TestDo_ClearedSessionIsExpired(t *testing.T) {
	var refreshes atomic.Int32
	sess := newSession()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == PathRefresh {
			refreshes.Add(1)
			_, _ = w.Write([]byte(`{"access":"new"}`))
			return
		}
		sess.Clear()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess.AccessToken.Set("old")
	client, err := NewClient(srv.URL, sess)
	if err != nil {
		t.Fatal(err)
	}

	err = client.Get(context.Background(), "/api/documentation/", nil)
	if KindOf(err) != KindAuthExpired {
		t.Fatalf("kind = %s, want auth_expired (err %v)", KindOf(err), err)
	}
	if got := refreshes.Load(); got != 0 {
		t.Errorf("refresh calls = %d, want 0", got)
	}
}
