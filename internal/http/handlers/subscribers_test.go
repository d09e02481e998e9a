package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"server/internal/domain"
)

func TestSubscribeWelcomeAndCounter(t *testing.T) {
	counters := &fakeCounters{}
	app, mailer := newTestApp(newFakeArticles(), counters)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribers",
		strings.NewReader(`{"email":"Reader@Example.com"}`))
	rr := httptest.NewRecorder()
	app.Subscribe(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	subs := app.Subscribers.(*fakeSubscribers)
	if len(subs.subs) != 1 || subs.subs[0].Email != "reader@example.com" {
		t.Fatalf("stored subscribers = %+v", subs.subs)
	}
	if subs.subs[0].Source != "website" {
		t.Fatalf("default source = %q, want website", subs.subs[0].Source)
	}
	if counters.subscribers != 1 {
		t.Fatalf("subscriber counter = %d, want 1", counters.subscribers)
	}
	if len(mailer.welcomes) != 1 || mailer.welcomes[0] != "reader@example.com" {
		t.Fatalf("welcome emails = %v", mailer.welcomes)
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	counters := &fakeCounters{}
	app, mailer := newTestApp(newFakeArticles(), counters)
	app.Subscribers.(*fakeSubscribers).dupeOn = "reader@example.com"

	req := httptest.NewRequest(http.MethodPost, "/api/subscribers",
		strings.NewReader(`{"email":"reader@example.com"}`))
	rr := httptest.NewRecorder()
	app.Subscribe(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if counters.subscribers != 0 || len(mailer.welcomes) != 0 {
		t.Fatalf("duplicate subscription produced side effects")
	}
}

func TestSubscribeInvalidEmail(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})

	req := httptest.NewRequest(http.MethodPost, "/api/subscribers",
		strings.NewReader(`{"email":"not-an-email"}`))
	rr := httptest.NewRecorder()
	app.Subscribe(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestUnsubscribe(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})
	subs := app.Subscribers.(*fakeSubscribers)
	subs.subs = []domain.Subscriber{{Email: "reader@example.com", Active: true}}

	req := httptest.NewRequest(http.MethodDelete, "/api/subscribers/Reader@Example.com", nil)
	rr := httptest.NewRecorder()
	app.Unsubscribe(rr, withURLParam(req, "email", "Reader@Example.com"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if subs.subs[0].Active {
		t.Fatalf("subscriber still active after unsubscribe")
	}
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})

	req := httptest.NewRequest(http.MethodDelete, "/api/subscribers/ghost@example.com", nil)
	rr := httptest.NewRecorder()
	app.Unsubscribe(rr, withURLParam(req, "email", "ghost@example.com"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
