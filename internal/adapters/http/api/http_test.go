package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/maven/internal/adapters/http/api"
	"github.com/okian/maven/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockService struct {
	matchResult    types.MatchResult
	matchErr       error
	teamView       types.TeamView
	teamErr        error
	reassignResult types.ReassignResult
	reassignErr    error
	tags           []string
	tagsErr        error
	invalidateErr  error

	lastProblem  string
	lastSession  string
	lastTags     []string
	lastFrom     string
	lastTo       string
	lastInvalid  string
	reassignHits int
}

func (m *mockService) Match(ctx context.Context, problem string) (types.MatchResult, error) {
	m.lastProblem = problem
	return m.matchResult, m.matchErr
}

func (m *mockService) Team(ctx context.Context, sessionID string) (types.TeamView, error) {
	m.lastSession = sessionID
	return m.teamView, m.teamErr
}

func (m *mockService) Reassign(ctx context.Context, sessionID string, tags []string, from, to string) (types.ReassignResult, error) {
	m.lastSession = sessionID
	m.lastTags = tags
	m.lastFrom = from
	m.lastTo = to
	m.reassignHits++
	return m.reassignResult, m.reassignErr
}

func (m *mockService) AllTags(ctx context.Context) ([]string, error) {
	return m.tags, m.tagsErr
}

func (m *mockService) InvalidateExpert(ctx context.Context, expertID string) error {
	m.lastInvalid = expertID
	return m.invalidateErr
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(svc *mockService) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, mockStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestMatchEndpoint(t *testing.T) {
	Convey("Given the API over a mock service", t, func() {
		svc := &mockService{
			matchResult: types.MatchResult{
				SessionID: "s-1",
				Tags:      []string{"ml"},
			},
		}
		srv := newTestServer(svc)
		defer srv.Close()

		Convey("When posting a valid match request", func() {
			resp, err := http.Post(srv.URL+"/match", "application/json",
				strings.NewReader(`{"problem_statement": "We need ML help"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should return the match result", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var result types.MatchResult
				So(json.NewDecoder(resp.Body).Decode(&result), ShouldBeNil)
				So(result.SessionID, ShouldEqual, "s-1")
				So(svc.lastProblem, ShouldEqual, "We need ML help")
			})
		})

		Convey("When the body is not JSON", func() {
			resp, err := http.Post(srv.URL+"/match", "application/json", strings.NewReader("not json"))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the problem is missing", func() {
			resp, err := http.Post(srv.URL+"/match", "application/json", strings.NewReader(`{"problem_statement": "  "}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When extraction fails upstream", func() {
			svc.matchErr = errors.New("extraction failed: model unavailable")
			resp, err := http.Post(srv.URL+"/match", "application/json",
				strings.NewReader(`{"problem_statement": "anything"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadGateway)
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(srv.URL + "/match")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given the API over a mock service", t, func() {
		svc := &mockService{
			teamView: types.TeamView{
				SessionID: "s-1",
				Members:   []types.TeamMember{{ID: "alice", Tags: []string{"ml"}}},
			},
			reassignResult: types.ReassignResult{Applied: true, Moved: []string{"ml"}},
		}
		srv := newTestServer(svc)
		defer srv.Close()

		Convey("When fetching a team view", func() {
			resp, err := http.Get(srv.URL + "/sessions/s-1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should return the view", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var view types.TeamView
				So(json.NewDecoder(resp.Body).Decode(&view), ShouldBeNil)
				So(view.Members, ShouldHaveLength, 1)
				So(svc.lastSession, ShouldEqual, "s-1")
			})
		})

		Convey("When the session does not exist", func() {
			svc.teamErr = errors.New("session not found: nope")
			resp, err := http.Get(srv.URL + "/sessions/nope")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting a valid reassignment", func() {
			resp, err := http.Post(srv.URL+"/sessions/s-1/reassign", "application/json",
				strings.NewReader(`{"tags": ["ml"], "from": "alice", "to": "bob"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the move should be forwarded and reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var result types.ReassignResult
				So(json.NewDecoder(resp.Body).Decode(&result), ShouldBeNil)
				So(result.Applied, ShouldBeTrue)
				So(svc.lastFrom, ShouldEqual, "alice")
				So(svc.lastTo, ShouldEqual, "bob")
				So(svc.lastTags, ShouldResemble, []string{"ml"})
			})
		})

		Convey("When a reassignment is rejected by the engine", func() {
			svc.reassignResult = types.ReassignResult{Applied: false, Reason: "tags already assigned to destination"}
			resp, err := http.Post(srv.URL+"/sessions/s-1/reassign", "application/json",
				strings.NewReader(`{"from": "alice", "to": "bob"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should still be a 200 with the reason", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var result types.ReassignResult
				So(json.NewDecoder(resp.Body).Decode(&result), ShouldBeNil)
				So(result.Applied, ShouldBeFalse)
				So(result.Reason, ShouldNotBeEmpty)
			})
		})

		Convey("When the reassignment names an unknown expert", func() {
			svc.reassignErr = errors.New("reassign: expert not in roster")
			resp, err := http.Post(srv.URL+"/sessions/s-1/reassign", "application/json",
				strings.NewReader(`{"from": "ghost", "to": "bob"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When from or to is missing", func() {
			resp, err := http.Post(srv.URL+"/sessions/s-1/reassign", "application/json",
				strings.NewReader(`{"from": "alice"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(svc.reassignHits, ShouldEqual, 0)
		})
	})
}

func TestTagsEndpoint(t *testing.T) {
	Convey("Given the API over a mock service", t, func() {
		svc := &mockService{tags: []string{"catalysis", "ml"}}
		srv := newTestServer(svc)
		defer srv.Close()

		Convey("When listing tags", func() {
			resp, err := http.Get(srv.URL + "/tags")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the vocabulary should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Tags []string `json:"tags"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Tags, ShouldResemble, []string{"catalysis", "ml"})
			})
		})
	})
}

func TestExpertsEndpoint(t *testing.T) {
	Convey("Given the API over a mock service", t, func() {
		svc := &mockService{}
		srv := newTestServer(svc)
		defer srv.Close()

		Convey("When invalidating a known expert", func() {
			resp, err := http.Post(srv.URL+"/experts/alice/invalidate", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should acknowledge", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(svc.lastInvalid, ShouldEqual, "alice")
			})
		})

		Convey("When the expert is unknown", func() {
			svc.invalidateErr = errors.New("invalidate: expert not found: ghost")
			resp, err := http.Post(srv.URL+"/experts/ghost/invalidate", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path is malformed", func() {
			resp, err := http.Post(srv.URL+"/experts/alice", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the API over a mock service", t, func() {
		srv := newTestServer(&mockService{})
		defer srv.Close()

		Convey("When fetching stats", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should return JSON stats", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the API over a mock service", t, func() {
		srv := newTestServer(&mockService{})
		defer srv.Close()

		Convey("When probing health", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should serve metrics with a 200", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
