package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"infoflow/internal/infrastructure/memstore"
	"infoflow/internal/tools"
	"infoflow/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	profiles := memstore.NewProfileStore()
	scorer := usecase.NewScorer(usecase.TierPolicy{}, nil)
	deps := tools.Deps{
		Profiles:    usecase.NewProfiles(profiles, nil),
		Scorer:      scorer,
		Synthesizer: usecase.NewSynthesizer(0, nil),
		Decisions:   usecase.NewDecisionEngine(memstore.NewDecisionStore(), profiles, usecase.DefaultDecisionPolicy(), nil),
		Monitor:     usecase.NewTopicMonitor(memstore.NewTopicStore(), profiles, scorer, nil),
	}
	registry := tools.NewRegistry()
	tools.RegisterAll(registry, deps)

	ts := httptest.NewServer(New(registry, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, tool, payload string) (int, APIResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/tools/"+tool, "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", tool, err)
	}
	defer resp.Body.Close()

	var body APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, body
}

func TestListTools(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/tools")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != CodeSuccess {
		t.Fatalf("code = %d", body.Code)
	}
	list, ok := body.Data.([]any)
	if !ok || len(list) != 10 {
		t.Fatalf("expected 10 tools, got %v", body.Data)
	}
}

func TestCallSuccess(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	status, body := call(t, ts, "create_user_profile", `{"profile_id":"u1","interests":{"ai":1.0}}`)
	if status != http.StatusOK || body.Code != CodeSuccess {
		t.Fatalf("status = %d, code = %d, message = %s", status, body.Code, body.Message)
	}
}

func TestCallUnknownTool(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	status, body := call(t, ts, "no_such_tool", `{}`)
	if status != http.StatusNotFound || body.Code != CodeNotFound {
		t.Fatalf("status = %d, code = %d", status, body.Code)
	}
}

func TestCallValidationError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	status, body := call(t, ts, "create_user_profile", `{"profile_id":""}`)
	if status != http.StatusBadRequest || body.Code != CodeInvalidParams {
		t.Fatalf("status = %d, code = %d", status, body.Code)
	}
	if body.Message == "" || body.Message == "internal error" {
		t.Fatalf("validation message must be surfaced, got %q", body.Message)
	}
}

func TestCallInvalidStateError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	if status, _ := call(t, ts, "create_user_profile", `{"profile_id":"u1"}`); status != http.StatusOK {
		t.Fatalf("seed profile: status = %d", status)
	}

	_, created := call(t, ts, "create_decision",
		`{"profile_id":"u1","title":"pick","options":[{"label":"a"},{"label":"b"}]}`)
	decisionID := created.Data.(map[string]any)["decision_id"].(string)

	status, body := call(t, ts, "update_decision",
		`{"decision_id":"`+decisionID+`","action":"resolve","option":"a"}`)
	if status != http.StatusConflict || body.Code != CodeInvalidState {
		t.Fatalf("status = %d, code = %d", status, body.Code)
	}
}

func TestCallInsufficientDataError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	if status, _ := call(t, ts, "create_user_profile", `{"profile_id":"u1"}`); status != http.StatusOK {
		t.Fatal("seed profile failed")
	}

	status, body := call(t, ts, "synthesize_information", `{"profile_id":"u1","items":[]}`)
	if status != http.StatusUnprocessableEntity || body.Code != CodeInsufficientData {
		t.Fatalf("status = %d, code = %d", status, body.Code)
	}
}
