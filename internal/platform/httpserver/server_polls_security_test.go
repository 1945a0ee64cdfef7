package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pollhttp "modpanel/contexts/review-operations/poll-consensus/transport/http"
)

func TestCheckNewPollsRequiresAuthorizationHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/polls/check-new", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreatePollRequiresSeniorTier(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"question":"Rotate shifts?","options":["Yes","No"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/polls", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", moderatorToken(t, server))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPollVoteConflictOnSecondVote(t *testing.T) {
	server := newTestServer()

	createBody := []byte(`{"question":"Rotate shifts?","options":["Yes","No"]}`)
	createReq := httptest.NewRequest(http.MethodPost, "/api/polls", bytes.NewReader(createBody))
	createReq.Header.Set("Content-Type", "application/json")
	createReq.Header.Set("Authorization", seniorToken(t, server))

	createRR := httptest.NewRecorder()
	server.mux.ServeHTTP(createRR, createReq)
	if createRR.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", createRR.Code, createRR.Body.String())
	}
	var created pollhttp.CreatePollResponse
	if err := json.Unmarshal(createRR.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	vote := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/polls/"+created.ID+"/vote", bytes.NewReader([]byte(`{"option_index":0}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", moderatorToken(t, server))
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	if rr := vote(); rr.Code != http.StatusOK {
		t.Fatalf("first vote expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := vote(); rr.Code != http.StatusConflict {
		t.Fatalf("second vote expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeletePollRequiresTopTier(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodDelete, "/api/polls/poll-1", nil)
	req.Header.Set("Authorization", seniorToken(t, server))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
