package mux

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdeal-server/internal/config"
	"fairdeal-server/internal/jwt"
	"fairdeal-server/pkg/assets"
	"fairdeal-server/pkg/auth"
	"fairdeal-server/pkg/event"
	"fairdeal-server/pkg/game"
	"fairdeal-server/pkg/random"
)

func setupJWT() {
	os.Setenv("FAIRDEAL_JWT_PUBLIC_KEY", "testdata/public.pem")
	os.Setenv("FAIRDEAL_JWT_PRIVATE_KEY", "testdata/private.key")
	if err := config.Load(); err != nil {
		panic(err)
	}

	jwt.LoadKeys()
}

// stubGateway records request ids; the test drives fulfillment
type stubGateway struct {
	requests []uuid.UUID
}

func (s *stubGateway) Request(_ random.Seed) (uuid.UUID, error) {
	id := uuid.New()
	s.requests = append(s.requests, id)
	return id, nil
}

type testServer struct {
	mux     *Mux
	ts      *httptest.Server
	manager *game.Manager
	gateway *stubGateway
	authz   *auth.Registry
	ledger  *assets.Mem
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	setupJWT()

	gateway := &stubGateway{}
	authz := auth.NewRegistry()
	ledger := assets.NewMem()
	events := event.NewLog()

	opts := game.Options{
		StartingStack: 1000,
		SmallBlind:    1,
		BigBlind:      2,
		MaxPlayers:    6,
	}

	manager, err := game.NewManager(logrus.StandardLogger(), opts, authz, gateway, ledger, events)
	require.NoError(t, err)

	m := NewMux("", manager, authz, events)
	ts := httptest.NewServer(m)
	t.Cleanup(ts.Close)

	return &testServer{
		mux:     m,
		ts:      ts,
		manager: manager,
		gateway: gateway,
		authz:   authz,
		ledger:  ledger,
	}
}

func signedJWTFor(t *testing.T, identity string) string {
	t.Helper()

	token, err := jwt.Sign(identity)
	require.NoError(t, err)
	return token
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGetWithResp(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	_ = assertGetWithResp(t, ts, path, respObj, statusCode, signedJWT...)
}

func assertRequest(t *testing.T, ts *httptest.Server, method, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case nil:
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	_ = assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	assertRequest(t, ts, http.MethodPost, path, payload, respObj, statusCode, signedJWT...)
}

func TestStatusForCode(t *testing.T) {
	a := assert.New(t)

	a.Equal(http.StatusNotFound, statusForCode(game.CodeGameNotFound))
	a.Equal(http.StatusNotFound, statusForCode(game.CodePlayerNotFound))
	a.Equal(http.StatusForbidden, statusForCode(game.CodeNotAuthorized))
	a.Equal(http.StatusConflict, statusForCode(game.CodeInvalidState))
	a.Equal(http.StatusConflict, statusForCode(game.CodeNotYourTurn))
	a.Equal(http.StatusConflict, statusForCode(game.CodeGameFull))
	a.Equal(http.StatusBadRequest, statusForCode(game.CodeBetTooLow))
	a.Equal(http.StatusBadRequest, statusForCode(game.CodeInsufficientChips))
	a.Equal(http.StatusInternalServerError, statusForCode(game.Code("bogus")))
}

func TestDecodeRequest(t *testing.T) {
	a := assert.New(t)

	var payload betPayload

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":5}`))
	r.Header.Set("Content-Type", "application/json")
	a.True(decodeRequest(w, r, &payload))
	a.Equal(5, payload.Amount)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":5}`))
	r.Header.Set("Content-Type", "text/plain")
	a.False(decodeRequest(w, r, &payload))
	a.Equal(http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":`))
	r.Header.Set("Content-Type", "application/json")
	a.False(decodeRequest(w, r, &payload))
	a.Equal(http.StatusBadRequest, w.Code)
}
