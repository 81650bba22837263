package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"humanproof/internal/jwtauth"
	"humanproof/internal/ledger/proof"
	"humanproof/internal/ledger/service"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
)

// The handler suite drives the real router, auth middleware, and service
// over an in-memory store; only the process edges (listener, backends) are
// absent.
type HandlerSuite struct {
	suite.Suite
	router  chi.Router
	manager *jwtauth.Manager
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.manager = jwtauth.NewManager("test-signing-key", "test-issuer", "test-audience", time.Hour)

	svc := service.New(store.NewMemory())
	h := New(svc, logger, nil, s.manager)

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func wallet(b byte) domain.Wallet {
	var w domain.Wallet
	for i := range w {
		w[i] = b
	}
	return w
}

func hash(b byte) domain.Hash32 {
	var h domain.Hash32
	for i := range h {
		h[i] = b
	}
	return h
}

var (
	authority = wallet(0xA1)
	alice     = wallet(0x01)
)

func (s *HandlerSuite) do(method, path string, as *domain.Wallet, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if as != nil {
		token, err := s.manager.Issue(*as)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) initialize() {
	w := s.do(http.MethodPost, "/registry", &authority, initializeRequest{
		MinBehavioralScore:        50,
		MaxSessionDuration:        3600,
		MaxInteractionsPerSession: 100,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlerSuite) registerVerified(human domain.Wallet) {
	nonce, fingerprint := hash(0x11), hash(0x22)
	w := s.do(http.MethodPost, "/humans", &human, registerHumanRequest{
		ChallengeNonce:  nonce.String(),
		FingerprintHash: fingerprint.String(),
		FeeReceiver:     authority.String(),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	response := proof.ChallengeResponse(nonce, fingerprint)
	w = s.do(http.MethodPost, "/humans/"+human.String()+"/verify", &authority, verifyHumanRequest{
		ChallengeResponse: response.String(),
		BehavioralScore:   80,
		VerificationLevel: 2,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerSuite) TestAuthRequired() {
	s.Run("mutations reject missing tokens", func() {
		w := s.do(http.MethodPost, "/registry", nil, initializeRequest{MaxSessionDuration: 3600})
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("mutations reject garbage tokens", func() {
		req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("public reads need no token", func() {
		w := s.do(http.MethodGet, "/registry", nil, nil)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *HandlerSuite) TestRegistryEndpoints() {
	s.initialize()

	s.Run("get registry", func() {
		w := s.do(http.MethodGet, "/registry", nil, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(authority.String(), resp["authority"])
		s.Equal(float64(3600), resp["max_session_duration"])
	})

	s.Run("second initialize conflicts", func() {
		w := s.do(http.MethodPost, "/registry", &authority, initializeRequest{MaxSessionDuration: 3600})
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("stats start at zero", func() {
		w := s.do(http.MethodGet, "/stats", nil, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(float64(0), resp["total_verified_humans"])
	})
}

func (s *HandlerSuite) TestHumanEndpoints() {
	s.initialize()
	s.registerVerified(alice)

	s.Run("get human", func() {
		w := s.do(http.MethodGet, "/humans/"+alice.String(), nil, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(true, resp["active"])
		s.Equal(authority.String(), resp["verified_by"])
	})

	s.Run("malformed wallet is a bad request", func() {
		w := s.do(http.MethodGet, "/humans/zz", nil, nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unknown wallet is not found", func() {
		w := s.do(http.MethodGet, "/humans/"+wallet(0x99).String(), nil, nil)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *HandlerSuite) TestSessionEndpoints() {
	s.initialize()
	s.registerVerified(alice)

	s.Run("create session", func() {
		w := s.do(http.MethodPost, "/sessions", &alice, createSessionRequest{
			PersonalityID: 1,
			InitialTopic:  hash(0x55).String(),
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		resp := s.decode(w)
		s.Equal(float64(0), resp["index"])
		s.Equal(true, resp["active"])
	})

	s.Run("record interaction", func() {
		w := s.do(http.MethodPost, "/sessions/0/interactions", &alice, recordInteractionRequest{
			ContentHash:     hash(0x66).String(),
			InteractionType: 2,
			Score:           100,
			DurationSeconds: 300,
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		resp := s.decode(w)
		s.Equal(float64(0), resp["index"])
	})

	s.Run("read back session and interaction", func() {
		w := s.do(http.MethodGet, "/sessions/0", &alice, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(float64(310), s.decode(w)["score"])

		w = s.do(http.MethodGet, "/sessions/0/interactions/0", &alice, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(hash(0x66).String(), s.decode(w)["content_hash"])
	})

	s.Run("extend rejects a non-positive duration", func() {
		w := s.do(http.MethodPost, "/sessions/0/extend", &alice, extendSessionRequest{AdditionalSeconds: 0})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("close then close again", func() {
		w := s.do(http.MethodPost, "/sessions/0/close", &alice, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(false, s.decode(w)["active"])

		w = s.do(http.MethodPost, "/sessions/0/close", &alice, nil)
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("non-numeric index is a bad request", func() {
		w := s.do(http.MethodGet, "/sessions/abc", &alice, nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestFundsEndpoints() {
	s.initialize()

	s.Run("authority deposits", func() {
		w := s.do(http.MethodPost, "/funds/deposit", &authority, depositRequest{
			Wallet: alice.String(),
			Amount: 500,
		})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.Equal(float64(500), s.decode(w)["balance"])
	})

	s.Run("non-authority cannot deposit", func() {
		w := s.do(http.MethodPost, "/funds/deposit", &alice, depositRequest{
			Wallet: alice.String(),
			Amount: 500,
		})
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("caller reads own balance", func() {
		w := s.do(http.MethodGet, "/funds/balance", &alice, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(alice.String(), resp["wallet"])
		s.Equal(float64(500), resp["balance"])
	})
}
