package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/wormhole"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTVL struct {
	report    entity.TVLReport
	refreshed int
	deadline  bool
}

func (f *fakeTVL) Snapshot() entity.TVLReport { return f.report }

func (f *fakeTVL) ChainState(chain entity.ChainID) (entity.DataWrapper[[]entity.TVLEntry], bool) {
	if chain == entity.ChainTerra {
		return entity.Failed[[]entity.TVLEntry]("Unable to retrieve Terra TVL.", time.Now()), true
	}
	return entity.DataWrapper[[]entity.TVLEntry]{}, false
}

func (f *fakeTVL) Refresh(ctx context.Context) entity.TVLReport {
	f.refreshed++
	_, f.deadline = ctx.Deadline()
	return f.report
}

type fakeFetcher struct {
	err error
}

func (f fakeFetcher) Chain() entity.ChainID { return entity.ChainSolana }

func (f fakeFetcher) FetchBalance(_ context.Context, asset, wallet string) (*entity.ParsedTokenAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.ParsedTokenAccount{Address: wallet, MintOrContract: asset, RawAmount: "1500", Decimals: 3, UIAmount: 1.5, UIAmountString: "1.5"}, nil
}

type fakeFetchers struct {
	fetcher port.BalanceFetcher
}

func (f fakeFetchers) For(chain entity.ChainID) (port.BalanceFetcher, error) {
	if chain != entity.ChainSolana {
		return nil, entity.ErrUnsupportedChain
	}
	return f.fetcher, nil
}

type fakeWrapped struct {
	payer string
	vaa   []byte
	err   error
}

func (f *fakeWrapped) CreateWrapped(_ context.Context, chain entity.ChainID, payer string, signedVAA []byte) (*entity.WrappedTransaction, error) {
	f.payer, f.vaa = payer, signedVAA
	if f.err != nil {
		return nil, f.err
	}
	return &entity.WrappedTransaction{Chain: chain, Signature: "sig", Slot: 7}, nil
}

type testServer struct {
	router  *gin.Engine
	tvl     *fakeTVL
	wrapped *fakeWrapped
}

func newTestServer(t *testing.T, fetchErr error) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tvl := &fakeTVL{report: entity.TVLReport{Data: []entity.TVLEntry{{Symbol: "WETH", Amount: "1.5"}}, Error: "Unable to retrieve BSC TVL."}}
	wrapped := &fakeWrapped{}
	h := NewHandler(tvl, fakeFetchers{fetcher: fakeFetcher{err: fetchErr}}, wrapped, time.Second, zap.NewNop())
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "bridge_tvl_test_total"}))

	return &testServer{
		router:  SetupRouter(h, RouterConfig{Gatherer: reg}, zap.NewNop()),
		tvl:     tvl,
		wrapped: wrapped,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestGetTVL(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodGet, "/api/v1/tvl", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"symbol":"WETH"`)
	assert.Contains(t, w.Body.String(), `"error":"Unable to retrieve BSC TVL."`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestGetChainTVL(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/v1/tvl/terra", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to retrieve Terra TVL.")

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/tvl/dogechain", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/tvl/solana", "").Code)
}

func TestRefreshTVL(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/v1/tvl/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.tvl.refreshed)
	assert.True(t, s.tvl.deadline)
}

func TestGetBalance(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodGet, "/api/v1/balance/solana/mintA?wallet=wallet1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uiAmountString":"1.5"`)
	assert.Contains(t, w.Body.String(), `"mintKey":"mintA"`)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/balance/solana/mintA", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/balance/terra/uluna?wallet=x", "").Code)
}

func TestGetBalanceErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: entity.ErrInvalidAddress, code: http.StatusBadRequest},
		{err: entity.ErrNoTokenAccount, code: http.StatusNotFound},
		{err: errors.New("rpc timeout"), code: http.StatusBadGateway},
	}
	for _, tt := range tests {
		s := newTestServer(t, tt.err)
		w := s.do(http.MethodGet, "/api/v1/balance/solana/mintA?wallet=w", "")
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}

func TestCreateWrapped(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/v1/wrapped/solana", `{"payer":"p1","vaa":"0x0102"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", s.wrapped.payer)
	assert.Equal(t, []byte{1, 2}, s.wrapped.vaa)
	assert.Contains(t, w.Body.String(), `"signature":"sig"`)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/wrapped/solana", `{"payer":"p1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/wrapped/solana", `{"payer":"p1","vaa":"%%%"}`).Code)
}

func TestCreateWrappedErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: entity.ErrUnsupportedChain, code: http.StatusNotImplemented},
		{err: wormhole.ErrPayerMismatch, code: http.StatusBadRequest},
		{err: entity.ErrInvalidVAA, code: http.StatusBadRequest},
		{err: errors.New("transaction not confirmed"), code: http.StatusBadGateway},
	}
	for _, tt := range tests {
		s := newTestServer(t, nil)
		s.wrapped.err = tt.err
		w := s.do(http.MethodPost, "/api/v1/wrapped/ethereum", `{"payer":"p1","vaa":"0102"}`)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/health", "").Code)

	w := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bridge_tvl_test_total")
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
