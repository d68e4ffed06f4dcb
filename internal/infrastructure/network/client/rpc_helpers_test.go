package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// rpcHandler returns a raw JSON result, or an error message when err is non-empty.
type rpcHandler func(params []interface{}) (result string, err string)

// fakeRPC is a minimal JSON-RPC 2.0 node for client tests.
type fakeRPC struct {
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string]int
}

func newFakeRPC(t *testing.T, handlers map[string]rpcHandler) (*fakeRPC, *httptest.Server) {
	t.Helper()
	f := &fakeRPC{handlers: handlers, calls: make(map[string]int)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var req struct {
			ID     interface{}   `json:"id"`
			Method string        `json:"method"`
			Params []interface{} `json:"params"`
		}
		require.NoError(t, dec.Decode(&req))
		id, err := json.Marshal(req.ID)
		require.NoError(t, err)

		f.mu.Lock()
		f.calls[req.Method]++
		h, ok := f.handlers[req.Method]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method %s not found"}}`, id, req.Method)
			return
		}
		result, rpcErr := h(req.Params)
		if rpcErr != "" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":%q}}`, id, rpcErr)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, id, result)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeRPC) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}
