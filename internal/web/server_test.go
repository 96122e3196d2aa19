package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/metrics"
	"github.com/elys-network/bondstake/internal/state"
	"github.com/elys-network/bondstake/internal/testutil"
	"github.com/elys-network/bondstake/internal/web"
)

type ServerTestSuite struct {
	suite.Suite
	app *app.App
	srv *httptest.Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	recorder, err := state.OpenSQLite(context.Background(), filepath.Join(s.T().TempDir(), "history.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = recorder.Close() })

	m := metrics.New()
	s.app, _ = testutil.NewAppWithConfig(s.T(), testutil.DefaultGenesis(), app.Config{Recorder: recorder, Metrics: m})
	s.srv = httptest.NewServer(web.NewWebServer(s.app, m.Handler(), "").Handler())
	s.T().Cleanup(s.srv.Close)
}

func (s *ServerTestSuite) get(path string) (int, map[string]any) {
	resp, err := http.Get(s.srv.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	return resp.StatusCode, s.decode(resp.Body)
}

func (s *ServerTestSuite) post(path, body string) (int, map[string]any) {
	resp, err := http.Post(s.srv.URL+path, "application/json", bytes.NewBufferString(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	return resp.StatusCode, s.decode(resp.Body)
}

func (s *ServerTestSuite) decode(r io.Reader) map[string]any {
	var out map[string]any
	s.Require().NoError(json.NewDecoder(r).Decode(&out))
	return out
}

func (s *ServerTestSuite) deposit(sender, maxPrice string) (int, map[string]any) {
	return s.post("/api/execute", fmt.Sprintf(`{
		"sender": %q,
		"contract": "bond",
		"funds": [{"denom": "ulp", "amount": "10000"}],
		"msg": {"deposit": {"max_price": %q}}
	}`, sender, maxPrice))
}

func (s *ServerTestSuite) TestHealth() {
	status, body := s.get("/health")
	s.Equal(http.StatusOK, status)
	s.Equal("OK", body["status"])
	host := body["host"].(map[string]any)
	s.Equal(true, host["instantiated"])
	s.Equal(true, host["recorder_healthy"])
}

func (s *ServerTestSuite) TestExecuteAndHistory() {
	status, body := s.deposit(testutil.Alice, "2.5")
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal(float64(1), body["height"])
	s.NotEmpty(body["trace_id"])

	status, body = s.deposit(testutil.Alice, "1")
	s.Equal(http.StatusBadRequest, status)
	s.Contains(body["message"], "slippage")

	status, body = s.get("/api/receipts?limit=5")
	s.Equal(http.StatusOK, status)
	s.Equal(float64(2), body["count"])
	s.Equal(float64(5), body["limit"])

	status, body = s.get("/api/summary")
	s.Equal(http.StatusOK, status)
	s.Equal(float64(2), body["total_calls"])

	status, body = s.get(fmt.Sprintf("/api/balance/%s/ulp", testutil.Alice))
	s.Equal(http.StatusOK, status)
	s.InDelta(0.09, body["display"], 1e-9)

	status, body = s.get(fmt.Sprintf("/api/query/bond/bond_info?address=%s", testutil.Alice))
	s.Equal(http.StatusOK, status)
	s.Equal("5000", body["payout"])
}

func (s *ServerTestSuite) TestErrorStatus() {
	status, _ := s.post("/api/execute", fmt.Sprintf(`{
		"sender": %q,
		"contract": "staking",
		"msg": {"mint": {"to": %q, "amount": "100"}}
	}`, testutil.Alice, testutil.Alice))
	s.Equal(http.StatusForbidden, status)

	status, _ = s.post("/api/execute", `{"sender": "x", "contract": "nope", "msg": {"deposit": {}}}`)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.post("/api/execute", `not json`)
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.get("/api/query/bond/payout_for?value=abc")
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.get(fmt.Sprintf("/api/query/bond/bond_info?address=%s", testutil.Bob))
	s.Equal(http.StatusNotFound, status)
}

func (s *ServerTestSuite) TestTransfer() {
	status, body := s.post("/api/transfer", fmt.Sprintf(`{
		"from": %q,
		"to": %q,
		"coins": [{"denom": "ulp", "amount": "500"}]
	}`, testutil.Alice, testutil.Bob))
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal(int64(100_500), testutil.Balance(s.T(), s.app, testutil.Bob, testutil.Principal).Int64())
}

func (s *ServerTestSuite) TestMetrics() {
	_, _ = s.deposit(testutil.Alice, "2.5")

	resp, err := http.Get(s.srv.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(strings.Contains(string(raw), `bondstake_calls_total{contract="bond",result="ok",type="deposit"} 1`), string(raw))
}
