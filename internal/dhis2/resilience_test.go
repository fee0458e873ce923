package dhis2

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type scriptedDoer struct {
	calls     int
	responses []int
	err       error
}

func (d *scriptedDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	status := d.responses[min(d.calls, len(d.responses))-1]
	return &http.Response{StatusCode: status, Body: http.NoBody}, nil
}

type BreakerDoerSuite struct {
	suite.Suite
}

func TestBreakerDoerSuite(t *testing.T) {
	suite.Run(t, new(BreakerDoerSuite))
}

func (s *BreakerDoerSuite) request() *http.Request {
	req, err := http.NewRequest(http.MethodGet, "http://registry.local/api/system/id", nil)
	s.Require().NoError(err)
	return req
}

func (s *BreakerDoerSuite) TestPassesThroughWhileHealthy() {
	doer := NewBreakerDoer(&scriptedDoer{responses: []int{200}}, nil)

	for range 10 {
		resp, err := doer.Do(s.request())
		s.Require().NoError(err)
		s.Equal(200, resp.StatusCode)
	}
}

func (s *BreakerDoerSuite) TestOpensAfterConsecutiveFailures() {
	inner := &scriptedDoer{err: errors.New("connection refused")}
	doer := NewBreakerDoer(inner, nil)

	for range 5 {
		_, err := doer.Do(s.request())
		s.Error(err)
	}
	s.Equal(5, inner.calls)

	// Open circuit sheds without touching the network.
	_, err := doer.Do(s.request())
	s.ErrorIs(err, ErrCircuitOpen)
	s.Equal(5, inner.calls)
}

func (s *BreakerDoerSuite) TestServerErrorsCountAsFailures() {
	inner := &scriptedDoer{responses: []int{503}}
	doer := NewBreakerDoer(inner, nil)

	for range 5 {
		resp, err := doer.Do(s.request())
		s.NoError(err)
		s.Equal(503, resp.StatusCode)
	}

	_, err := doer.Do(s.request())
	s.ErrorIs(err, ErrCircuitOpen)
}

func (s *BreakerDoerSuite) TestProbesAndRecovers() {
	inner := &scriptedDoer{err: errors.New("connection refused")}
	doer := NewBreakerDoer(inner, nil)

	for range 5 {
		_, err := doer.Do(s.request())
		s.Error(err)
	}

	// Registry comes back. Every fifth shed request probes it; three
	// successful probes close the circuit.
	inner.err = nil
	inner.responses = []int{200}

	probes := 0
	for range 15 {
		if _, err := doer.Do(s.request()); err == nil {
			probes++
		}
	}
	s.Equal(3, probes)

	resp, err := doer.Do(s.request())
	s.Require().NoError(err)
	s.Equal(200, resp.StatusCode)
}
