// Package session tracks one interaction with the analysis service:
// a query goes out, and either a result or an error comes back.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/aicode/pkg/api"
)

type State int

const (
	Idle State = iota
	Loading
	Displaying
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Displaying:
		return "displaying"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrEmptyQuery        = errors.New("query is empty")
	ErrStaleResponse     = errors.New("response for a superseded query")
)

// Session owns the current query, result and loading state. The zero value
// is an idle session. It is not safe for concurrent use; the UI loop owns it.
type Session struct {
	state  State
	seq    uint64
	query  string
	result api.Result
	err    error
}

func (s *Session) State() State       { return s.state }
func (s *Session) Query() string      { return s.query }
func (s *Session) Result() api.Result { return s.result }
func (s *Session) Err() error         { return s.err }

// Seq identifies the most recent submission.
func (s *Session) Seq() uint64 { return s.seq }

// Submit starts a new request and returns its sequence number.
func (s *Session) Submit(query string) (uint64, error) {
	if strings.TrimSpace(query) == "" {
		return 0, ErrEmptyQuery
	}
	if s.state == Loading {
		return 0, fmt.Errorf("%w: submit while %s", ErrInvalidTransition, s.state)
	}
	s.seq++
	s.state = Loading
	s.query = query
	s.result = api.Result{}
	s.err = nil
	return s.seq, nil
}

// ResponseReceived moves a loading session to Displaying.
func (s *Session) ResponseReceived(seq uint64, r api.Result) error {
	if err := s.checkPending(seq); err != nil {
		return err
	}
	s.state = Displaying
	s.result = r
	return nil
}

// ResponseFailed moves a loading session to Failed.
func (s *Session) ResponseFailed(seq uint64, err error) error {
	if cerr := s.checkPending(seq); cerr != nil {
		return cerr
	}
	s.state = Failed
	s.err = err
	return nil
}

// Reset returns to Idle, discarding any result. A response still in flight
// will then be rejected as stale.
func (s *Session) Reset() {
	if s.state == Loading {
		s.seq++
	}
	s.state = Idle
	s.query = ""
	s.result = api.Result{}
	s.err = nil
}

func (s *Session) checkPending(seq uint64) error {
	if seq != s.seq {
		return ErrStaleResponse
	}
	if s.state != Loading {
		return fmt.Errorf("%w: response while %s", ErrInvalidTransition, s.state)
	}
	return nil
}
