package snapshot_test

import (
	"context"
	"sync"

	"github.com/tezedge/tezedge-snapshots/docker"
	"github.com/tezedge/tezedge-snapshots/rpc"
)

// runtimeStub stands in for the docker daemon. It records every call in
// order, so tests can assert on the exact container choreography.
type runtimeStub struct {
	mu    sync.Mutex
	calls []string

	stopErr   map[string]error
	startErr  map[string]error
	createErr error
	removeErr error

	created []docker.ContainerSpec

	// onCreate, when set, plays the part of the created container. It runs
	// synchronously before CreateContainer returns.
	onCreate func(spec docker.ContainerSpec)

	// pollsUntilExit is how many times a created helper container reports
	// itself as running before it exits.
	pollsUntilExit int
	polls          int
}

func newRuntimeStub() *runtimeStub {
	return &runtimeStub{
		stopErr:  map[string]error{},
		startErr: map[string]error{},
	}
}

func (s *runtimeStub) StopContainer(_ context.Context, name string) error {
	s.record("stop " + name)
	return s.stopErr[name]
}

func (s *runtimeStub) StartContainer(_ context.Context, name string) error {
	s.record("start " + name)
	return s.startErr[name]
}

func (s *runtimeStub) CreateContainer(_ context.Context, spec docker.ContainerSpec) (string, error) {
	s.record("create " + spec.Name)
	if s.createErr != nil {
		return "", s.createErr
	}
	s.mu.Lock()
	s.created = append(s.created, spec)
	s.mu.Unlock()
	if s.onCreate != nil {
		s.onCreate(spec)
	}
	return "id-" + spec.Name, nil
}

func (s *runtimeStub) IsContainerRunning(_ context.Context, name string) (bool, error) {
	s.record("poll " + name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	return s.polls < s.pollsUntilExit, nil
}

func (s *runtimeStub) RemoveContainer(_ context.Context, name string) error {
	s.record("remove " + name)
	return s.removeErr
}

func (s *runtimeStub) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *runtimeStub) recordedCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.calls...)
}

// headStub stands in for the node's RPC server.
type headStub struct {
	mu     sync.Mutex
	header rpc.HeadHeader
	err    error
	calls  int
}

func newHeadStub(hash string) *headStub {
	return &headStub{
		header: rpc.HeadHeader{Hash: hash, Level: 1867543},
	}
}

func (s *headStub) GetHeadHeader(_ context.Context) (*rpc.HeadHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	header := s.header
	return &header, nil
}

func (s *headStub) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *headStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
