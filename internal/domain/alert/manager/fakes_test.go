// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/store"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeScheduler hands out tasks that only run when fired by the test.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	interval time.Duration
	fn       func(context.Context)

	mu        sync.Mutex
	cancelled bool
	once      sync.Once
	done      chan struct{}
}

func (s *fakeScheduler) Every(interval time.Duration, fn func(context.Context)) ports.Task {
	t := &fakeTask{interval: interval, fn: fn, done: make(chan struct{})}
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t
}

func (s *fakeScheduler) running() []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTask
	for _, t := range s.tasks {
		if !t.isCancelled() {
			out = append(out, t)
		}
	}
	return out
}

func (s *fakeScheduler) all() []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeTask(nil), s.tasks...)
}

func (t *fakeTask) Cancel() {
	t.once.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		t.mu.Unlock()
		close(t.done)
	})
}

func (t *fakeTask) Done() <-chan struct{} { return t.done }

func (t *fakeTask) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// fire runs one tick unless the task was cancelled.
func (t *fakeTask) fire() bool {
	if t.isCancelled() {
		return false
	}
	t.fn(context.Background())
	return true
}

type fakeSampler struct {
	mu    sync.Mutex
	pos   model.Position
	err   error
	calls int
}

func (s *fakeSampler) Sample(context.Context) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return model.Position{}, s.err
	}
	return s.pos, nil
}

func (s *fakeSampler) set(pos model.Position, err error) {
	s.mu.Lock()
	s.pos, s.err = pos, err
	s.mu.Unlock()
}

type update struct {
	SessionID string
	Position  *model.Position
	Status    model.RemoteStatus
}

type fakeRemote struct {
	mu        sync.Mutex
	profile   model.ContactProfile
	createID  string
	createErr error
	updateErr error
	creates   []model.Position
	updates   []update

	// createGate, when set, holds CreateSession until closed.
	createGate    chan struct{}
	createEntered chan struct{}
	// updateGate, when set, holds UpdateSession until closed.
	updateGate    chan struct{}
	updateEntered chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		createID: "s1",
		profile: model.ContactProfile{
			Contacts: []model.TrustedContact{{ID: "c1", Name: "Asha", Phone: "+910000000001"}},
			Message:  "Need help",
		},
	}
}

func (r *fakeRemote) FetchContactProfile(context.Context, string) model.ContactProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

func (r *fakeRemote) CreateSession(_ context.Context, _ string, pos model.Position) (string, error) {
	r.mu.Lock()
	gate, entered := r.createGate, r.createEntered
	r.mu.Unlock()
	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = append(r.creates, pos)
	if r.createErr != nil {
		return "", r.createErr
	}
	return r.createID, nil
}

func (r *fakeRemote) UpdateSession(_ context.Context, id string, pos *model.Position, status model.RemoteStatus) error {
	r.mu.Lock()
	gate, entered := r.updateGate, r.updateEntered
	r.mu.Unlock()
	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var p *model.Position
	if pos != nil {
		cp := *pos
		p = &cp
	}
	r.updates = append(r.updates, update{SessionID: id, Position: p, Status: status})
	return r.updateErr
}

func (r *fakeRemote) createCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.creates)
}

func (r *fakeRemote) updateList() []update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]update(nil), r.updates...)
}

type fakeIdentity struct {
	id  string
	err error
}

func (f fakeIdentity) UserID(context.Context) (string, error) { return f.id, f.err }

type notification struct {
	Contacts []model.TrustedContact
	Message  string
	Position model.Position
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *fakeNotifier) Notify(_ context.Context, contacts []model.TrustedContact, message string, pos model.Position) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{Contacts: contacts, Message: message, Position: pos})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// flakyStore wraps the memory store with injectable failures.
type flakyStore struct {
	*store.MemoryStore
	mu      sync.Mutex
	saveErr error
	loadErr error
	saves   int

	// holdSave, when non-zero, parks that save (1-based) on saveGate.
	holdSave    int
	saveGate    chan struct{}
	saveEntered chan struct{}
}

func (s *flakyStore) Save(ctx context.Context, rec model.PersistedRecord) error {
	s.mu.Lock()
	s.saves++
	err := s.saveErr
	var gate, entered chan struct{}
	if s.holdSave == s.saves {
		gate, entered = s.saveGate, s.saveEntered
	}
	s.mu.Unlock()
	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
	if err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, rec)
}

func (s *flakyStore) Load(ctx context.Context) (*model.PersistedRecord, error) {
	s.mu.Lock()
	err := s.loadErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.MemoryStore.Load(ctx)
}

func (s *flakyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

var errBackend = errors.New("backend down")

type harness struct {
	mgr       *Manager
	sampler   *fakeSampler
	remote    *fakeRemote
	store     *flakyStore
	notifier  *fakeNotifier
	scheduler *fakeScheduler
	identity  *fakeIdentity
	clock     fixedClock
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newHarness() *harness {
	h := &harness{
		sampler:   &fakeSampler{pos: model.Position{Latitude: 28.61, Longitude: 77.21, CapturedAt: testNow}},
		remote:    newFakeRemote(),
		store:     &flakyStore{MemoryStore: store.NewMemoryStore()},
		notifier:  &fakeNotifier{},
		scheduler: &fakeScheduler{},
		identity:  &fakeIdentity{id: "u1"},
		clock:     fixedClock{now: testNow},
	}
	return h
}

func (h *harness) build() *Manager {
	mgr, err := New(Deps{
		Sampler:   h.sampler,
		Remote:    h.remote,
		Store:     h.store,
		Identity:  h.identity,
		Notifier:  h.notifier,
		Scheduler: h.scheduler,
		Clock:     h.clock,
	}, Config{ReportInterval: time.Minute})
	if err != nil {
		panic(err)
	}
	h.mgr = mgr
	return mgr
}
