package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"sporthive/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory Store. RunInTx holds the store lock for the whole
// callback and restores a snapshot when the callback fails, so it behaves
// like a serialized transaction.
type fakeStore struct {
	mu            sync.Mutex
	activities    map[int64]*domain.Activity
	registrations map[[2]int64]*domain.Registration
	users         map[int64]*domain.Participant
	nextActID     int64
	nextRegID     int64
	finishErr     error // if set, FinishExpired returns this error
	finishHang    bool  // if set, FinishExpired blocks until ctx is done
	txErr         error // if set, RunInTx returns this error before running fn
	finishCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities:    make(map[int64]*domain.Activity),
		registrations: make(map[[2]int64]*domain.Registration),
		users:         make(map[int64]*domain.Participant),
		nextActID:     1,
		nextRegID:     1,
	}
}

func (s *fakeStore) Activities() *fakeActivityRepo { return &fakeActivityRepo{s: s} }

func (s *fakeStore) Registrations() *fakeRegistrationRepo { return &fakeRegistrationRepo{s: s} }

// seed stores a copy of a and returns its assigned ID.
func (s *fakeStore) seed(a domain.Activity) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextActID
	s.nextActID++
	s.activities[a.ID] = &a
	return a.ID
}

func (s *fakeStore) activity(id int64) domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.activities[id]
}

func (s *fakeStore) registrationCount(activityID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.registrations {
		if key[1] == activityID {
			n++
		}
	}
	return n
}

func (s *fakeStore) RunInTx(ctx context.Context, fn func(ctx context.Context, repos domain.TxRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txErr != nil {
		return s.txErr
	}

	activities := make(map[int64]domain.Activity, len(s.activities))
	for id, a := range s.activities {
		activities[id] = *a
	}
	registrations := make(map[[2]int64]*domain.Registration, len(s.registrations))
	for k, r := range s.registrations {
		registrations[k] = r
	}

	err := fn(ctx, domain.TxRepositories{
		Activities:    &fakeActivityRepo{s: s, inTx: true},
		Registrations: &fakeRegistrationRepo{s: s, inTx: true},
	})
	if err != nil {
		s.activities = make(map[int64]*domain.Activity, len(activities))
		for id, a := range activities {
			s.activities[id] = &a
		}
		s.registrations = registrations
	}
	return err
}

type fakeActivityRepo struct {
	s    *fakeStore
	inTx bool
}

func (r *fakeActivityRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *fakeActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	defer r.lock()()
	a.ID = r.s.nextActID
	r.s.nextActID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	r.s.activities[a.ID] = &stored
	return nil
}

func (r *fakeActivityRepo) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	defer r.lock()()
	a, ok := r.s.activities[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	out := *a
	return &out, nil
}

func (r *fakeActivityRepo) filter(keep func(*domain.Activity) bool) []*domain.Activity {
	out := make([]*domain.Activity, 0)
	for _, a := range r.s.activities {
		if keep(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (r *fakeActivityRepo) List(ctx context.Context) ([]*domain.Activity, error) {
	defer r.lock()()
	return r.filter(func(*domain.Activity) bool { return true }), nil
}

func (r *fakeActivityRepo) ListByOrganizerID(ctx context.Context, organizerID int64) ([]*domain.Activity, error) {
	defer r.lock()()
	return r.filter(func(a *domain.Activity) bool { return a.OrganizerID == organizerID }), nil
}

func (r *fakeActivityRepo) Search(ctx context.Context, q domain.ActivityQuery) ([]*domain.Activity, error) {
	defer r.lock()()
	contains := func(field, sub string) bool {
		return strings.Contains(strings.ToLower(field), strings.ToLower(sub))
	}
	return r.filter(func(a *domain.Activity) bool {
		if q.SearchText != "" {
			if !contains(a.Name, q.SearchText) && !contains(a.Description, q.SearchText) {
				return false
			}
		} else {
			if q.Name != "" && !contains(a.Name, q.Name) {
				return false
			}
			if q.Description != "" && !contains(a.Description, q.Description) {
				return false
			}
		}
		return q.Type == "" || a.Type == q.Type
	}), nil
}

func (r *fakeActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	defer r.lock()()
	stored, ok := r.s.activities[a.ID]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if a.Capacity < stored.Participants {
		return domain.ErrCapacityBelowCurrent
	}
	participants := stored.Participants
	*stored = *a
	stored.Participants = participants
	stored.UpdatedAt = time.Now()
	a.Participants = participants
	return nil
}

func (r *fakeActivityRepo) Approve(ctx context.Context, id int64) (*domain.Activity, error) {
	defer r.lock()()
	a, ok := r.s.activities[id]
	if !ok || a.Condition != domain.ConditionPending {
		return nil, domain.ErrNotPending
	}
	a.Condition = domain.ConditionRecruiting
	out := *a
	return &out, nil
}

func (r *fakeActivityRepo) Delete(ctx context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.s.activities[id]; !ok {
		return domain.ErrActivityNotFound
	}
	delete(r.s.activities, id)
	for key := range r.s.registrations {
		if key[1] == id {
			delete(r.s.registrations, key)
		}
	}
	return nil
}

func (r *fakeActivityRepo) IncrementParticipants(ctx context.Context, id int64) error {
	defer r.lock()()
	a, ok := r.s.activities[id]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if a.Condition != domain.ConditionRecruiting {
		return domain.ErrNotRecruiting
	}
	if a.Participants >= a.Capacity {
		return domain.ErrActivityFull
	}
	a.Participants++
	return nil
}

func (r *fakeActivityRepo) DecrementParticipants(ctx context.Context, id int64) error {
	defer r.lock()()
	if a, ok := r.s.activities[id]; ok && a.Participants > 0 {
		a.Participants--
	}
	return nil
}

func (r *fakeActivityRepo) FinishExpired(ctx context.Context, now time.Time) (int64, error) {
	if r.s.finishHang {
		r.s.mu.Lock()
		r.s.finishCalls++
		r.s.mu.Unlock()
		<-ctx.Done()
		return 0, ctx.Err()
	}
	defer r.lock()()
	r.s.finishCalls++
	if r.s.finishErr != nil {
		return 0, r.s.finishErr
	}
	var n int64
	for _, a := range r.s.activities {
		if a.StartTime.Before(now) && a.Condition != domain.ConditionFinished {
			a.Condition = domain.ConditionFinished
			n++
		}
	}
	return n, nil
}

type fakeRegistrationRepo struct {
	s    *fakeStore
	inTx bool
}

func (r *fakeRegistrationRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	defer r.lock()()
	key := [2]int64{reg.UserID, reg.ActivityID}
	if _, ok := r.s.registrations[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	if _, ok := r.s.activities[reg.ActivityID]; !ok {
		return domain.ErrActivityNotFound
	}
	reg.ID = r.s.nextRegID
	r.s.nextRegID++
	stored := *reg
	r.s.registrations[key] = &stored
	return nil
}

func (r *fakeRegistrationRepo) Delete(ctx context.Context, userID, activityID int64) error {
	defer r.lock()()
	key := [2]int64{userID, activityID}
	if _, ok := r.s.registrations[key]; !ok {
		return domain.ErrNotRegistered
	}
	delete(r.s.registrations, key)
	return nil
}

func (r *fakeRegistrationRepo) GetByUserAndActivity(ctx context.Context, userID, activityID int64) (*domain.Registration, error) {
	defer r.lock()()
	reg, ok := r.s.registrations[[2]int64{userID, activityID}]
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	out := *reg
	return &out, nil
}

func (r *fakeRegistrationRepo) ListActivitiesByUserID(ctx context.Context, userID int64) ([]*domain.RegisteredActivity, error) {
	defer r.lock()()
	out := make([]*domain.RegisteredActivity, 0)
	for key, reg := range r.s.registrations {
		if key[0] != userID {
			continue
		}
		if a, ok := r.s.activities[key[1]]; ok {
			out = append(out, &domain.RegisteredActivity{Activity: *a, RegistrationTime: reg.RegistrationTime})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationTime.After(out[j].RegistrationTime) })
	return out, nil
}

func (r *fakeRegistrationRepo) ListParticipantsByActivityID(ctx context.Context, activityID int64) ([]*domain.Participant, error) {
	defer r.lock()()
	out := make([]*domain.Participant, 0)
	for key := range r.s.registrations {
		if key[1] != activityID {
			continue
		}
		if u, ok := r.s.users[key[0]]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeEmailService records the confirmations it was asked to send.
type fakeEmailService struct {
	mu         sync.Mutex
	registered []*domain.RegistrationEmailData
	withdrawn  []*domain.WithdrawalEmailData
	err        error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, data)
	return f.err
}

func (f *fakeEmailService) SendWithdrawalConfirmation(ctx context.Context, data *domain.WithdrawalEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawn = append(f.withdrawn, data)
	return f.err
}

// fakeMailer captures the last message sent.
type fakeMailer struct {
	to, subject, html, text string
	calls                   int
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.calls++
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

// fakeRenderer returns fixed content and remembers the template name.
type fakeRenderer struct {
	lastTemplate string
	lastData     any
	err          error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	f.lastTemplate = templateName
	f.lastData = data
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject:" + templateName, "<p>" + templateName + "</p>", templateName, nil
}
