package walks_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dog-walk-service/internal/adapters/capabilities/rolematrix"
	"dog-walk-service/internal/adapters/storage/memory"
	"dog-walk-service/internal/domain/dogs"
	"dog-walk-service/internal/domain/walks"
	"dog-walk-service/internal/ports/auth"
)

// -------------------------
// Fixture
// -------------------------

type fixture struct {
	ctx   context.Context
	repo  walks.Repository
	dogs  *dogs.Service
	svc   *walks.Service
	owner walks.Caller
}

func newFixture(t *testing.T, opts ...walks.Option) *fixture {
	t.Helper()
	return newFixtureWithRepo(t, nil, opts...)
}

// newFixtureWithRepo permite envolver el repo de walks (fallas inyectadas).
func newFixtureWithRepo(t *testing.T, wrap func(walks.Repository) walks.Repository, opts ...walks.Option) *fixture {
	t.Helper()

	store := memory.NewStore()
	caps := rolematrix.NewResolver(nil)
	dogsSvc := dogs.NewService(memory.NewDogsRepo(store), caps)

	var repo walks.Repository = memory.NewWalksRepo(store)
	if wrap != nil {
		repo = wrap(repo)
	}

	var tick atomic.Int64
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		return base.Add(time.Duration(tick.Add(1)) * time.Second)
	}

	return &fixture{
		ctx:   context.Background(),
		repo:  repo,
		dogs:  dogsSvc,
		svc:   walks.NewService(repo, dogsSvc, caps, append([]walks.Option{walks.WithClock(clock)}, opts...)...),
		owner: walks.Caller{UserID: "owner-1", Role: auth.RoleOwner},
	}
}

func walker(id string) walks.Caller {
	return walks.Caller{UserID: id, Role: auth.RoleWalker}
}

func (f *fixture) newDog(t *testing.T, owner walks.Caller) string {
	t.Helper()
	d, err := f.dogs.Create(f.ctx, auth.Claims{UserID: owner.UserID, Role: owner.Role}, dogs.CreateInput{Name: "Rex", Size: "medium"})
	if err != nil {
		t.Fatalf("create dog: %v", err)
	}
	return d.ID
}

func (f *fixture) newRequest(t *testing.T) walks.WalkRequest {
	t.Helper()
	req, err := f.svc.CreateRequest(f.ctx, f.owner, walks.CreateRequestInput{
		DogID:           f.newDog(t, f.owner),
		RequestedAt:     time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
		DurationMinutes: 45,
		Location:        "Parklands",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func (f *fixture) apply(t *testing.T, requestID, walkerID string) walks.WalkApplication {
	t.Helper()
	a, err := f.svc.Apply(f.ctx, walker(walkerID), requestID)
	if err != nil {
		t.Fatalf("apply %s: %v", walkerID, err)
	}
	return a
}

func (f *fixture) state(t *testing.T, requestID string) (walks.WalkRequest, map[string]walks.ApplicationStatus) {
	t.Helper()
	req, err := f.repo.GetRequest(f.ctx, requestID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	apps, err := f.repo.ListApplications(f.ctx, requestID)
	if err != nil {
		t.Fatalf("list applications: %v", err)
	}
	if err := walks.CheckConsistency(req, apps); err != nil {
		t.Fatalf("inconsistent state: %v", err)
	}
	byWalker := map[string]walks.ApplicationStatus{}
	for _, a := range apps {
		byWalker[a.WalkerID] = a.Status
	}
	return req, byWalker
}

// -------------------------
// Lifecycle
// -------------------------

func TestService_FullLifecycle(t *testing.T) {
	f := newFixture(t)

	r1 := f.newRequest(t)
	if r1.Status != walks.RequestOpen {
		t.Fatalf("expected open, got %s", r1.Status)
	}

	app := f.apply(t, r1.ID, "w1")
	if app.Status != walks.ApplicationPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}

	res, err := f.svc.AcceptApplication(f.ctx, f.owner, app.ID, r1.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if res.Request.Status != walks.RequestAccepted || res.Accepted.Status != walks.ApplicationAccepted {
		t.Fatalf("unexpected accept result: %+v", res)
	}
	req, apps := f.state(t, r1.ID)
	if req.Status != walks.RequestAccepted || apps["w1"] != walks.ApplicationAccepted {
		t.Fatalf("after accept: request=%s app=%s", req.Status, apps["w1"])
	}

	if _, err := f.svc.CompleteWalk(f.ctx, walker("w1"), r1.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	req, apps = f.state(t, r1.ID)
	if req.Status != walks.RequestCompleted || apps["w1"] != walks.ApplicationCompleted {
		t.Fatalf("after complete: request=%s app=%s", req.Status, apps["w1"])
	}

	rating, err := f.svc.RateWalker(f.ctx, f.owner, walks.RateInput{RequestID: r1.ID, WalkerID: "w1", Rating: 5, Comments: "great"})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rating.WalkerID != "w1" || rating.OwnerID != f.owner.UserID || rating.Rating != 5 {
		t.Fatalf("unexpected rating: %+v", rating)
	}

	_, err = f.svc.RateWalker(f.ctx, f.owner, walks.RateInput{RequestID: r1.ID, WalkerID: "w1", Rating: 4})
	if !errors.Is(err, walks.ErrConflict) {
		t.Fatalf("expected ErrConflict on second rating, got %v", err)
	}

	events, err := f.svc.Timeline(f.ctx, f.owner, r1.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	want := []walks.EventType{
		walks.EventRequestCreated,
		walks.EventApplicationSubmitted,
		walks.EventApplicationAccepted,
		walks.EventWalkCompleted,
		walks.EventWalkerRated,
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], e.Type)
		}
	}
}

func TestService_Accept_RejectsAllSiblings(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)

	a1 := f.apply(t, r1.ID, "w1")
	f.apply(t, r1.ID, "w2")
	f.apply(t, r1.ID, "w3")

	res, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(res.Rejected) != 2 {
		t.Fatalf("expected 2 rejected in result, got %d", len(res.Rejected))
	}

	_, apps := f.state(t, r1.ID)
	accepted, rejected := 0, 0
	for _, st := range apps {
		switch st {
		case walks.ApplicationAccepted:
			accepted++
		case walks.ApplicationRejected:
			rejected++
		}
	}
	if accepted != 1 || rejected != 2 {
		t.Fatalf("expected 1 accepted and 2 rejected, got %d/%d (%v)", accepted, rejected, apps)
	}
	if apps["w2"] != walks.ApplicationRejected {
		t.Fatalf("expected w2 rejected automatically, got %s", apps["w2"])
	}
}

func TestService_Apply_TwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)

	f.apply(t, r1.ID, "w1")
	if _, err := f.svc.Apply(f.ctx, walker("w1"), r1.ID); !errors.Is(err, walks.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	apps, err := f.repo.ListApplications(f.ctx, r1.ID)
	if err != nil {
		t.Fatalf("list applications: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected a single application row, got %d", len(apps))
	}
}

func TestService_Apply_StateAndLookupErrors(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)

	a1 := f.apply(t, r1.ID, "w1")
	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := f.svc.Apply(f.ctx, walker("w2"), r1.ID); !errors.Is(err, walks.ErrState) {
		t.Fatalf("expected ErrState applying to accepted walk, got %v", err)
	}
	if _, err := f.svc.Apply(f.ctx, walker("w2"), "missing"); !errors.Is(err, walks.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Apply(f.ctx, walks.Caller{}, r1.ID); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for anonymous caller, got %v", err)
	}
	if _, err := f.svc.Apply(f.ctx, f.owner, r1.ID); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for owner role, got %v", err)
	}
}

func TestService_Complete_OnOpenIsStateError(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	f.apply(t, r1.ID, "w1")

	if _, err := f.svc.CompleteWalk(f.ctx, walker("w1"), r1.ID); !errors.Is(err, walks.ErrState) {
		t.Fatalf("expected ErrState, got %v", err)
	}
	req, _ := f.state(t, r1.ID)
	if req.Status != walks.RequestOpen {
		t.Fatalf("request should stay open, got %s", req.Status)
	}
}

func TestService_Complete_OnlyAcceptedWalker(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	a1 := f.apply(t, r1.ID, "w1")
	f.apply(t, r1.ID, "w2")

	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.CompleteWalk(f.ctx, walker("w2"), r1.ID); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for rejected walker, got %v", err)
	}
}

func TestService_Accept_Authorization(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	a1 := f.apply(t, r1.ID, "w1")

	intruder := walks.Caller{UserID: "owner-2", Role: auth.RoleOwner}
	if _, err := f.svc.AcceptApplication(f.ctx, intruder, a1.ID, r1.ID); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for another owner, got %v", err)
	}
	if _, err := f.svc.AcceptApplication(f.ctx, walker("w1"), a1.ID, r1.ID); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for walker role, got %v", err)
	}

	other := f.newRequest(t)
	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, other.ID); !errors.Is(err, walks.ErrState) {
		t.Fatalf("expected ErrState for application of another request, got %v", err)
	}
}

func TestService_Accept_SecondAcceptIsStateError(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	a1 := f.apply(t, r1.ID, "w1")
	a2 := f.apply(t, r1.ID, "w2")

	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a2.ID, r1.ID); !errors.Is(err, walks.ErrState) {
		t.Fatalf("expected ErrState, got %v", err)
	}
	_, apps := f.state(t, r1.ID)
	if apps["w1"] != walks.ApplicationAccepted || apps["w2"] != walks.ApplicationRejected {
		t.Fatalf("unexpected statuses: %v", apps)
	}
}

func TestService_Accept_ConcurrentOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)

	const n = 8
	ids := make([]string, n)
	for i := range n {
		ids[i] = f.apply(t, r1.ID, fmt.Sprintf("w%d", i)).ID
	}

	var (
		wg       sync.WaitGroup
		wins     atomic.Int32
		stateErr atomic.Int32
	)
	start := make(chan struct{})
	for _, id := range ids {
		wg.Add(1)
		go func(appID string) {
			defer wg.Done()
			<-start
			_, err := f.svc.AcceptApplication(f.ctx, f.owner, appID, r1.ID)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, walks.ErrState):
				stateErr.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	close(start)
	wg.Wait()

	if wins.Load() != 1 || stateErr.Load() != n-1 {
		t.Fatalf("expected exactly one winner, got wins=%d stateErrors=%d", wins.Load(), stateErr.Load())
	}
	f.state(t, r1.ID)
}

// -------------------------
// Atomicity
// -------------------------

var errInjected = errors.New("injected failure")

type failingRepo struct {
	walks.Repository
	failOn string
}

func (r failingRepo) WithinTx(ctx context.Context, fn func(tx walks.Tx) error) error {
	return r.Repository.WithinTx(ctx, func(tx walks.Tx) error {
		return fn(failingTx{Tx: tx, failOn: r.failOn})
	})
}

type failingTx struct {
	walks.Tx
	failOn string
}

func (t failingTx) RejectOtherApplications(ctx context.Context, requestID, acceptedID string, at time.Time) error {
	if err := t.Tx.RejectOtherApplications(ctx, requestID, acceptedID, at); err != nil {
		return err
	}
	if t.failOn == "reject" {
		return errInjected
	}
	return nil
}

func (t failingTx) UpdateRequestStatus(ctx context.Context, id string, st walks.RequestStatus, at time.Time) error {
	if t.failOn == "request" {
		return errInjected
	}
	return t.Tx.UpdateRequestStatus(ctx, id, st, at)
}

func (t failingTx) AppendEvent(ctx context.Context, e walks.WalkEvent) error {
	if t.failOn == "event" && e.Type == walks.EventApplicationRejected {
		return errInjected
	}
	return t.Tx.AppendEvent(ctx, e)
}

func TestService_Accept_FailureRollsBackEveryWrite(t *testing.T) {
	for _, failOn := range []string{"reject", "request", "event"} {
		t.Run(failOn, func(t *testing.T) {
			var fr *failingRepo
			f := newFixtureWithRepo(t, func(r walks.Repository) walks.Repository {
				fr = &failingRepo{Repository: r}
				return fr
			})
			r1 := f.newRequest(t)
			a1 := f.apply(t, r1.ID, "w1")
			f.apply(t, r1.ID, "w2")

			before, err := f.repo.ListEvents(f.ctx, r1.ID)
			if err != nil {
				t.Fatalf("list events: %v", err)
			}

			fr.failOn = failOn
			_, err = f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID)
			if !errors.Is(err, walks.ErrStorage) || !errors.Is(err, errInjected) {
				t.Fatalf("expected ErrStorage wrapping injected failure, got %v", err)
			}

			req, apps := f.state(t, r1.ID)
			if req.Status != walks.RequestOpen {
				t.Fatalf("request should still be open, got %s", req.Status)
			}
			if apps["w1"] != walks.ApplicationPending || apps["w2"] != walks.ApplicationPending {
				t.Fatalf("applications should still be pending, got %v", apps)
			}
			after, _ := f.repo.ListEvents(f.ctx, r1.ID)
			if len(after) != len(before) {
				t.Fatalf("timeline should be unchanged, before=%d after=%d", len(before), len(after))
			}

			fr.failOn = ""
			if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID); err != nil {
				t.Fatalf("retry after rollback should succeed: %v", err)
			}
		})
	}
}

// -------------------------
// Validation
// -------------------------

func TestService_CreateRequest_Validation(t *testing.T) {
	f := newFixture(t)
	dogID := f.newDog(t, f.owner)
	when := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	cases := map[string]walks.CreateRequestInput{
		"missing dog":      {RequestedAt: when, DurationMinutes: 30, Location: "Park"},
		"missing time":     {DogID: dogID, DurationMinutes: 30, Location: "Park"},
		"zero duration":    {DogID: dogID, RequestedAt: when, Location: "Park"},
		"missing location": {DogID: dogID, RequestedAt: when, DurationMinutes: 30},
		"unknown dog":      {DogID: "nope", RequestedAt: when, DurationMinutes: 30, Location: "Park"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.svc.CreateRequest(f.ctx, f.owner, in); !errors.Is(err, walks.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	other := walks.Caller{UserID: "owner-2", Role: auth.RoleOwner}
	_, err := f.svc.CreateRequest(f.ctx, other, walks.CreateRequestInput{DogID: dogID, RequestedAt: when, DurationMinutes: 30, Location: "Park"})
	if !errors.Is(err, walks.ErrValidation) {
		t.Fatalf("expected ErrValidation for someone else's dog, got %v", err)
	}

	_, err = f.svc.CreateRequest(f.ctx, walker("w1"), walks.CreateRequestInput{DogID: dogID, RequestedAt: when, DurationMinutes: 30, Location: "Park"})
	if !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for walker, got %v", err)
	}
}

func TestService_RateWalker_Rules(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	a1 := f.apply(t, r1.ID, "w1")

	if _, err := f.svc.RateWalker(f.ctx, f.owner, walks.RateInput{RequestID: r1.ID, Rating: 5}); !errors.Is(err, walks.ErrState) {
		t.Fatalf("expected ErrState rating an open walk, got %v", err)
	}

	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.CompleteWalk(f.ctx, walker("w1"), r1.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	for _, rating := range []int{0, 6} {
		if _, err := f.svc.RateWalker(f.ctx, f.owner, walks.RateInput{RequestID: r1.ID, Rating: rating}); !errors.Is(err, walks.ErrValidation) {
			t.Fatalf("expected ErrValidation for rating %d, got %v", rating, err)
		}
	}
	if _, err := f.svc.RateWalker(f.ctx, f.owner, walks.RateInput{RequestID: r1.ID, WalkerID: "w9", Rating: 3}); !errors.Is(err, walks.ErrValidation) {
		t.Fatalf("expected ErrValidation for wrong walker, got %v", err)
	}
	intruder := walks.Caller{UserID: "owner-2", Role: auth.RoleOwner}
	if _, err := f.svc.RateWalker(f.ctx, intruder, walks.RateInput{RequestID: r1.ID, Rating: 3}); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for another owner, got %v", err)
	}

	rt, err := f.svc.RateWalker(f.ctx, f.owner, walks.RateInput{RequestID: r1.ID, Rating: 4})
	if err != nil {
		t.Fatalf("rate without walker id: %v", err)
	}
	if rt.WalkerID != "w1" {
		t.Fatalf("expected walker derived from completed application, got %q", rt.WalkerID)
	}
}

// -------------------------
// Read side
// -------------------------

func TestService_ListAvailable_AnnotatesOwnApplication(t *testing.T) {
	f := newFixture(t)

	open := f.newRequest(t)
	mine := f.newRequest(t)
	lost := f.newRequest(t)

	f.apply(t, mine.ID, "w1")
	a2 := f.apply(t, lost.ID, "w2")
	f.apply(t, lost.ID, "w1")
	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a2.ID, lost.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got := map[string]walks.Bucket{}
	for item, err := range f.svc.ListAvailable(f.ctx, walker("w1")) {
		if err != nil {
			t.Fatalf("list available: %v", err)
		}
		if item.DogName != "Rex" {
			t.Fatalf("expected dog name, got %q", item.DogName)
		}
		got[item.RequestID] = item.Bucket()
	}

	want := map[string]walks.Bucket{
		open.ID: walks.BucketPending,
		mine.ID: walks.BucketPending,
		lost.ID: walks.BucketRejected,
	}
	for id, b := range want {
		if got[id] != b {
			t.Fatalf("request %s: expected bucket %s, got %s", id, b, got[id])
		}
	}
}

func TestService_ListAvailable_StopsEarlyAndReportsAuth(t *testing.T) {
	f := newFixture(t)
	f.newRequest(t)
	f.newRequest(t)

	seen := 0
	for _, err := range f.svc.ListAvailable(f.ctx, walker("w1")) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("expected to stop after first item, saw %d", seen)
	}

	for _, err := range f.svc.ListAvailable(f.ctx, f.owner) {
		if !errors.Is(err, walks.ErrAuth) {
			t.Fatalf("expected ErrAuth for owner, got %v", err)
		}
	}
}

func TestService_Summary(t *testing.T) {
	f := newFixture(t, walks.WithRatePerWalk(450))

	for range 2 {
		r := f.newRequest(t)
		a := f.apply(t, r.ID, "w1")
		if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a.ID, r.ID); err != nil {
			t.Fatalf("accept: %v", err)
		}
		if _, err := f.svc.CompleteWalk(f.ctx, walker("w1"), r.ID); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}
	f.apply(t, f.newRequest(t).ID, "w1")

	sum, err := f.svc.Summary(f.ctx, walker("w1"))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Completed != 2 || sum.Pending != 1 || sum.TotalEarnings != 900 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestService_ListMine_IncludesApplicantsAndCompletedWalker(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	a1 := f.apply(t, r1.ID, "w1")
	f.apply(t, r1.ID, "w2")

	if _, err := f.svc.AcceptApplication(f.ctx, f.owner, a1.ID, r1.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.CompleteWalk(f.ctx, walker("w1"), r1.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	views, err := f.svc.ListMine(f.ctx, f.owner)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 request, got %d", len(views))
	}
	v := views[0]
	if len(v.Applicants) != 2 || v.CompletedWalkerID != "w1" || v.DogName != "Rex" || v.Rated {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestService_Timeline_Access(t *testing.T) {
	f := newFixture(t)
	r1 := f.newRequest(t)
	f.apply(t, r1.ID, "w1")

	if _, err := f.svc.Timeline(f.ctx, walker("w1"), r1.ID); err != nil {
		t.Fatalf("applicant should see timeline: %v", err)
	}
	if _, err := f.svc.Timeline(f.ctx, walker("w2"), r1.ID); !errors.Is(err, walks.ErrAuth) {
		t.Fatalf("expected ErrAuth for stranger, got %v", err)
	}
	if _, err := f.svc.Timeline(f.ctx, f.owner, "missing"); !errors.Is(err, walks.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type recorder struct {
	mu  sync.Mutex
	got []string
}

func (r *recorder) RecordTransition(tr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, tr)
}

func TestService_RecordsCommittedTransitionsOnly(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, walks.WithTransitionRecorder(rec))

	r1 := f.newRequest(t)
	f.apply(t, r1.ID, "w1")
	_, _ = f.svc.Apply(f.ctx, walker("w1"), r1.ID) // duplicado, no cuenta

	want := []string{"created", "applied"}
	if fmt.Sprint(rec.got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, rec.got)
	}
}
