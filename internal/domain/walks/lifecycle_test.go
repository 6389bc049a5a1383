package walks

import (
	"errors"
	"testing"
)

func app(id, walker string, st ApplicationStatus) WalkApplication {
	return WalkApplication{ID: id, RequestID: "r1", WalkerID: walker, Status: st}
}

func TestDeriveRequestStatus(t *testing.T) {
	cases := []struct {
		name string
		apps []WalkApplication
		want RequestStatus
	}{
		{"no applications", nil, RequestOpen},
		{"only pending", []WalkApplication{app("a", "w1", ApplicationPending)}, RequestOpen},
		{"accepted", []WalkApplication{app("a", "w1", ApplicationAccepted), app("b", "w2", ApplicationRejected)}, RequestAccepted},
		{"completed", []WalkApplication{app("a", "w1", ApplicationRejected), app("b", "w2", ApplicationCompleted)}, RequestCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveRequestStatus(tc.apps); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCheckConsistency_TwoHoldersIsInvalid(t *testing.T) {
	req := WalkRequest{ID: "r1", Status: RequestAccepted}
	apps := []WalkApplication{app("a", "w1", ApplicationAccepted), app("b", "w2", ApplicationAccepted)}

	if err := CheckConsistency(req, apps); !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState, got %v", err)
	}
}

func TestPlanAccept(t *testing.T) {
	req := WalkRequest{ID: "r1", Status: RequestOpen}
	apps := []WalkApplication{
		app("a", "w1", ApplicationPending),
		app("b", "w2", ApplicationPending),
		app("c", "w3", ApplicationRejected),
	}

	plan, err := planAccept(req, apps, "b")
	if err != nil {
		t.Fatalf("planAccept error: %v", err)
	}
	if plan.accepted.ID != "b" {
		t.Fatalf("expected b accepted, got %s", plan.accepted.ID)
	}
	if len(plan.rejected) != 1 || plan.rejected[0].ID != "a" {
		t.Fatalf("expected only a to be newly rejected, got %+v", plan.rejected)
	}
}

func TestPlanAccept_StateErrors(t *testing.T) {
	open := WalkRequest{ID: "r1", Status: RequestOpen}

	cases := []struct {
		name string
		req  WalkRequest
		apps []WalkApplication
		id   string
	}{
		{"request not open", WalkRequest{ID: "r1", Status: RequestAccepted}, []WalkApplication{app("a", "w1", ApplicationPending)}, "a"},
		{"foreign application", open, []WalkApplication{app("a", "w1", ApplicationPending)}, "zzz"},
		{"application not pending", open, []WalkApplication{app("a", "w1", ApplicationRejected)}, "a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := planAccept(tc.req, tc.apps, tc.id); !errors.Is(err, ErrState) {
				t.Fatalf("expected ErrState, got %v", err)
			}
		})
	}
}

func TestPlanComplete(t *testing.T) {
	accepted := WalkRequest{ID: "r1", Status: RequestAccepted}
	apps := []WalkApplication{app("a", "w1", ApplicationRejected), app("b", "w2", ApplicationAccepted)}

	got, err := planComplete(accepted, apps, "w2")
	if err != nil || got.ID != "b" {
		t.Fatalf("expected b, got %+v err=%v", got, err)
	}

	if _, err := planComplete(accepted, apps, "w1"); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth for non-accepted walker, got %v", err)
	}

	open := WalkRequest{ID: "r1", Status: RequestOpen}
	if _, err := planComplete(open, nil, "w2"); !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState on open request, got %v", err)
	}
}

func TestAvailableRequest_Bucket(t *testing.T) {
	cases := []struct {
		walk RequestStatus
		app  ApplicationStatus
		want Bucket
	}{
		{RequestOpen, "", BucketPending},
		{RequestOpen, ApplicationPending, BucketPending},
		{RequestAccepted, ApplicationAccepted, BucketAccepted},
		{RequestAccepted, ApplicationRejected, BucketRejected},
		{RequestCompleted, ApplicationCompleted, BucketCompleted},
		{RequestCompleted, "", BucketCompleted},
		{RequestAccepted, "", BucketNone},
	}
	for _, tc := range cases {
		got := AvailableRequest{WalkStatus: tc.walk, ApplicationStatus: tc.app}.Bucket()
		if got != tc.want {
			t.Fatalf("walk=%s app=%q: expected %s, got %s", tc.walk, tc.app, tc.want, got)
		}
	}
}
