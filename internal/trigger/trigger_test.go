package trigger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

type acceptCall struct {
	projectID int
	iid       int
	opt       *gitlab.AcceptMergeRequestOptions
}

type fakeAPI struct {
	getErr    error
	acceptErr error

	gets    int
	accepts []acceptCall
}

func (f *fakeAPI) GetMergeRequest(pid interface{}, mergeRequest int, opt *gitlab.GetMergeRequestsOptions, options ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error) {
	f.gets++
	if f.getErr != nil {
		return nil, nil, f.getErr
	}
	return &gitlab.MergeRequest{}, nil, nil
}

func (f *fakeAPI) AcceptMergeRequest(pid interface{}, mergeRequest int, opt *gitlab.AcceptMergeRequestOptions, options ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error) {
	f.accepts = append(f.accepts, acceptCall{projectID: pid.(int), iid: mergeRequest, opt: opt})
	if f.acceptErr != nil {
		return nil, nil, f.acceptErr
	}
	return &gitlab.MergeRequest{}, nil, nil
}

func newTestTrigger(api MergeRequestsAPI) *Trigger {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(api, log, 5*time.Second)
}

func TestExecute_AcceptsWithFixedOptions(t *testing.T) {
	api := &fakeAPI{}
	trig := newTestTrigger(api)

	if err := trig.Execute(context.Background(), 42, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(api.accepts) != 1 {
		t.Fatalf("expected exactly one accept call, got %d", len(api.accepts))
	}
	call := api.accepts[0]
	if call.projectID != 42 || call.iid != 7 {
		t.Errorf("expected accept for project 42 iid 7, got %d/%d", call.projectID, call.iid)
	}
	if call.opt == nil {
		t.Fatal("expected accept options to be set")
	}
	if call.opt.ShouldRemoveSourceBranch == nil || !*call.opt.ShouldRemoveSourceBranch {
		t.Error("expected ShouldRemoveSourceBranch to be true")
	}
	if call.opt.MergeWhenPipelineSucceeds == nil || !*call.opt.MergeWhenPipelineSucceeds {
		t.Error("expected MergeWhenPipelineSucceeds to be true")
	}
}

func TestExecute_LookupFailureDoesNotBlockAccept(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("boom")}
	trig := newTestTrigger(api)

	if err := trig.Execute(context.Background(), 42, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.gets != 1 {
		t.Errorf("expected one diagnostic fetch, got %d", api.gets)
	}
	if len(api.accepts) != 1 {
		t.Errorf("expected accept despite lookup failure, got %d calls", len(api.accepts))
	}
}

func TestExecute_AcceptFailureIsReturned(t *testing.T) {
	apiErr := errors.New("405 Method Not Allowed")
	api := &fakeAPI{acceptErr: apiErr}
	trig := newTestTrigger(api)

	err := trig.Execute(context.Background(), 42, 7)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, apiErr) {
		t.Errorf("expected wrapped API error, got %v", err)
	}
	if len(api.accepts) != 1 {
		t.Errorf("expected a single attempt with no retry, got %d calls", len(api.accepts))
	}
}
