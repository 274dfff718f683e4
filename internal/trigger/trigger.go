// Package trigger issues the merge-request accept call against GitLab.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// MergeRequestsAPI is the slice of the GitLab client the trigger uses.
// *gitlab.MergeRequestsService satisfies it.
type MergeRequestsAPI interface {
	GetMergeRequest(pid interface{}, mergeRequest int, opt *gitlab.GetMergeRequestsOptions, options ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error)
	AcceptMergeRequest(pid interface{}, mergeRequest int, opt *gitlab.AcceptMergeRequestOptions, options ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error)
}

// Trigger accepts merge requests with a fixed option set: remove the source
// branch and merge once the pipeline succeeds. One attempt per call, no retry.
type Trigger struct {
	api     MergeRequestsAPI
	log     *slog.Logger
	timeout time.Duration
}

func New(api MergeRequestsAPI, log *slog.Logger, timeout time.Duration) *Trigger {
	return &Trigger{
		api:     api,
		log:     log,
		timeout: timeout,
	}
}

// Execute fetches the merge request for diagnostics (best effort) and then
// issues exactly one accept call. The accept error, if any, is returned
// wrapped; the fetch never blocks or fails the accept.
func (t *Trigger) Execute(ctx context.Context, projectID, iid int) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if mr, _, err := t.api.GetMergeRequest(projectID, iid, nil, gitlab.WithContext(ctx)); err != nil {
		t.log.Debug("merge request lookup failed",
			"project_id", projectID,
			"iid", iid,
			"error", err,
		)
	} else {
		t.log.Debug("merge request state",
			"project_id", projectID,
			"iid", iid,
			"title", mr.Title,
			"state", mr.State,
			"merge_status", mr.DetailedMergeStatus,
		)
	}

	_, _, err := t.api.AcceptMergeRequest(projectID, iid, &gitlab.AcceptMergeRequestOptions{
		ShouldRemoveSourceBranch:  gitlab.Ptr(true),
		MergeWhenPipelineSucceeds: gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("accept merge request %d in project %d: %w", iid, projectID, err)
	}
	return nil
}
