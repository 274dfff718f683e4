package api

import (
	"context"
	"errors"
	"net/http"

	glhook "gopkg.in/go-playground/webhooks.v5/gitlab"

	"reviewgate/internal/markdown"
	"reviewgate/internal/review"
)

// mergeRequestEvent holds the fields the decision and the merge call need.
// Built fresh per inbound hook, never persisted.
type mergeRequestEvent struct {
	ProjectID   int
	IID         int
	Description string
	URL         string
}

// handleWebhook validates the event, decides approval from the description's
// reviewer checklist, and hands an approved merge to the background runner.
// The response never waits for, or reflects, the merge outcome.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := s.hook.Parse(r, glhook.MergeRequestEvents)
	if err != nil {
		switch {
		case errors.Is(err, glhook.ErrGitLabTokenVerificationFailed):
			http.Error(w, "webhook token verification failed", http.StatusUnauthorized)
		case errors.Is(err, glhook.ErrParsingPayload):
			http.Error(w, "malformed payload", http.StatusBadRequest)
		default:
			http.Error(w, "only Merge Request Hook events are accepted", http.StatusBadRequest)
		}
		return
	}

	event, ok := payload.(glhook.MergeRequestEventPayload)
	if !ok {
		http.Error(w, "only Merge Request Hook events are accepted", http.StatusBadRequest)
		return
	}

	attrs := event.ObjectAttributes
	ev := mergeRequestEvent{
		ProjectID:   int(attrs.TargetProjectID),
		IID:         int(attrs.IID),
		Description: attrs.Description,
		URL:         attrs.URL,
	}

	doc := markdown.Lex([]byte(ev.Description))
	s.log.Debug("description lexed", "url", ev.URL, "blocks", len(doc))

	items := review.ChecklistItems(doc, s.rule)
	if !review.Approved(items) {
		s.log.Info("reviewer checklist incomplete",
			"url", ev.URL,
			"project_id", ev.ProjectID,
			"iid", ev.IID,
			"items", len(items),
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	s.log.Info("all reviewers signed off, accepting merge request",
		"url", ev.URL,
		"project_id", ev.ProjectID,
		"iid", ev.IID,
		"reviewers", len(items),
	)

	err = s.runner.Submit(func(ctx context.Context) {
		if err := s.trigger.Execute(ctx, ev.ProjectID, ev.IID); err != nil {
			s.log.Error("merge failed",
				"url", ev.URL,
				"project_id", ev.ProjectID,
				"iid", ev.IID,
				"error", err,
			)
			return
		}
		s.log.Info("merge request accepted",
			"url", ev.URL,
			"project_id", ev.ProjectID,
			"iid", ev.IID,
		)
	})
	if err != nil {
		// The hook was understood; the merge is best effort.
		s.log.Error("merge not dispatched", "url", ev.URL, "error", err)
	}

	w.WriteHeader(http.StatusOK)
}
