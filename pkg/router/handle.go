package router

import (
	"context"
	"time"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
)

// HandleRequest runs one inbound request through rt.
//
// The adapter extracts the request, which becomes the initial payload and,
// through its route parameters and session, the atoms. The lane runs, the
// router's finalizer or error formatter shapes the body and the adapter sends
// the response. The status is the one mapped from the error code, else the
// canonical status recorded during the run, else 200. The terminated
// execution is handed to the trackers. The returned error is the adapter's
// failure to send, if any.
func HandleRequest[Raw any](ctx context.Context, rt *Route, raw Raw, adapter ports.RouteRequestAdapter[Raw]) error {
	info := rt.Info()
	root := rt.router.root

	var failure *domain.HodrError
	req, err := adapter.ExtractRequest(raw, info)
	if err != nil {
		failure = domain.FromThrown(err)
		if failure.Code == domain.DefaultErrorCode {
			failure = failure.Recode(string(status.BadRequest))
		}
		req = &domain.HTTPRequest{Method: info.Method, URI: info.Path}
	}

	initial := initialStep(adapter, raw, req)
	exec := domain.NewExecution(
		domain.OriginID{Name: info.Router, Input: info.Path, Variant: info.Method},
		req, initial, requestAtoms(req), adapter.BuildExecutionMetadata(raw, info),
	)
	exec.SetInputTopic(req.URI)
	initial.State = domain.StepFinalized
	initial.FinishedAt = time.Now()

	var hooks domain.LifecycleHooks
	if root != nil {
		hooks = root.Hooks()
	}
	hooks.FireExecutionStart(ctx, exec)

	if failure == nil {
		if err := rt.compiled().Run(ctx, exec); err != nil {
			failure = domain.FromThrown(err)
		}
	}

	params := domain.FinalizeParams{
		Name:     adapter.FinalizeStepName(),
		Status:   domain.StepPending,
		Input:    exec.Payload(),
		Metadata: domain.StepMetadata{Output: domain.Description{Description: "Response Body"}},
	}
	if failure != nil {
		params.Status = domain.StepError
		params.Input = failure
	}
	finalize := exec.BeginFinalizationStep(params)

	resp := &domain.HTTPResponse{Request: req}
	var body any
	if failure != nil {
		resp.StatusCode = status.HTTPForError(failure.Code)
		body, err = rt.router.formatError(exec, failure)
	} else {
		resp.StatusCode = status.ResolveCanonicalHTTP(exec, 200)
		body, err = rt.router.finalize(exec, exec.Payload())
	}
	if err != nil {
		// A body that cannot be formatted is always an internal error.
		herr := domain.FromThrown(err)
		if herr.Code != string(status.InternalError) {
			herr = herr.Recode(string(status.InternalError))
		}
		body = herr
		resp.StatusCode = status.HTTPForError(herr.Code)
		finalize.State = domain.StepError
	}
	resp.Body = body

	sendErr := adapter.SendResponse(ctx, raw, resp, exec)
	finalize.Output = resp.Body
	exec.AddJournalEntry(domain.JournalEntry{
		ID:    "head",
		Title: "HTTP Response Head",
		Entry: map[string]any{"statusCode": resp.StatusCode, "headers": resp.Headers},
	})
	_ = exec.Terminate()

	hooks.FireExecutionFinish(ctx, exec)
	if root != nil {
		root.Record(ctx, exec)
		if sendErr != nil {
			root.Logger().Warn("failed to send response", "router", info.Router, "path", info.Path, "execution_id", exec.ID(), "error", sendErr)
		}
	}
	return sendErr
}

func initialStep[Raw any](adapter ports.RouteRequestAdapter[Raw], raw Raw, req *domain.HTTPRequest) *domain.StepExecution {
	meta := adapter.BuildInitialStepMetadata(raw, req)
	if meta.Input.Description == "" {
		meta.Input.Description = adapter.Name() + " Context"
	}
	if meta.Output.Description == "" {
		meta.Output.Description = "Hodr HTTP Request"
	}
	return &domain.StepExecution{
		Kind:      domain.KindInitial,
		Name:      adapter.InitialStepName(),
		State:     domain.StepPending,
		Input:     raw,
		Output:    req,
		StartedAt: time.Now(),
		Metadata:  meta,
	}
}

// requestAtoms exposes route parameters and session values by name, plus the
// whole maps as "params" and "session". Session values win on collision.
func requestAtoms(req *domain.HTTPRequest) domain.Atoms {
	atoms := make(map[string]any, len(req.Params)+len(req.Session)+2)
	for k, v := range req.Params {
		atoms[k] = v
	}
	atoms["params"] = req.Params
	for k, v := range req.Session {
		atoms[k] = v
	}
	atoms["session"] = req.Session
	return domain.NewAtoms(atoms)
}
