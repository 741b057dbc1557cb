package router_test

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/aretw0/hodr/internal/testkit"
	"github.com/aretw0/hodr/pkg/destination"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/router"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, rt *router.Route, call *testkit.RouteCall) *domain.HTTPResponse {
	t.Helper()
	require.NoError(t, router.HandleRequest(context.Background(), rt, call, testkit.RouteAdapter{}))
	require.NotNil(t, call.Response)
	return call.Response
}

func TestRoute_PostCommentEndToEnd(t *testing.T) {
	client := testkit.NewFakeHTTPClient().RespondWith("/comments/listing/thread/5", domain.MethodPost,
		func(req *domain.HTTPRequest) *domain.HTTPResponse {
			content := maps.Clone(req.Body.(map[string]any))
			content["id"] = 558
			content["createdAt"] = 1749246021270
			return &domain.HTTPResponse{StatusCode: 201, Body: map[string]any{"content": content}}
		})
	root := testkit.NewRegistry(destination.New("test-destination").HTTP("", client))

	r := router.New(root, "comments-api")
	r.Post("/comments/:targetType/thread/:targetId").
		ExtractMap(map[string]string{
			"threadId": "params",
			"account":  "session.account",
			"comment":  "body",
		}).
		TransformField("comment", func(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
			payload := p.(map[string]any)
			account := payload["account"].(map[string]any)
			comment := maps.Clone(payload["comment"].(map[string]any))
			comment["authorId"] = account["id"]
			comment["authorName"] = account["name"]
			return comment, nil
		}).
		HTTPPost("test-destination", "/comments/:targetType/thread/:targetId", &domain.RequestParams{
			PathParamsFrom: "threadId",
			BodyFrom:       "comment",
		}).
		ExpectHTTPSuccess().
		ExtractResponseBody("content")

	call := &testkit.RouteCall{
		Params:  map[string]string{"targetType": "listing", "targetId": "5"},
		Session: map[string]any{"account": map[string]any{"id": "acc-1", "name": "Kari"}},
		Body:    map[string]any{"text": "Nice listing!"},
	}
	resp := handle(t, r.Routes()[0], call)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"text":       "Nice listing!",
		"authorId":   "acc-1",
		"authorName": "Kari",
		"id":         558,
		"createdAt":  1749246021270,
	}, resp.Body)

	recorded := root.Recorded()
	require.Len(t, recorded, 1)
	exec := recorded[0]
	assert.Equal(t, domain.StatusFinalized, exec.State())
	assert.Equal(t, "/comments/:targetType/thread/:targetId", exec.InputTopic())
	assert.Equal(t, "test-router-init", exec.InitialStep().Name)
	assert.Equal(t, "TestRouter Context", exec.InitialStep().Metadata.Input.Description)
	assert.Equal(t, "Hodr HTTP Request", exec.InitialStep().Metadata.Output.Description)
	assert.Equal(t, domain.StepFinalized, exec.InitialStep().State)

	fin := exec.FinalizeStep()
	assert.Equal(t, "test-router-finalize", fin.Name)
	assert.Equal(t, domain.StepFinalized, fin.State)
	assert.Equal(t, resp.Body, fin.Output)
	require.NotEmpty(t, fin.Metadata.Journal)
	assert.Equal(t, "head", fin.Metadata.Journal[len(fin.Metadata.Journal)-1].ID)

	names := make([]string, 0, len(exec.Steps()))
	for _, s := range exec.Steps() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"extract", "transform", "http-req-test-destination", "validate-http-status", "extract-http-body"}, names)

	cs, ok := exec.CanonicalStatus()
	require.True(t, ok)
	assert.Equal(t, "http-req-test-destination", cs.InferredBy)
}

func TestRoute_Atoms(t *testing.T) {
	r := router.New(testkit.NewRegistry(), "atoms")
	r.Get("/users/:userId").Transform(func(_ context.Context, _ any, _ *domain.ExecutionContext, atoms domain.Atoms) (any, error) {
		return atoms.Map(), nil
	})

	params := map[string]string{"userId": "u1"}
	session := map[string]any{"role": "admin"}
	resp := handle(t, r.Routes()[0], &testkit.RouteCall{Params: params, Session: session})

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"userId":  "u1",
		"params":  params,
		"role":    "admin",
		"session": session,
	}, resp.Body)
}

func TestRoute_ErrorStatusAndFormatter(t *testing.T) {
	root := testkit.NewRegistry()
	r := router.New(root, "errors").FormatError(func(_ *domain.ExecutionContext, err *domain.HodrError) (any, error) {
		return map[string]any{"error": err.Message, "code": err.Code}, nil
	})
	r.Delete("/items/:id").ExpectExpr("params.id=\"keep\"", status.Forbidden)

	resp := handle(t, r.Routes()[0], &testkit.RouteCall{Params: map[string]string{"id": "drop"}})
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Expectation failed!", "code": "forbidden"}, resp.Body)

	exec := root.Recorded()[0]
	assert.Equal(t, domain.StatusError, exec.State())
	assert.Equal(t, domain.StepError, exec.FinalizeStep().State)
}

func TestRoute_FinalizerFailure(t *testing.T) {
	root := testkit.NewRegistry()
	r := router.New(root, "finalize").FinalizePayload(func(*domain.ExecutionContext, any) (any, error) {
		return nil, errors.New("cannot render")
	})
	r.Get("/").Literal("ok")

	resp := handle(t, r.Routes()[0], &testkit.RouteCall{})
	assert.Equal(t, 500, resp.StatusCode)

	var herr *domain.HodrError
	require.ErrorAs(t, resp.Body.(error), &herr)
	assert.Equal(t, "cannot render", herr.Message)
	assert.Equal(t, domain.StatusError, root.Recorded()[0].State())
}

func TestRoute_FormattingFailuresAreInternal(t *testing.T) {
	notAcceptable := domain.NewError("cannot encode", domain.WithCode(string(status.NotAcceptable)))

	tests := []struct {
		name  string
		build func(*router.Router)
	}{
		{
			name: "finalize_payload",
			build: func(r *router.Router) {
				r.FinalizePayload(func(*domain.ExecutionContext, any) (any, error) { return nil, notAcceptable })
				r.Get("/").Literal("ok")
			},
		},
		{
			name: "format_error",
			build: func(r *router.Router) {
				r.FormatError(func(*domain.ExecutionContext, *domain.HodrError) (any, error) { return nil, notAcceptable })
				r.Get("/").ExpectExpr("missing", status.Forbidden)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testkit.NewRegistry()
			r := router.New(root, tt.name)
			tt.build(r)

			resp := handle(t, r.Routes()[0], &testkit.RouteCall{})
			assert.Equal(t, 500, resp.StatusCode)

			var herr *domain.HodrError
			require.ErrorAs(t, resp.Body.(error), &herr)
			assert.Equal(t, string(status.InternalError), herr.Code)
			assert.Equal(t, "cannot encode", herr.Message)
			assert.ErrorIs(t, herr, notAcceptable)

			exec := root.Recorded()[0]
			assert.Equal(t, domain.StatusError, exec.State())
			assert.Equal(t, domain.StepError, exec.FinalizeStep().State)
		})
	}
}

func TestRoute_CustomFinalizer(t *testing.T) {
	r := router.New(nil, "wrap").FinalizePayload(func(_ *domain.ExecutionContext, p any) (any, error) {
		return map[string]any{"data": p}, nil
	})
	r.Put("/x").Literal(1)

	resp := handle(t, r.Routes()[0], &testkit.RouteCall{})
	assert.Equal(t, map[string]any{"data": 1}, resp.Body)
}

type failingExtract struct{ testkit.RouteAdapter }

func (failingExtract) ExtractRequest(*testkit.RouteCall, ports.RouteInfo) (*domain.HTTPRequest, error) {
	return nil, errors.New("malformed body")
}

func TestRoute_ExtractFailureIsBadRequest(t *testing.T) {
	var ran bool
	r := router.New(nil, "extract")
	r.Post("/").Transform(func(context.Context, any, *domain.ExecutionContext, domain.Atoms) (any, error) {
		ran = true
		return nil, nil
	})

	call := &testkit.RouteCall{}
	require.NoError(t, router.HandleRequest(context.Background(), r.Routes()[0], call, failingExtract{}))
	assert.Equal(t, 400, call.Response.StatusCode)
	assert.False(t, ran)
}

func TestRouter_Inputs(t *testing.T) {
	r := router.New(nil, "api")
	r.Get("/a")
	r.Patch("/b")

	inputs := r.Inputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, "/a", inputs[0].Name())
	assert.Equal(t, "GET", inputs[0].Variant())
	assert.Equal(t, "PATCH", inputs[1].Variant())
	assert.Equal(t, "Route", inputs[1].Type())
	assert.Equal(t, "Router", r.Type())
}
