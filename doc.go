/*
Package hodr is a request-orchestration engine: it runs declarative pipelines
("lanes") of steps that extract, validate, transform and forward data to
external destinations, and it keeps a structured journal of every execution.

# Concept

An App owns origins, destinations, validators and trackers. Origins are the
entry points that start executions: a Module groups plain functions, a Router
groups HTTP routes. Each input of an origin owns a lane built with the
fluent lane.Builder. Running a lane threads a payload through its steps; every
step is recorded with its input, output, timing and journal entries on the
ExecutionContext, which is handed to the trackers once terminated.

Errors crossing the lane boundary are always *domain.HodrError, carrying a
protocol-neutral code ("bad-request", "resource-not-found", ...) that server
adapters translate to HTTP statuses.

# Usage

	app := hodr.New(hodr.WithLogger(logging.New(slog.LevelInfo)))
	_ = app.Use(tracker.NewMemory(), schema.NewValidator())

	app.Destination("users").HTTP("https://users.internal", httpadapter.NewClient())

	app.Router("api").Get("/users/:id").
		HTTPGet("users", "/v1/users/:id", nil).
		ExpectHTTPOk().
		ExtractResponseBody("content")

	srv := httpadapter.NewServer()
	srv.Mount(app.Router("api"))
	log.Fatal(http.ListenAndServe(":8080", srv.Handler()))

Functions are called directly:

	app.Function("double").Transform(func(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
		return p.(float64) * 2, nil
	})
	double, _ := app.GetFunction("double-module", "double")
	out, err := double(ctx, 21.0)
*/
package hodr
