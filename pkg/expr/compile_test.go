package expr_test

import (
	"testing"

	"github.com/aretw0/hodr/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comments() map[string]any {
	return map[string]any{
		"comments": []any{
			map[string]any{"id": 523, "comment": "Hehu!"},
			map[string]any{"id": 655, "comment": "Nah!"},
		},
	}
}

func TestEvaluate_DotNotation(t *testing.T) {
	eval := expr.MustCompile("body.comments")
	got := eval(map[string]any{"body": comments()}, nil, nil)
	assert.Equal(t, comments()["comments"], got)
}

func TestEvaluate_MissingSegmentIsAbsent(t *testing.T) {
	eval := expr.MustCompile("body.missing.deeper")
	assert.Nil(t, eval(map[string]any{"body": map[string]any{}}, nil, nil))
}

func TestEvaluate_Length(t *testing.T) {
	eval := expr.MustCompile("comments.length>0")
	assert.Equal(t, true, eval(comments(), nil, nil))
	assert.Equal(t, false, eval(map[string]any{"comments": []any{}}, nil, nil))
}

func TestEvaluate_FilterByBinding(t *testing.T) {
	eval := expr.MustCompile("comments[id=commentId]")

	got := eval(comments(), map[string]any{"commentId": 655}, nil)
	assert.Equal(t, map[string]any{"id": 655, "comment": "Nah!"}, got)

	got = eval(comments(), map[string]any{"commentId": 523}, nil)
	assert.Equal(t, map[string]any{"id": 523, "comment": "Hehu!"}, got)

	assert.Nil(t, eval(comments(), map[string]any{"commentId": 123}, nil))
}

func TestEvaluate_TypeHintCoercion(t *testing.T) {
	eval := expr.MustCompile("comments[id=#commentId]")

	var ops []expr.Operation
	report := func(op expr.Operation) { ops = append(ops, op) }

	got := eval(comments(), map[string]any{"commentId": "655"}, report)
	assert.Equal(t, map[string]any{"id": 655, "comment": "Nah!"}, got)
	require.Len(t, ops, 2)
	assert.Equal(t, "compare", ops[1].Type)
	assert.Equal(t, "655 === 655", ops[1].Desc)
	assert.Equal(t, true, ops[1].Result)

	assert.Nil(t, eval(comments(), map[string]any{"commentId": "123"}, nil))
}

func TestEvaluate_UntypedStringDoesNotMatchNumber(t *testing.T) {
	eval := expr.MustCompile("comments[id=commentId]")
	assert.Nil(t, eval(comments(), map[string]any{"commentId": "655"}, nil))
}

func TestEvaluate_ReporterDoesNotAffectResult(t *testing.T) {
	eval := expr.MustCompile("comments[id=#commentId]")
	bindings := map[string]any{"commentId": "523"}
	assert.Equal(t, eval(comments(), bindings, nil), eval(comments(), bindings, func(expr.Operation) {}))
}

func TestEvaluate_BooleanAndStringHints(t *testing.T) {
	input := map[string]any{"active": false, "code": "42"}

	eval := expr.MustCompile("active=!flag")
	assert.Equal(t, true, eval(input, map[string]any{"flag": "false"}, nil))
	assert.Equal(t, false, eval(input, map[string]any{"flag": "yes"}, nil))

	eval = expr.MustCompile("code=$answer")
	assert.Equal(t, true, eval(input, map[string]any{"answer": 42}, nil))
}

func TestEvaluate_NestedBindingPath(t *testing.T) {
	eval := expr.MustCompile("authorId=session.account.id")
	bindings := map[string]any{"session": map[string]any{"account": map[string]any{"id": 8844}}}
	assert.Equal(t, true, eval(map[string]any{"authorId": 8844}, bindings, nil))
}

func TestEvaluate_StructFieldsByJSONTag(t *testing.T) {
	type request struct {
		Method string            `json:"method"`
		Params map[string]string `json:"params,omitempty"`
	}
	req := &request{Method: "GET", Params: map[string]string{"targetId": "5"}}

	assert.Equal(t, "5", expr.MustCompile("params.targetId")(req, nil, nil))
	assert.Equal(t, true, expr.MustCompile(`method="GET"`)(req, nil, nil))
}

func TestEvaluate_Ordering(t *testing.T) {
	input := map[string]any{"age": 30, "name": "bea"}
	assert.Equal(t, true, expr.MustCompile("age>=30")(input, nil, nil))
	assert.Equal(t, false, expr.MustCompile("age<30")(input, nil, nil))
	assert.Equal(t, true, expr.MustCompile(`name>"alf"`)(input, nil, nil))
	assert.Equal(t, true, expr.MustCompile("age>#limit")(input, map[string]any{"limit": "18"}, nil))
}

func TestExtraction(t *testing.T) {
	source := map[string]any{
		"params":  map[string]any{"targetType": "listing", "targetId": "57"},
		"session": map[string]any{"account": map[string]any{"id": "66207d60", "name": "Benny Boxare"}},
		"body":    map[string]any{"type": "WARNING", "comment": "I _am_ the walrus!"},
	}

	named, err := expr.NewExtractionMap(map[string]string{
		"threadId": "params",
		"account":  "session.account",
		"comment":  "body",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"threadId": source["params"],
		"account":  map[string]any{"id": "66207d60", "name": "Benny Boxare"},
		"comment":  source["body"],
	}, named.Extract(source, nil, nil))

	single, err := expr.NewExtraction("body.comment")
	require.NoError(t, err)
	assert.Equal(t, "I _am_ the walrus!", single.Extract(source, nil, nil))
}

func TestExtractionMap_InvalidExpression(t *testing.T) {
	_, err := expr.NewExtractionMap(map[string]string{"bad": "a["})
	assert.ErrorIs(t, err, expr.ErrInvalidExpression)
}

func TestExtractPath(t *testing.T) {
	body := map[string]any{"content": map[string]any{"id": 558}}
	assert.Equal(t, 558, expr.ExtractPath(body, "content.id"))
	assert.Equal(t, body, expr.ExtractPath(body, ""))
	assert.Nil(t, expr.ExtractPath(body, "content.missing.id"))
	assert.Nil(t, expr.ExtractPath(nil, "content"))
}
