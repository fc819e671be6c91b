package tofu

import "testing"

func TestRenderExpr(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "single leaf",
			expr: C("age", GT, 30),
			want: "age > $_f0",
		},
		{
			name: "or group parenthesized",
			expr: Or(C("name", Exact, "alice"), C("name", Exact, "bob")),
			want: "(name = $_f0 OR name = $_f1)",
		},
		{
			name: "and group parenthesized",
			expr: And(C("age", GTE, 18), C("age", LT, 65)),
			want: "(age >= $_f0 AND age < $_f1)",
		},
		{
			name: "single child group has no parens",
			expr: And(C("age", GT, 30)),
			want: "age > $_f0",
		},
		{
			name: "not wraps single leaf",
			expr: Not(C("status", Exact, "banned")),
			want: "NOT (status = $_f0)",
		},
		{
			name: "not wraps group including its parens",
			expr: Not(And(C("a", Exact, 1), C("b", Exact, 2))),
			want: "NOT ((a = $_f0 AND b = $_f1))",
		},
		{
			name: "nested or inside and",
			expr: And(
				C("age", GT, 30),
				Or(C("city", Exact, "paris"), C("city", Exact, "lyon")),
			),
			want: "(age > $_f0 AND (city = $_f1 OR city = $_f2))",
		},
		{
			name: "empty group renders nothing",
			expr: Or(),
			want: "",
		},
		{
			name: "empty children are skipped",
			expr: And(C("age", GT, 30), Or()),
			want: "age > $_f0",
		},
		{
			name: "negated empty group renders nothing",
			expr: Not(And()),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderExpr(tt.expr, newBinder())
			if err != nil {
				t.Fatalf("renderExpr() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("renderExpr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderExprPropagatesErrors(t *testing.T) {
	_, err := renderExpr(And(C("age", GT, 1), C("bad name", Exact, 2)), newBinder())
	if err == nil {
		t.Error("renderExpr() should propagate leaf errors")
	}
}

func TestCollectFields(t *testing.T) {
	expr := And(
		C("age", GT, 30),
		Or(C("city", Exact, "paris"), Not(C("status", Exact, "banned"))),
	)

	got := collectFields(expr, nil)
	want := []string{"age", "city", "status"}
	if len(got) != len(want) {
		t.Fatalf("collectFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("collectFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
