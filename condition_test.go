package tofu

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderCond(t *testing.T) {
	tests := []struct {
		name     string
		cond     Cond
		want     string
		wantVars map[string]any
	}{
		{
			name:     "exact",
			cond:     C("age", Exact, 30),
			want:     "age = $_f0",
			wantVars: map[string]any{"_f0": 30},
		},
		{
			name:     "greater than",
			cond:     C("age", GT, 30),
			want:     "age > $_f0",
			wantVars: map[string]any{"_f0": 30},
		},
		{
			name:     "greater or equal",
			cond:     C("age", GTE, 18),
			want:     "age >= $_f0",
			wantVars: map[string]any{"_f0": 18},
		},
		{
			name:     "less than",
			cond:     C("age", LT, 65),
			want:     "age < $_f0",
			wantVars: map[string]any{"_f0": 65},
		},
		{
			name:     "less or equal",
			cond:     C("age", LTE, 65),
			want:     "age <= $_f0",
			wantVars: map[string]any{"_f0": 65},
		},
		{
			name:     "in binds whole list",
			cond:     C("status", In, []string{"active", "pending"}),
			want:     "status IN $_f0",
			wantVars: map[string]any{"_f0": []string{"active", "pending"}},
		},
		{
			name:     "not in",
			cond:     C("age", NotIn, []int{1, 2, 3}),
			want:     "age NOT IN $_f0",
			wantVars: map[string]any{"_f0": []int{1, 2, 3}},
		},
		{
			name:     "contains",
			cond:     C("tags", Contains, "urgent"),
			want:     "tags CONTAINS $_f0",
			wantVars: map[string]any{"_f0": "urgent"},
		},
		{
			name:     "not contains",
			cond:     C("tags", NotContains, "spam"),
			want:     "tags CONTAINSNOT $_f0",
			wantVars: map[string]any{"_f0": "spam"},
		},
		{
			name:     "containsall",
			cond:     C("tags", ContainsAll, []string{"a", "b"}),
			want:     "tags CONTAINSALL $_f0",
			wantVars: map[string]any{"_f0": []string{"a", "b"}},
		},
		{
			name:     "containsany",
			cond:     C("tags", ContainsAny, []string{"a", "b"}),
			want:     "tags CONTAINSANY $_f0",
			wantVars: map[string]any{"_f0": []string{"a", "b"}},
		},
		{
			name:     "startswith",
			cond:     C("name", StartsWith, "Al"),
			want:     "string::starts_with(name, $_f0)",
			wantVars: map[string]any{"_f0": "Al"},
		},
		{
			name:     "istartswith folds case",
			cond:     C("name", IStartsWith, "Al"),
			want:     "string::starts_with(string::lowercase(name), $_f0)",
			wantVars: map[string]any{"_f0": "al"},
		},
		{
			name:     "endswith",
			cond:     C("name", EndsWith, "ce"),
			want:     "string::ends_with(name, $_f0)",
			wantVars: map[string]any{"_f0": "ce"},
		},
		{
			name:     "iendswith folds case",
			cond:     C("name", IEndsWith, "CE"),
			want:     "string::ends_with(string::lowercase(name), $_f0)",
			wantVars: map[string]any{"_f0": "ce"},
		},
		{
			name:     "like translates pattern",
			cond:     C("name", Like, "%A_B%"),
			want:     "string::matches(name, $_f0)",
			wantVars: map[string]any{"_f0": "^.*A.B.*$"},
		},
		{
			name:     "ilike prefixes case flag",
			cond:     C("name", ILike, "%A_B%"),
			want:     "string::matches(name, $_f0)",
			wantVars: map[string]any{"_f0": "(?i)^.*A.B.*$"},
		},
		{
			name:     "icontains",
			cond:     C("name", IContains, "Ali"),
			want:     "string::contains(string::lowercase(name), $_f0)",
			wantVars: map[string]any{"_f0": "ali"},
		},
		{
			name:     "regex passes through",
			cond:     C("name", Regex, "^A.*e$"),
			want:     "string::matches(name, $_f0)",
			wantVars: map[string]any{"_f0": "^A.*e$"},
		},
		{
			name:     "iregex prefixes case flag",
			cond:     C("name", IRegex, "^a.*e$"),
			want:     "string::matches(name, $_f0)",
			wantVars: map[string]any{"_f0": "(?i)^a.*e$"},
		},
		{
			name:     "match",
			cond:     C("title", Match, "quantum"),
			want:     "title @@ $_f0",
			wantVars: map[string]any{"_f0": "quantum"},
		},
		{
			name:     "isnull true",
			cond:     C("email", IsNull, true),
			want:     "email IS NULL",
			wantVars: map[string]any{},
		},
		{
			name:     "isnull false",
			cond:     C("email", IsNull, false),
			want:     "email IS NOT NULL",
			wantVars: map[string]any{},
		},
		{
			name:     "var passes through unbound",
			cond:     C("age", GTE, Var("min_age")),
			want:     "age >= $min_age",
			wantVars: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBinder()
			got, err := renderCond(tt.cond, b)
			if err != nil {
				t.Fatalf("renderCond() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("renderCond() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantVars, b.vars); diff != "" {
				t.Errorf("vars mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderCondErrors(t *testing.T) {
	tests := []struct {
		name    string
		cond    Cond
		wantErr error
	}{
		{
			name:    "invalid field",
			cond:    C("a b", Exact, 1),
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "injection in field",
			cond:    C("age; DROP TABLE users", Exact, 1),
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "unknown lookup",
			cond:    C("age", "fuzzy", 1),
			wantErr: ErrUnknownLookup,
		},
		{
			name:    "isnull requires bool",
			cond:    C("email", IsNull, "yes"),
			wantErr: ErrLookupValue,
		},
		{
			name:    "in requires sequence",
			cond:    C("age", In, 30),
			wantErr: ErrLookupValue,
		},
		{
			name:    "in rejects string",
			cond:    C("age", In, "abc"),
			wantErr: ErrLookupValue,
		},
		{
			name:    "in rejects byte slice",
			cond:    C("age", In, []byte("abc")),
			wantErr: ErrLookupValue,
		},
		{
			name:    "like requires string pattern",
			cond:    C("name", Like, 42),
			wantErr: ErrLookupValue,
		},
		{
			name:    "invalid var name",
			cond:    C("age", GTE, Var("bad name")),
			wantErr: ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderCond(tt.cond, newBinder())
			if err == nil {
				t.Fatal("renderCond() should error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("renderCond() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
