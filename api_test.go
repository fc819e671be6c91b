package tofu

import (
	"errors"
	"testing"
	"time"
)

type apiTestUser struct {
	ID       string    `surreal:"id"`
	Email    string    `surreal:"email" index:"unique"`
	Name     string    `surreal:"name"`
	Age      int       `surreal:"age"`
	JoinedAt time.Time `surreal:"joined_at"`
	Internal string    `surreal:"-"`
}

func TestNew(t *testing.T) {
	users, err := New[apiTestUser]("users")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if users.TableName() != "users" {
		t.Errorf("TableName() = %q, want users", users.TableName())
	}

	fields := users.FieldNames()
	want := map[string]bool{"id": true, "email": true, "name": true, "age": true, "joined_at": true}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected field %q in schema", f)
		}
		delete(want, f)
	}
	for f := range want {
		t.Errorf("field %q missing from schema", f)
	}
}

func TestNewEmptyTableName(t *testing.T) {
	if _, err := New[apiTestUser](""); !errors.Is(err, ErrEmptyTableName) {
		t.Errorf("New(\"\") error = %v, want ErrEmptyTableName", err)
	}
}

func TestNewInvalidTableName(t *testing.T) {
	if _, err := New[apiTestUser]("bad table"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("New(\"bad table\") error = %v, want ErrInvalidIdentifier", err)
	}
}

type apiTestNoID struct {
	Name string `surreal:"name"`
}

func TestNewAddsImplicitID(t *testing.T) {
	things, err := New[apiTestNoID]("things")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	found := false
	for _, f := range things.FieldNames() {
		if f == "id" {
			found = true
		}
	}
	if !found {
		t.Error("schema should include implicit id field")
	}
}

func TestSchemaBoundQuery(t *testing.T) {
	users, err := New[apiTestUser]("users")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	compiled, err := users.Query().Where("age", GT, 30).Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if want := "SELECT * FROM users WHERE age > $_f0;"; compiled.Text != want {
		t.Errorf("Text = %q, want %q", compiled.Text, want)
	}
}

func TestSchemaRejectsUnknownField(t *testing.T) {
	users, err := New[apiTestUser]("users")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = users.Query().Where("nonexistent", Exact, 1).Compile()
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Compile() error = %v, want ErrUnknownField", err)
	}
}

func TestSchemaRejectsUnknownFieldInExpression(t *testing.T) {
	users, err := New[apiTestUser]("users")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = users.Query().
		WhereOr(C("age", GT, 30), C("nonexistent", Exact, 1)).
		Compile()
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Compile() error = %v, want ErrUnknownField", err)
	}
}

func TestSchemaSkipsDashTag(t *testing.T) {
	users, err := New[apiTestUser]("users")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for _, f := range users.FieldNames() {
		if f == "Internal" || f == "-" {
			t.Errorf("dash-tagged field leaked into schema as %q", f)
		}
	}
}

func TestUnboundQuerySkipsSchemaCheck(t *testing.T) {
	_, err := NewQuery("users").Where("anything_goes", Exact, 1).Compile()
	if err != nil {
		t.Errorf("unbound query should not schema-check fields, got %v", err)
	}
}
