package runtime

import (
	"errors"
	"slices"
	"testing"
)

type namedHandler string

func (h namedHandler) Type() string           { return string(h) }
func (h namedHandler) Run(ctx *Context) error { return nil }

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(namedHandler("course_content_generate"), namedHandler("a_job"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if got := reg.Types(); !slices.Equal(got, []string{"a_job", "course_content_generate"}) {
		t.Fatalf("types: %v", got)
	}
	if _, ok := reg.Get("course_content_generate"); !ok {
		t.Fatalf("handler not found")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatalf("unexpected handler")
	}
}

func TestRegistryRejectsBadHandlers(t *testing.T) {
	if _, err := NewRegistry(namedHandler("x"), namedHandler("x")); !errors.Is(err, ErrDuplicateHandler) {
		t.Fatalf("want duplicate error, got %v", err)
	}
	if _, err := NewRegistry(namedHandler("")); err == nil {
		t.Fatalf("empty type should fail")
	}
	reg, _ := NewRegistry()
	if err := reg.Register(nil); err == nil {
		t.Fatalf("nil handler should fail")
	}
}
