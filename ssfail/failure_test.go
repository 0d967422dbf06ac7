package ssfail

import "testing"

func TestFailureOrSuccess(t *testing.T) {
	f := Success(42)
	if f.IsFailure() {
		t.Fatal("expected success")
	}
	if f.Value() != 42 {
		t.Fatalf("Value() = %d, want 42", f.Value())
	}
}

func TestFailureOrFailure(t *testing.T) {
	f := Failuref[int](AttributeMissing, "column %s not found", "foo")
	if !f.IsFailure() {
		t.Fatal("expected failure")
	}
	if f.Err().Code != AttributeMissing {
		t.Fatalf("Code = %v, want AttributeMissing", f.Err().Code)
	}
	if f.Err().Error() != "ATTRIBUTE_MISSING: column foo not found" {
		t.Fatalf("Error() = %q", f.Err().Error())
	}
}

func TestSucceedOrDiePanicsOnFailure(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	SucceedOrDie(Failuref[int](TypeMismatch, "boom"))
}

func TestFailureOrOwnedTakeOnce(t *testing.T) {
	f := SuccessOwned("hello")
	v, err := f.Take()
	if err != nil || v != "hello" {
		t.Fatalf("Take() = (%q, %v)", v, err)
	}
}

func TestFailureOrOwnedDoubleTakePanics(t *testing.T) {
	f := SuccessOwned(1)
	_, _ = f.Take()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second Take")
		}
	}()
	_, _ = f.Take()
}

func TestStackTraceCaptured(t *testing.T) {
	e := New(MemoryExceeded, "ceiling hit")
	st := e.StackTrace()
	if len(st) == 0 {
		t.Fatal("expected non-empty stack trace")
	}
}

func TestWrapPreservesCode(t *testing.T) {
	inner := New(AttributeExists, "dup col")
	wrapped := Wrap(inner, "Compound[0,1]")
	if wrapped.Code != AttributeExists {
		t.Fatalf("Code = %v, want AttributeExists", wrapped.Code)
	}
	want := "Compound[0,1]: dup col"
	if wrapped.Message != want {
		t.Fatalf("Message = %q, want %q", wrapped.Message, want)
	}
}
