package runtime

import (
	"reflect"
	"testing"
)

func TestDeclareRejectsDuplicates(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Define("x", NewInteger(1, SuffixNone)); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := env.Define("x", NewInteger(2, SuffixNone)); err == nil || err.Error() != "duplicate declaration" {
		t.Fatalf("expected duplicate declaration, got %v", err)
	}
	child := NewEnvironment(env)
	if err := child.Define("x", NewInteger(3, SuffixNone)); err != nil {
		t.Fatalf("shadowing in child scope: %v", err)
	}
	if err := env.DefineAlias(&TypeAlias{Name: "x"}); err == nil {
		t.Fatalf("alias should share the value namespace")
	}
}

func TestGetReportsMissingAndUninitialized(t *testing.T) {
	env := NewEnvironment(nil)
	if _, err := env.Get("nope"); err == nil || err.Error() != "undefined variable 'nope'" {
		t.Fatalf("expected undefined variable, got %v", err)
	}
	if err := env.Declare("later", &Binding{Mutable: true}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := env.Get("later"); err == nil || err.Error() != "use of uninitialized variable 'later'" {
		t.Fatalf("expected uninitialized error, got %v", err)
	}
}

func TestAssignHonorsMutability(t *testing.T) {
	env := NewEnvironment(nil)
	_ = env.Declare("deferred", &Binding{})
	if err := env.Assign("deferred", NewInteger(1, SuffixNone)); err != nil {
		t.Fatalf("first assignment to deferred binding: %v", err)
	}
	err := env.Assign("deferred", NewInteger(2, SuffixNone))
	if err == nil || err.Error() != "assignment to immutable variable" {
		t.Fatalf("expected immutable error, got %v", err)
	}
	if err.(*Error).Kind != ErrorBorrow {
		t.Fatalf("expected borrow kind, got %s", err.(*Error).Kind)
	}
}

func TestWritableInPlaceScopeReachesParent(t *testing.T) {
	root := NewEnvironment(nil)
	_ = root.Declare("x", &Binding{Value: NewInteger(1, SuffixNone), Mutable: true, Initialized: true})
	inner := NewEnvironment(root)
	if err := inner.Assign("x", NewInteger(5, SuffixNone)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	v, _ := root.Get("x")
	if v.(IntegerValue).Val.Int64() != 5 {
		t.Fatalf("expected write-through, got %v", v)
	}
}

func TestWritableDetachedScopeCopiesOnWrite(t *testing.T) {
	root := NewEnvironment(nil)
	_ = root.Declare("x", &Binding{Value: NewInteger(1, SuffixNone), Mutable: true, Initialized: true})
	frame := NewDetachedEnvironment(root, "f")
	block := NewEnvironment(frame)
	if err := block.Assign("x", NewInteger(9, SuffixNone)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	outer, _ := root.Get("x")
	if outer.(IntegerValue).Val.Int64() != 1 {
		t.Fatalf("detached write leaked to outer binding: %v", outer)
	}
	local, _ := block.Get("x")
	if local.(IntegerValue).Val.Int64() != 9 {
		t.Fatalf("expected the frame copy to hold 9, got %v", local)
	}
	if frame.HasLocal("x") {
		t.Fatalf("copied binding must not count as a declaration")
	}
}

func TestResolveCrossesDetachedScopeWithoutCopy(t *testing.T) {
	root := NewEnvironment(nil)
	_ = root.Declare("x", &Binding{Value: NewInteger(0, SuffixNone), Mutable: true, Initialized: true})
	frame := NewDetachedEnvironment(root, "mutate")
	b, err := frame.Resolve("x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b.Value = NewInteger(10, SuffixNone)
	if frame.HasLocal("x") {
		t.Fatalf("resolve must not copy the binding into the frame")
	}
	v, _ := root.Get("x")
	if v.(IntegerValue).Val.Int64() != 10 {
		t.Fatalf("expected write to reach outer binding, got %v", v)
	}
	if _, err := frame.Resolve("nope"); err == nil {
		t.Fatalf("expected undefined variable error")
	}
}

func TestFrameNamesStopAtDetachedScope(t *testing.T) {
	root := NewEnvironment(nil)
	_ = root.Define("global", VoidValue{})
	frame := NewDetachedEnvironment(root, "Point")
	_ = frame.Define("x", VoidValue{})
	_ = frame.Define("y", VoidValue{})
	block := NewEnvironment(frame)
	_ = block.Define("m", VoidValue{})
	_ = block.Define("x", VoidValue{})
	if got := block.FrameNames(); !reflect.DeepEqual(got, []string{"x", "y", "m"}) {
		t.Fatalf("unexpected frame names %v", got)
	}
	if block.Frame() != "Point" {
		t.Fatalf("expected frame Point, got %q", block.Frame())
	}
	if NewDetachedEnvironment(root, "").Frame() != "" {
		t.Fatalf("block values have no frame name")
	}
}

func TestReleaseBorrowClearsMark(t *testing.T) {
	env := NewEnvironment(nil)
	_ = env.Declare("x", &Binding{Value: NewInteger(0, SuffixNone), Mutable: true, Initialized: true})
	b, _ := env.Writable("x")
	if err := b.Borrow.TryBorrowExclusive(); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	env.ReleaseBorrow(&PointerValue{Target: "x", Exclusive: true})
	if !b.Borrow.Free() {
		t.Fatalf("expected mark released, got %s", b.Borrow)
	}
	env.ReleaseBorrow(nil)
}

func TestStructAndAliasNamespaces(t *testing.T) {
	root := NewEnvironment(nil)
	root.DefineStruct(&StructTemplate{Name: "P"})
	root.DefineStruct(&StructTemplate{Name: "P", GenericParams: []string{"T"}})
	child := NewEnvironment(root)
	tmpl, ok := child.LookupStruct("P")
	if !ok || len(tmpl.GenericParams) != 1 {
		t.Fatalf("expected the later struct to replace the earlier one")
	}
	if err := root.DefineAlias(&TypeAlias{Name: "A"}); err != nil {
		t.Fatalf("define alias: %v", err)
	}
	if err := root.DefineAlias(&TypeAlias{Name: "A"}); err == nil {
		t.Fatalf("expected duplicate alias error")
	}
	if _, ok := child.LookupAlias("A"); !ok {
		t.Fatalf("expected alias visible from child")
	}
}

func TestCopyValueIsDeep(t *testing.T) {
	inst := NewStructInstance("P")
	inst.Set("a", NewInteger(1, SuffixNone))
	arr := &ArrayValue{Elements: []Value{inst}}
	cp := CopyValue(arr).(*ArrayValue)
	cp.Elements[0].(*StructInstanceValue).Set("a", NewInteger(2, SuffixNone))
	got, _ := inst.Get("a")
	if got.(IntegerValue).Val.Int64() != 1 {
		t.Fatalf("copy shares storage with original")
	}
}
