package interp

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/redstone/errors"
	"github.com/pontaoski/redstone/lexer"
	"github.com/pontaoski/redstone/parser"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()

	prog, err := parser.ParseSource(source, "test.rsd", nil)
	if err != nil {
		t.Fatalf("%q: unexpected parse error %s", source, err)
	}
	if err := Validate(prog); err != nil {
		return "", err
	}

	var out bytes.Buffer
	_, err = New().EvaluateProgram(prog, NewGlobalScope(&out))
	return out.String(), err
}

func mustRun(t *testing.T, source string) string {
	t.Helper()

	out, err := run(t, source)
	if err != nil {
		t.Fatalf("unexpected error %s\n%s", err, source)
	}
	return out
}

func expectKind(t *testing.T, source string, kind errors.RuntimeErrorKind) error {
	t.Helper()

	_, err := run(t, source)
	if err == nil {
		t.Fatalf("expected a %s error\n%s", kind, source)
	}
	got, ok := errors.RuntimeKind(err)
	if !ok {
		t.Fatalf("expected a runtime error, got %s", repr.String(err))
	}
	if got != kind {
		t.Fatalf("got %s (%s), expected %s\n%s", got, err, kind, source)
	}
	return err
}

func TestComparisons(t *testing.T) {
	out := mustRun(t, `item a = 5
item b = 10
item c = 5
print("a is:", a)
print("a == c:", a == c)
print("a != b:", a != b)
print("a < b:", a < b)
print("b > a:", b > a)
print("a <= c:", a <= c)
print("b >= a:", b >= a)
print("a > b:", a > b)
`)

	for _, line := range []string{
		"a is: 5",
		"a == c: on",
		"a != b: on",
		"a < b: on",
		"b > a: on",
		"a <= c: on",
		"b >= a: on",
		"a > b: off",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("missing %q in\n%s", line, out)
		}
	}
}

func TestWhileBreak(t *testing.T) {
	out := mustRun(t, `item i = 0
repeater (on) {
  i = i + 1
  print(i)
  comparator (i == 3) {
    cut
  }
}
`)

	if out != "1\n2\n3\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFunctionCall(t *testing.T) {
	out := mustRun(t, `craft add(x, y) {
  dispense x + y
}
print(add(3, 4))
`)

	if out != "7\n" {
		t.Fatalf("got %q", out)
	}
}

func TestObjectMembers(t *testing.T) {
	out := mustRun(t, `item obj = {
  x: 10,
  y: 20,
  inner: {
    value: 42
  }
}
print(obj.x)
print(obj.y)
print(obj.inner.value)
`)

	if out != "10\n20\n42\n" {
		t.Fatalf("got %q", out)
	}
}

func TestArithmetic(t *testing.T) {
	out := mustRun(t, `item x = 2 + 3 * 4
item y = (2 + 3) * 4
print(x, y, 7 / 2, 7 % 3, -x, 0.1 + 0.2 == 0.3)
`)

	if out != "14 20 3.5 1 -14 off\n" {
		t.Fatalf("got %q", out)
	}
}

func TestStringsAndBooleans(t *testing.T) {
	out := mustRun(t, `item a = on
item b = !a
item s = "redstone"
print(a, b, s, s == "redstone", air == air, air)
`)

	if out != "on off redstone on on <air>\n" {
		t.Fatalf("got %q", out)
	}
}

func TestMismatchedEquality(t *testing.T) {
	out := mustRun(t, `print(1 == "1", air == off, 0 != off, "a" != "a")`)
	if out != "off off on off\n" {
		t.Fatalf("got %q", out)
	}
}

func TestIfElse(t *testing.T) {
	out := mustRun(t, `craft size(n) {
  comparator (n < 10) {
    dispense "small"
  } else comparator (n < 100) {
    dispense "medium"
  }
  else {
    dispense "large"
  }
}
print(size(1), size(50), size(500))
`)

	if out != "small medium large\n" {
		t.Fatalf("got %q", out)
	}
}

func TestWhileContinue(t *testing.T) {
	out := mustRun(t, `item i = 0
repeater (i < 5) {
  i = i + 1
  comparator (i % 2 == 0) {
    skip
  }
  print(i)
}
`)

	if out != "1\n3\n5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestForLoop(t *testing.T) {
	out := mustRun(t, `hopper (item i = 0, i < 6, i = i + 1) {
  comparator (i % 2 == 0) {
    skip
  }
  comparator (i == 5) {
    cut
  }
  print(i)
}
item n = 0
hopper (, n < 3, ) {
  n = n + 1
}
print(n)
`)

	if out != "1\n3\n3\n" {
		t.Fatalf("got %q", out)
	}
}

func TestForScope(t *testing.T) {
	expectKind(t, `hopper (item i = 0, i < 1, i = i + 1) {
}
print(i)
`, errors.UndefinedVariable)
}

func TestReturnFromLoop(t *testing.T) {
	out := mustRun(t, `craft first(limit) {
  item i = 0
  repeater (on) {
    i = i + 1
    comparator (i * i > limit) {
      dispense i
    }
  }
}
print(first(20))
`)

	if out != "5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRecursion(t *testing.T) {
	out := mustRun(t, `craft fib(n) {
  comparator (n < 2) {
    dispense n
  }
  dispense fib(n - 1) + fib(n - 2)
}
print(fib(15))
`)

	if out != "610\n" {
		t.Fatalf("got %q", out)
	}
}

func TestCallDepth(t *testing.T) {
	expectKind(t, `craft down(n) {
  dispense down(n + 1)
}
down(0)
`, errors.CallDepthExceeded)
}

func TestClosuresCaptureByReference(t *testing.T) {
	out := mustRun(t, `item count = 0
craft inc() {
  count = count + 1
}
inc()
inc()
print(count)

craft counter() {
  item n = 0
  craft next() {
    n = n + 1
    dispense n
  }
  dispense next
}
item a = counter()
item b = counter()
a()
a()
print(a(), b())

item late = 1
craft peek() {
  dispense late
}
late = 2
print(peek())
`)

	if out != "2\n3 1\n2\n" {
		t.Fatalf("got %q", out)
	}
}

func TestShadowing(t *testing.T) {
	out := mustRun(t, `item a = 1
comparator (on) {
  item a = 2
  print(a)
}
print(a)
craft f(a) {
  dispense a
}
print(f(3), a)
`)

	if out != "2\n1\n3 1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		source string
		kind   errors.RuntimeErrorKind
	}{
		{"print(missing)", errors.UndefinedVariable},
		{"missing = 1", errors.UndefinedVariable},
		{"item a = 1\nitem a = 2", errors.DuplicateDeclaration},
		{"craft f() {\n}\nitem f = 1", errors.DuplicateDeclaration},
		{"craft f(x, x) {\n}\nf(1, 2)", errors.DuplicateDeclaration},
		{"bedrock k = 1\nk = 2", errors.ConstantReassignment},
		{"bedrock k = 1\ncraft f() {\n  comparator (on) {\n    k = 2\n  }\n}\nf()", errors.ConstantReassignment},
		{"print = 1", errors.ConstantReassignment},
		{"print(1 + \"a\")", errors.TypeMismatch},
		{"print(\"a\" < \"b\")", errors.TypeMismatch},
		{"print(-\"a\")", errors.TypeMismatch},
		{"print(!1)", errors.TypeMismatch},
		{"print(1 && on)", errors.TypeMismatch},
		{"comparator (1) {\n}", errors.TypeMismatch},
		{"repeater (air) {\n}", errors.TypeMismatch},
		{"print(1 / 0)", errors.DivideByZero},
		{"print(5 % 0)", errors.DivideByZero},
		{"item x = 5\nx()", errors.NotAFunction},
		{"item o = {\n  a: 1\n}\no.a()", errors.NotAFunction},
		{"craft add(x, y) {\n  dispense x + y\n}\nadd(1)", errors.ArityShortfall},
		{"item o = {\n  a: 1\n}\nprint(o.b)", errors.MissingProperty},
		{"item n = 1\nprint(n.a)", errors.NotAnObject},
		{"item n = air\nn.a = 1", errors.NotAnObject},
		{"cut", errors.BreakOutsideLoop},
		{"skip", errors.ContinueOutsideLoop},
		{"dispense 1", errors.ReturnOutsideFunction},
		{"comparator (on) {\n  dispense\n}", errors.ReturnOutsideFunction},
		{"craft f() {\n  cut\n}\nrepeater (on) {\n  f()\n}", errors.BreakOutsideLoop},
		{"item o = {\n  x\n}", errors.UndefinedVariable},
	}

	for _, c := range cases {
		expectKind(t, c.source, c.kind)
	}
}

func TestRuntimeErrorMessages(t *testing.T) {
	cases := []struct {
		source  string
		message string
	}{
		{"print(nope)", "could not find the variable 'nope'"},
		{"bedrock k = 1\nk = 2", "cannot reassign 'k' as it's a bedrock"},
		{"item a = 1\nitem a = 2", "variable 'a' is already defined"},
		{"cut", "'cut' used outside of a loop"},
		{"skip", "'skip' used outside of a loop"},
		{"dispense", "'dispense' used outside of a function"},
		{"craft add(x, y) {\n}\nadd()", "craft 'add' is missing arguments: x, y"},
		{"print(2 / (1 - 1))", "division by zero in (2 / (1 - 1))"},
	}

	for _, c := range cases {
		_, err := run(t, c.source)
		if err == nil || err.Error() != c.message {
			t.Fatalf("%q: got %v, expected %q", c.source, err, c.message)
		}
	}
}

func TestKeywordSpellingInErrors(t *testing.T) {
	kw, err := lexer.DefaultKeywords().Override(map[string]string{"break": "stop"})
	if err != nil {
		t.Fatal(err)
	}

	prog, err := parser.ParseSource("stop", "", kw)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New().WithKeywords(kw).EvaluateProgram(prog, NewGlobalScope(&bytes.Buffer{}))
	if err == nil || err.Error() != "'stop' used outside of a loop" {
		t.Fatalf("got %v", err)
	}
}

func TestErrorStopsExecution(t *testing.T) {
	out, err := run(t, "print(1)\nprint(1 / 0)\nprint(2)")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if out != "1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestExtraArgumentsIgnored(t *testing.T) {
	out := mustRun(t, `craft add(x, y) {
  dispense x + y
}
print(add(1, 2, 3))
`)

	if out != "3\n" {
		t.Fatalf("got %q", out)
	}
}

func TestArgumentsEvaluatedInOrder(t *testing.T) {
	out := mustRun(t, `craft say(v) {
  print(v)
  dispense v
}
craft pair(a, b) {
  dispense a - b
}
print(pair(say(1), say(2)))
`)

	if out != "1\n2\n-1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestShortCircuit(t *testing.T) {
	out := mustRun(t, `craft boom() {
  print("boom")
  dispense on
}
print(off && boom())
print(on || boom())
print(on && boom())
`)

	if out != "off\non\nboom\non\n" {
		t.Fatalf("got %q", out)
	}
}

func TestObjectsAreShared(t *testing.T) {
	out := mustRun(t, `item a = {
  x: 1
}
item b = a
b.x = 5
b.y = 6
print(a.x, a.y, a == b)
item x = 3
item short = {
  x
}
x = 4
print(short.x)
print(a)
`)

	if out != "5 6 on\n3\n{ x: 5, y: 6 }\n" {
		t.Fatalf("got %q", out)
	}
}

func TestMethodsOnObjects(t *testing.T) {
	out := mustRun(t, `craft double(n) {
  dispense n * 2
}
item math = {
  double
}
print(math.double(21))
`)

	if out != "42\n" {
		t.Fatalf("got %q", out)
	}
}

func TestProgramValue(t *testing.T) {
	cases := map[string]string{
		"":                             "<air>",
		"item x = 2":                   "2",
		"item x = 2\nx * 3":            "6",
		"craft f() {\n}\nf()":          "void",
		"craft f(a, b) {\n}":           "<craft f(a, b)>",
		"print":                        "<native print>",
		"item o = {\n  s: \"hi\"\n}\no": `{ s: "hi" }`,
		"repeater (off) {\n}":          "void",
	}

	for source, expected := range cases {
		prog, err := parser.ParseSource(source, "", nil)
		if err != nil {
			t.Fatal(err)
		}
		v, err := New().EvaluateProgram(prog, NewGlobalScope(&bytes.Buffer{}))
		if err != nil {
			t.Fatalf("%q: unexpected error %s", source, err)
		}
		if Format(v) != expected {
			t.Fatalf("%q: got %s, expected %s", source, Format(v), expected)
		}
	}
}

func TestPersistentScope(t *testing.T) {
	in := New()
	scope := NewGlobalScope(&bytes.Buffer{})

	for i, source := range []string{"item total = 1", "total = total + 1", "oops(", "total"} {
		prog, err := parser.ParseSource(source, "", nil)
		if err != nil {
			if i != 2 {
				t.Fatalf("%q: %s", source, err)
			}
			continue
		}
		v, err := in.EvaluateProgram(prog, scope)
		if err != nil {
			t.Fatal(err)
		}
		if i == 3 && Format(v) != "2" {
			t.Fatalf("got %s", Format(v))
		}
	}
}

func TestNativeFailure(t *testing.T) {
	scope := NewGlobalScope(&bytes.Buffer{})
	err := scope.Declare("explode", &NativeFunction{
		Name: "explode",
		Fn: func(args []Value, _ *Scope) (Value, error) {
			return nil, fmt.Errorf("%d fuses lit", len(args))
		},
	}, true)
	if err != nil {
		t.Fatal(err)
	}

	prog, err := parser.ParseSource("explode(1, 2)", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New().EvaluateProgram(prog, scope)
	if kind, ok := errors.RuntimeKind(err); !ok || kind != errors.NativeFailure {
		t.Fatalf("got %v", err)
	}
	if err.Error() != "explode: 2 fuses lit" {
		t.Fatalf("got %q", err.Error())
	}
}
