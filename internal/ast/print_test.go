package ast

import (
	"strings"
	"testing"

	"github.com/sunholo/lumen/internal/region"
)

func TestPrintRendersNodeKindAndFields(t *testing.T) {
	f := NewFile("test.lm")
	name := f.Idents.Intern("x")
	idx := f.NewExpr(&VarExpr{Base: Base{R: region.New(0, 1)}, Name: name})
	f.TopLevel = append(f.TopLevel, f.NewStmt(&ExpectStmt{Base: Base{R: region.New(0, 1)}, Expr: idx}))

	out := Print(f)
	if !strings.Contains(out, "VarExpr") {
		t.Errorf("output missing VarExpr kind tag: %s", out)
	}
	if !strings.Contains(out, "ExpectStmt") {
		t.Errorf("output missing ExpectStmt kind tag: %s", out)
	}
}

func TestPrintIsDeterministicAcrossCalls(t *testing.T) {
	f := NewFile("test.lm")
	f.NewExpr(&IntLit{Base: Base{R: region.New(0, 1)}, Text: "1"})

	a := Print(f)
	b := Print(f)
	if a != b {
		t.Fatalf("Print is not deterministic:\n%s\n---\n%s", a, b)
	}
}

func TestCompactOmitsIndentation(t *testing.T) {
	f := NewFile("test.lm")
	f.NewExpr(&BoolLit{Base: Base{R: region.New(0, 4)}, Value: true})

	if strings.Contains(Compact(f), "\n") {
		t.Fatal("Compact output should not contain newlines")
	}
}

func TestPrintNilFile(t *testing.T) {
	if Print(nil) != "null" {
		t.Fatalf("expected \"null\" for nil file, got %q", Print(nil))
	}
}
