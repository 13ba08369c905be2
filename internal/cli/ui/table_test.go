package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"NAME", "MODE", "MEMBERS"}, &TableOptions{NoColor: true})
	table.AddRow("Order", "contract", "3")
	table.AddRow("Customer`DynamicProxy", "proxy")

	table.Render()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "NAME                   MODE      MEMBERS" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], strings.Repeat("─", 21)+"  ") {
		t.Errorf("unexpected rule %q", lines[1])
	}
	if lines[2] != "Order                  contract  3" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if lines[3] != "Customer`DynamicProxy  proxy" {
		t.Errorf("missing cells should render empty, got %q", lines[3])
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}
}

func TestTableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, nil, nil)
	table.AddRow("ignored")
	table.Render()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPadRightCountsRunes(t *testing.T) {
	if got := padRight("né", 4); got != "né  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("long", 2); got != "long" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Type", "Order`DynamicContract")
	kv.AddRow("Storage", "struct { Quantity int }")
	kv.Render()

	want := "Type:     Order`DynamicContract\nStorage:  struct { Quantity int }\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Contracts", true)

	if buf.String() != "Contracts\n═════════\n" {
		t.Errorf("unexpected header %q", buf.String())
	}
}
