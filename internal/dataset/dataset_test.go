package dataset

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadCSV_HeaderAndRows(t *testing.T) {
	csv := "region, sales ,units\nNorth,10,1\nSouth,20\n\nEast,,3\n"
	tbl, err := Load("sales.csv", strings.NewReader(csv), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(tbl.Columns, "|"); got != "region|sales|units" {
		t.Fatalf("unexpected columns: %s", got)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 rows (blank line skipped), got %d", len(tbl.Rows))
	}
	if tbl.Rows[1]["units"] != nil {
		t.Fatalf("short record should leave units nil, got %#v", tbl.Rows[1]["units"])
	}
	if !IsNull(tbl.Rows[2]["sales"]) {
		t.Fatalf("empty cell should be null")
	}
}

func TestLoadCSV_SniffsSemicolonAndTab(t *testing.T) {
	tbl, err := Load("data.csv", strings.NewReader("a;b\n1;2\n"), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Rows[0]["b"] != "2" {
		t.Fatalf("semicolon not detected: %#v", tbl)
	}
	tbl, err = Load("data.tsv", strings.NewReader("a\tb\n1\t2\n"), LoadOptions{})
	if err != nil {
		t.Fatalf("load tsv: %v", err)
	}
	if tbl.Rows[0]["a"] != "1" {
		t.Fatalf("tab not used for .tsv: %#v", tbl.Rows[0])
	}
}

func TestLoadCSV_MaxRowsTruncates(t *testing.T) {
	tbl, err := Load("x.csv", strings.NewReader("a\n1\n2\n3\n"), LoadOptions{MaxRows: 2})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl.Rows) != 2 || !tbl.Truncated {
		t.Fatalf("expected 2 rows and truncation, got %d truncated=%v", len(tbl.Rows), tbl.Truncated)
	}
}

func TestLoadCSV_DuplicateAndBlankHeaders(t *testing.T) {
	tbl, err := Load("x.csv", strings.NewReader("a,a,\n1,2,3\n"), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(tbl.Columns, "|"); got != "a|a_2|column_3" {
		t.Fatalf("unexpected header cleanup: %s", got)
	}
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("notes.pdf", strings.NewReader(""), LoadOptions{})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestLoadXLSX_FirstSheetAndNamedSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")
	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"city", "temp"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]any{"Lima", 19.5})
	_ = f.SetSheetRow("Sheet1", "A3", &[]any{"Quito", 14})
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	_ = f.SetSheetRow("Other", "A1", &[]any{"k"})
	_ = f.SetSheetRow("Other", "A2", &[]any{"v"})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	_ = f.Close()

	tbl, err := LoadFile(path, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("load xlsx: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0]["city"] != "Lima" {
		t.Fatalf("unexpected rows: %#v", tbl.Rows)
	}
	if v, ok := Float(tbl.Rows[0]["temp"]); !ok || v != 19.5 {
		t.Fatalf("expected numeric temp 19.5, got %#v", tbl.Rows[0]["temp"])
	}

	tbl, err = LoadFile(path, LoadOptions{Sheet: "Other"})
	if err != nil {
		t.Fatalf("load named sheet: %v", err)
	}
	if tbl.Columns[0] != "k" || tbl.Rows[0]["k"] != "v" {
		t.Fatalf("named sheet not used: %#v", tbl)
	}
	if _, err := LoadFile(path, LoadOptions{Sheet: "Missing"}); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
}

func TestFloatAndText(t *testing.T) {
	cases := []struct {
		in any
		ok bool
		f  float64
	}{
		{"3.5", true, 3.5},
		{" 42 ", true, 42},
		{"NaN", false, 0},
		{"abc", false, 0},
		{7, true, 7},
		{nil, false, 0},
	}
	for _, c := range cases {
		f, ok := Float(c.in)
		if ok != c.ok || (ok && f != c.f) {
			t.Fatalf("Float(%#v) = %v,%v want %v,%v", c.in, f, ok, c.f, c.ok)
		}
	}
	if Text(3.0) != "3" || Text(" a ") != "a" || Text(nil) != "" {
		t.Fatalf("unexpected Text rendering")
	}
}

func TestFromRowsSortsColumns(t *testing.T) {
	tbl := FromRows("api", []Row{{"b": 1}, {"a": 2}}, nil)
	if strings.Join(tbl.Columns, ",") != "a,b" {
		t.Fatalf("expected sorted union, got %v", tbl.Columns)
	}
	if !tbl.HasColumn("a") || tbl.HasColumn("c") {
		t.Fatalf("HasColumn mismatch")
	}
}
