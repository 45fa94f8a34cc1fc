package priceupdate

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Row
	}{
		{
			name:    "header is dropped",
			content: "sku;price;old_price\nA-100;100;120\n",
			want:    []Row{{SKU: "A-100", Price: 100, OldPrice: 120}},
		},
		{
			name:    "quoted field with embedded delimiter",
			content: "sku;price;old_price\r\n\"A;100\";100;120\r\n",
			want:    []Row{{SKU: "A;100", Price: 100, OldPrice: 120}},
		},
		{
			name:    "short and unparseable rows are skipped",
			content: "sku;price;old_price\nA-100;100\nB-200;abc;120\nC-300;300;350\n",
			want:    []Row{{SKU: "C-300", Price: 300, OldPrice: 350}},
		},
		{
			name:    "header only",
			content: "sku;price;old_price\n",
			want:    nil,
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCSV([]byte(tt.content))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCSV(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestParseCSVWindows1251(t *testing.T) {
	// "Тест" in Windows-1251
	content := append([]byte("sku;price;old_price\r\n"), 0xD2, 0xE5, 0xF1, 0xF2)
	content = append(content, []byte(";100;120\r\n")...)

	got := ParseCSV(content)
	want := []Row{{SKU: "Тест", Price: 100, OldPrice: 120}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV(cp1251) = %v, want %v", got, want)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"sku", "price", "old_price"},
		{"A-100", 100, 120},
		{"B-200", "bad", 120},
		{"C-300", 300, 350},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseXLSX(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseXLSX() error = %v", err)
	}
	want := []Row{
		{SKU: "A-100", Price: 100, OldPrice: 120},
		{SKU: "C-300", Price: 300, OldPrice: 350},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseXLSX() = %v, want %v", got, want)
	}
}

func TestParseXLSXRejectsGarbage(t *testing.T) {
	if _, err := ParseXLSX([]byte("not a zip archive")); err == nil {
		t.Error("ParseXLSX(garbage) expected error, got nil")
	}
}

func TestParseFileDispatch(t *testing.T) {
	rows, err := ParseFile("export.csv", []byte("sku;price;old_price\nA;10;20\n"))
	if err != nil {
		t.Fatalf("ParseFile(csv) error = %v", err)
	}
	if len(rows) != 1 || rows[0].SKU != "A" {
		t.Errorf("ParseFile(csv) = %v, want one row with sku A", rows)
	}

	if _, err := ParseFile("export.XLSX", []byte("not a zip")); err == nil {
		t.Error("ParseFile(.XLSX garbage) expected spreadsheet error, got nil")
	}
}
