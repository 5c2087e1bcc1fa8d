package vocab

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseJSONSeedDetailedFormat(t *testing.T) {
	data := []byte(`{
		"sundar": [["khoobsurat", "manohar"], 0.9, "easy", "adjective"],
		"khush": [["prasann", " anandit ", "prasann"], 1.0, 2, "emotion"]
	}`)

	entries, err := ParseJSONSeed(data)
	if err != nil {
		t.Fatalf("ParseJSONSeed returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Word != "sundar" || first.Category != "adjective" || first.Difficulty != "easy" || first.Confidence != 0.9 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if strings.Join(first.Synonyms, ",") != "khoobsurat,manohar" {
		t.Fatalf("unexpected first synonyms: %v", first.Synonyms)
	}
	second := entries[1]
	if second.Word != "khush" || second.Difficulty != "2" {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	if strings.Join(second.Synonyms, ",") != "prasann,anandit" {
		t.Fatalf("expected trimmed unique synonyms, got %v", second.Synonyms)
	}
}

func TestParseJSONSeedPlainFormat(t *testing.T) {
	entries, err := ParseJSONSeed([]byte(`{"bada": ["vishal", "vishaal"], "chhota": []}`))
	if err != nil {
		t.Fatalf("ParseJSONSeed returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Word != "bada" || len(entries[0].Synonyms) != 2 || entries[0].Confidence != DefaultConfidence {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if len(entries[1].Synonyms) != 0 {
		t.Fatalf("expected no synonyms for empty list, got %v", entries[1].Synonyms)
	}
}

func TestParseJSONSeedRejectsNonObject(t *testing.T) {
	if _, err := ParseJSONSeed([]byte(`["sundar"]`)); err == nil {
		t.Fatal("expected an error for a top-level array")
	}
	if _, err := ParseJSONSeed([]byte(`{"sundar": "khoobsurat"}`)); err == nil {
		t.Fatal("expected an error for a scalar value")
	}
}

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rune
	}{
		{"comma", "word,category,synonym\nsundar,adj,khoobsurat\n", ','},
		{"tab", "word\tcategory\tsynonym\nsundar\tadj\tkhoobsurat\n", '\t'},
		{"semicolon", "word;category;synonym\nsundar;adj;khoobsurat\n", ';'},
		{"single column", "sundar\nkhush\n", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectCSVDelimiter([]byte(tt.input))
			if got != tt.expected {
				t.Fatalf("expected %q delimiter, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseCSVSeed(t *testing.T) {
	data := "\xEF\xBB\xBF" + strings.Join([]string{
		"word;category;synonyms",
		"sundar;adjective;khoobsurat;manohar",
		"khush;;prasann",
		"bina;noun",
		";noun;missing-word",
		"bada;adjective;;",
	}, "\n")

	entries, skipped, err := ParseCSVSeed([]byte(data))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Word != "sundar" || entries[0].Category != "adjective" || len(entries[0].Synonyms) != 2 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Word != "khush" || entries[1].Category != "" || entries[1].Synonyms[0] != "prasann" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].Word != "bina" || entries[2].Category != "noun" || len(entries[2].Synonyms) != 0 {
		t.Fatalf("expected a word without synonyms, got %+v", entries[2])
	}
	if entries[3].Word != "bada" || len(entries[3].Synonyms) != 0 {
		t.Fatalf("expected empty synonym cells to be dropped, got %+v", entries[3])
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}
}

func TestParseXLSXSeed(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"word", "category", "synonym 1", "synonym 2"},
		{"sundar", "adjective", "khoobsurat", "manohar"},
		{"khush", "emotion", "prasann"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}

	entries, skipped, err := ParseXLSXSeed(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseXLSXSeed returned error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Word != "sundar" || strings.Join(entries[0].Synonyms, ",") != "khoobsurat,manohar" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Category != "emotion" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestParseSeedFileDispatch(t *testing.T) {
	entries, _, err := ParseSeedFile("words.JSON", []byte(`{"sundar": ["khoobsurat"]}`))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected json dispatch, got %v, %v", entries, err)
	}
	entries, _, err = ParseSeedFile("words.csv", []byte("sundar,,khoobsurat\n"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected csv dispatch, got %v, %v", entries, err)
	}
	if _, _, err := ParseSeedFile("words.pdf", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
