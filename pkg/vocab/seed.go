package vocab

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// SeedEntry is one word with its accepted synonyms, as read from a seed file.
type SeedEntry struct {
	Word       string
	Category   string
	Synonyms   []string
	Confidence float64
	Difficulty string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// ParseSeedFile picks a parser from the file extension. The int result is
// the number of rows that were skipped as unusable.
func ParseSeedFile(name string, data []byte) ([]SeedEntry, int, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		entries, err := ParseJSONSeed(data)
		return entries, 0, err
	case ".csv", ".tsv", ".txt":
		return ParseCSVSeed(data)
	case ".xlsx":
		return ParseXLSXSeed(data)
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ParseJSONSeed reads an object keyed by word. Values are either a plain
// synonym list or [synonyms, confidence, difficulty, category]. Entries keep
// the order of the document.
func ParseJSONSeed(data []byte) ([]SeedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("seed must be a JSON object keyed by word")
	}

	var entries []SeedEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read seed key: %w", err)
		}
		word, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("read seed value for %q: %w", word, err)
		}
		entry, err := parseJSONEntry(strings.TrimSpace(word), raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return entries, nil
}

func parseJSONEntry(word string, raw json.RawMessage) (SeedEntry, error) {
	entry := SeedEntry{Word: word, Confidence: DefaultConfidence}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return entry, fmt.Errorf("seed value for %q must be an array: %w", word, err)
	}
	if len(parts) == 0 {
		return entry, nil
	}

	var detailed []string
	if err := json.Unmarshal(parts[0], &detailed); err != nil {
		// Plain list of synonyms.
		var synonyms []string
		if err := json.Unmarshal(raw, &synonyms); err != nil {
			return entry, fmt.Errorf("seed value for %q: %w", word, err)
		}
		entry.Synonyms = cleanSynonyms(synonyms)
		return entry, nil
	}

	entry.Synonyms = cleanSynonyms(detailed)
	if len(parts) > 1 {
		var confidence float64
		if err := json.Unmarshal(parts[1], &confidence); err == nil && confidence > 0 && confidence <= 1 {
			entry.Confidence = confidence
		}
	}
	if len(parts) > 2 {
		entry.Difficulty = scalarString(parts[2])
	}
	if len(parts) > 3 {
		entry.Category = scalarString(parts[3])
	}
	return entry, nil
}

func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func cleanSynonyms(values []string) []string {
	trimmed := lo.Map(values, func(v string, _ int) string {
		return strings.TrimSpace(v)
	})
	return lo.Uniq(lo.Filter(trimmed, func(v string, _ int) bool {
		return v != ""
	}))
}

// ParseCSVSeed reads word,category,synonym... rows. The delimiter is
// detected among comma, tab and semicolon, and a leading header row is
// skipped. Rows without synonyms still add the word.
func ParseCSVSeed(data []byte) ([]SeedEntry, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectCSVDelimiter(data)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	entries, skipped := entriesFromRecords(records)
	return entries, skipped, nil
}

// ParseXLSXSeed reads the same layout as ParseCSVSeed from the first sheet
// of a workbook.
func ParseXLSXSeed(data []byte) ([]SeedEntry, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	entries, skipped := entriesFromRecords(rows)
	return entries, skipped, nil
}

func entriesFromRecords(records [][]string) ([]SeedEntry, int) {
	var entries []SeedEntry
	skipped := 0
	checkedHeader := false

	for _, record := range records {
		if isEmptyRecord(record) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(record) {
				continue
			}
		}
		word := strings.TrimSpace(record[0])
		if word == "" {
			skipped++
			continue
		}
		entry := SeedEntry{Word: word, Confidence: DefaultConfidence}
		if len(record) > 1 {
			entry.Category = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			entry.Synonyms = cleanSynonyms(record[2:])
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', ';'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

// scoreDelimiter counts how many sampled records agree on the most common
// field count, ignoring single-field records.
func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	counts := make(map[int]int)
	for seen := 0; seen < maxRecords; {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyRecord(record) {
			continue
		}
		seen++
		if len(record) > 1 {
			counts[len(record)]++
		}
	}
	return lo.Max(lo.Values(counts)), nil
}

func isEmptyRecord(record []string) bool {
	return !lo.SomeBy(record, func(field string) bool {
		return strings.TrimSpace(field) != ""
	})
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	second := strings.ToLower(strings.TrimSpace(record[1]))
	return lo.Contains([]string{"word", "hindi_word"}, first) &&
		lo.Contains([]string{"category", "topic"}, second)
}
