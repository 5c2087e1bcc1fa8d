package vocab

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/smith3v/tg-word-tutor/pkg/db"
)

// BuildExportCSV writes words in the layout ParseCSVSeed reads back: a
// header, then word,category,synonym... per row.
func BuildExportCSV(words []db.Word) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true
	if err := writer.Write([]string{"word", "category", "synonyms"}); err != nil {
		return nil, err
	}
	for _, word := range words {
		synonyms := lo.Map(word.Synonyms, func(s db.Synonym, _ int) string {
			return s.Text
		})
		if err := writer.Write(append([]string{word.Text, word.Category}, synonyms...)); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("vocabulary-%s.csv", now.Format("20060102"))
}
