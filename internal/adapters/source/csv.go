package source

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/okian/alurastore/internal/domain/sales"
)

// ReadTable parses r as CSV whose first record is the header.
// Header cells are cleaned of surrounding whitespace and a leading BOM.
func ReadTable(r io.Reader) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	// Row width is checked by the consolidator, which can name the store.
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, sales.ErrEmptySource
	}
	if err != nil {
		return nil, nil, err
	}
	header = sales.CleanHeader(header)

	rows, err = reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}
