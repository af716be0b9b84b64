package reports

import (
	"bytes"
	"encoding/csv"
)

// RenderCSV writes one line per finding: severity,row,column,message.
func RenderCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"severity", "row", "column", "message"}); err != nil {
		return nil, err
	}
	if err := w.WriteAll(findingRows(r.Result)); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
