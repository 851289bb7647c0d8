package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/christopherklint97/pontaj/internal/report"
)

func writeCSV(w io.Writer, rep report.Report) error {
	cw := csv.NewWriter(w)
	for _, row := range table(rep) {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = cellText(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
