package file

import (
	"strings"

	"github.com/relloyd/hotelpipe/fact"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
)

// ColUnresolved is the extra rejects column naming the gaps of each row.
const ColUnresolved = "unresolved"

// RejectsWriter writes rows excluded from the facts to rotating CSV files,
// one line per row with the source columns followed by the unresolved keys.
type RejectsWriter struct {
	out *CSVFileOutput
}

// NewRejectsWriter writes files named <prefix>_NNNNNN.csv[.gz] to directory.
func NewRejectsWriter(log logger.Logger, directory string, prefix string, maxFileRows int, useGzip bool) (*RejectsWriter, error) {
	out, err := NewCSVFileOutput(log, directory, prefix, "csv", maxFileRows, 0, useGzip)
	if err != nil {
		return nil, err
	}
	out.SetHeader(append(append([]string{}, model.SourceColumns...), ColUnresolved))
	return &RejectsWriter{out: out}, nil
}

func (w *RejectsWriter) WriteRejections(rejections []fact.Rejection) error {
	for _, r := range rejections {
		values := r.Row.SourceValues()
		record := make([]string, 0, len(model.SourceColumns)+1)
		for _, col := range model.SourceColumns {
			record = append(record, helper.GetStringFromInterface(values[col]))
		}
		gaps := make([]string, len(r.Gaps))
		for i, g := range r.Gaps {
			gaps[i] = g.Dimension + "=" + g.Key
		}
		record = append(record, strings.Join(gaps, "; "))
		if _, err := w.out.WriteToCSV(record); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the names of the files written so far.
func (w *RejectsWriter) Files() []string {
	return w.out.ListOfOutputFiles
}

func (w *RejectsWriter) Close() error {
	return w.out.Close()
}
