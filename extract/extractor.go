// Package extract reads the booking extract into de-duplicated canonical rows.
package extract

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/aws/s3"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
)

type Config struct {
	Log      logger.Logger `errorTxt:"logger" mandatory:"yes"`
	Source   string        `errorTxt:"source extract path or s3:// URL" mandatory:"yes"`
	Filter   string        // optional JSON Logic rule
	S3Region string        // defaults to $AWS_REGION
	S3Getter s3.Getter     // optional, used for s3:// sources instead of a new client
}

// Result holds the canonical rows in source order and the counts seen on the way.
type Result struct {
	Rows       []model.RawBookingRecord
	RowsRead   int
	Duplicates int
	Filtered   int
}

type Extractor struct {
	cfg    Config
	filter *Filter
}

func NewExtractor(cfg Config) (*Extractor, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, err
	}
	f, err := NewFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg, filter: f}, nil
}

// Extract opens the configured source and reads it.
func (e *Extractor) Extract(ctx context.Context) (*Result, error) {
	rc, err := openSource(&e.cfg)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	e.cfg.Log.Info("reading extract ", e.cfg.Source)
	return e.ExtractFrom(ctx, rc)
}

// ExtractFrom reads CSV from r. Any missing required column or unparseable value yields a
// *MalformedSourceError and no rows.
func (e *Extractor) ExtractFrom(ctx context.Context, r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MalformedSourceError{Missing: RequiredColumns}
	}
	if err != nil {
		return nil, &MalformedSourceError{Line: 1, Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &MalformedSourceError{Missing: missing}
	}
	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, &MalformedSourceError{Err: err}
	}
	res := &Result{}
	seen := make(map[model.RawBookingRecord]struct{})
	for {
		var src sourceRow
		if err := dec.Decode(&src); err == io.EOF {
			break
		} else if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &MalformedSourceError{Line: pe.Line, Err: pe.Err}
			}
			return nil, &MalformedSourceError{Err: err}
		}
		res.RowsRead++
		if res.RowsRead%c.ProgressLogFrequencyRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e.cfg.Log.Debug("extract rows read: ", res.RowsRead)
		}
		line, _ := cr.FieldPos(0)
		p := rowParser{line: line}
		row, perr := p.parse(&src)
		if perr != nil {
			return nil, perr
		}
		keep, err := e.filter.Keep(row)
		if err != nil {
			return nil, err
		}
		if !keep {
			res.Filtered++
			continue
		}
		if _, dup := seen[row]; dup {
			res.Duplicates++
			continue
		}
		seen[row] = struct{}{}
		res.Rows = append(res.Rows, row)
	}
	e.cfg.Log.Info("extract complete: rows read = ", res.RowsRead, ", filtered = ", res.Filtered,
		", duplicates = ", res.Duplicates, ", canonical rows = ", len(res.Rows))
	return res, nil
}
