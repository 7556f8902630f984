package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/stream"
)

const restPath = "/rest/v1"

type RestStoreConfig struct {
	Log      logger.Logger `errorTxt:"logger" mandatory:"yes"`
	BaseURL  string        `errorTxt:"REST base URL" mandatory:"yes"`
	APIKey   string        `errorTxt:"REST API key" mandatory:"yes"`
	Schema   string        // sent as Accept-Profile/Content-Profile when set
	PageSize int
	Client   *http.Client
	// TruncateFilterColumns names a non-null column per table used to delete all rows,
	// since table resources refuse unfiltered deletes.
	TruncateFilterColumns map[string]string
}

// RestStore implements Store and Truncater over PostgREST style table resources such as Supabase.
type RestStore struct {
	log           logger.Logger
	baseURL       string
	apiKey        string
	schema        string
	pageSize      int
	client        *http.Client
	truncateByCol map[string]string
}

func NewRestStore(cfg RestStoreConfig) (*RestStore, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, err
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "invalid REST base URL")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = c.RestPageSizeDefault
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.TruncateFilterColumns == nil {
		cfg.TruncateFilterColumns = map[string]string{c.TableFacts: c.ColHotelId}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasSuffix(base, restPath) {
		base += restPath
	}
	return &RestStore{
		log:           cfg.Log,
		baseURL:       base,
		apiKey:        cfg.APIKey,
		schema:        cfg.Schema,
		pageSize:      cfg.PageSize,
		client:        cfg.Client,
		truncateByCol: cfg.TruncateFilterColumns,
	}, nil
}

func (s *RestStore) tableURL(table string, q url.Values) string {
	u := s.baseURL + "/" + url.PathEscape(table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *RestStore) newRequest(ctx context.Context, method string, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if s.schema != "" {
		req.Header.Set("Accept-Profile", s.schema)
		req.Header.Set("Content-Profile", s.schema)
	}
	return req, nil
}

// do sends req and returns the body of a 2xx response.
// Transport failures are ConnectionErrors; other statuses are returned as plain errors.
func (s *RestStore) do(req *http.Request, op string, table string) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ConnectionError{Op: op, Target: table, Err: err}
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Op: op, Target: table, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%v %v returned status %v: %v", req.Method, table, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (s *RestStore) post(ctx context.Context, table string, rows []stream.Record, q url.Values, prefer string) error {
	if len(rows) == 0 {
		return nil
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
	}
	req, err := s.newRequest(ctx, http.MethodPost, s.tableURL(table, q), bytes.NewReader(payload))
	if err != nil {
		return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
	}
	req.Header.Set("Prefer", prefer)
	if _, err = s.do(req, "write", table); err != nil {
		if IsConnectionError(err) {
			return err
		}
		return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
	}
	s.log.Debug("posted ", len(rows), " rows to ", table)
	return nil
}

func (s *RestStore) Upsert(ctx context.Context, table string, rows []stream.Record, conflictKeys []string) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := conflictSplit(rows[0].Fields(), conflictKeys); err != nil {
		return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
	}
	q := url.Values{}
	q.Set("on_conflict", strings.Join(conflictKeys, ","))
	return s.post(ctx, table, rows, q, "resolution=merge-duplicates,return=minimal")
}

func (s *RestStore) InsertBatch(ctx context.Context, table string, rows []stream.Record) error {
	return s.post(ctx, table, rows, nil, "return=minimal")
}

// Select pages through the table ordered by its first column.
func (s *RestStore) Select(ctx context.Context, table string, columns []string) ([]stream.Record, error) {
	retval := make([]stream.Record, 0)
	for offset := 0; ; offset += s.pageSize {
		q := url.Values{}
		q.Set("select", strings.Join(columns, ","))
		q.Set("order", columns[0])
		q.Set("limit", strconv.Itoa(s.pageSize))
		q.Set("offset", strconv.Itoa(offset))
		req, err := s.newRequest(ctx, http.MethodGet, s.tableURL(table, q), nil)
		if err != nil {
			return nil, err
		}
		body, err := s.do(req, "select", table)
		if err != nil {
			return nil, err
		}
		var page []map[string]interface{}
		if err = json.Unmarshal(body, &page); err != nil {
			return nil, errors.Wrapf(err, "unable to decode rows of %v", table)
		}
		for _, row := range page {
			rec := stream.NewRecord()
			for _, col := range columns {
				v, ok := row[col]
				if !ok {
					return nil, fmt.Errorf("column %q missing from rows of %v", col, table)
				}
				rec.SetData(col, v)
			}
			retval = append(retval, rec)
		}
		if len(page) < s.pageSize {
			break
		}
	}
	s.log.Debug("read ", len(retval), " rows from ", table)
	return retval, nil
}

func (s *RestStore) Truncate(ctx context.Context, table string) error {
	col, ok := s.truncateByCol[table]
	if !ok {
		return fmt.Errorf("no truncate filter column configured for %v", table)
	}
	q := url.Values{}
	q.Set(col, "not.is.null")
	req, err := s.newRequest(ctx, http.MethodDelete, s.tableURL(table, q), nil)
	if err != nil {
		return err
	}
	_, err = s.do(req, "truncate", table)
	return err
}

func (s *RestStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
