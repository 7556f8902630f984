// Package keymap reads persisted dimension rows back into natural key to surrogate key mappings.
// Keys are derived with the same constructors the dimension builder uses, so values that took a
// different shape on the way through the store (JSON floats, text, bytes) still match.
package keymap

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/store"
)

// Mapping resolves natural keys of one dimension to surrogate ids.
type Mapping[K comparable] struct {
	table      string
	ids        map[K]int64
	duplicates int
}

func (m *Mapping[K]) Lookup(k K) (int64, bool) {
	id, ok := m.ids[k]
	return id, ok
}

func (m *Mapping[K]) Len() int {
	return len(m.ids)
}

func (m *Mapping[K]) Table() string {
	return m.table
}

// Duplicates is the number of stored rows whose natural key was already mapped.
func (m *Mapping[K]) Duplicates() int {
	return m.duplicates
}

// BuildMapping selects idColumn and keyColumns from table, decodes each row into R and keys it by keyOf.
// When the store holds more than one row per natural key the lowest id wins.
func BuildMapping[K comparable, R any](ctx context.Context, log logger.Logger, sel store.Selector, table string, idColumn string, keyColumns []string, keyOf func(R) K) (*Mapping[K], error) {
	columns := append([]string{idColumn}, keyColumns...)
	recs, err := sel.Select(ctx, table, columns)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %v", table)
	}
	m := &Mapping[K]{table: table, ids: make(map[K]int64, len(recs))}
	for idx, rec := range recs {
		id, err := toInt64(rec.GetData(idColumn))
		if err != nil {
			return nil, fmt.Errorf("row %d of %v has a bad %v: %w", idx+1, table, idColumn, err)
		}
		var row R
		if err = decodeRecord(rec, &row); err != nil {
			return nil, fmt.Errorf("row %d of %v could not be decoded: %w", idx+1, table, err)
		}
		k := keyOf(row)
		if existing, ok := m.ids[k]; ok {
			m.duplicates++
			log.Warn("duplicate natural key ", k, " in ", table, " with ids ", existing, " and ", id)
			if id > existing {
				continue
			}
		}
		m.ids[k] = id
	}
	if m.duplicates > 0 {
		log.Warn(table, " holds ", m.duplicates, " rows with duplicate natural keys; the lowest ids are used")
	}
	log.Debug("mapped ", len(m.ids), " keys from ", len(recs), " rows of ", table)
	return m, nil
}

func BuildHotelMapping(ctx context.Context, log logger.Logger, sel store.Selector) (*Mapping[model.HotelKey], error) {
	return BuildMapping(ctx, log, sel, c.TableHotels, c.ColHotelId, model.HotelKeyColumns, model.HotelRow.Key)
}

func BuildDateMapping(ctx context.Context, log logger.Logger, sel store.Selector) (*Mapping[model.DateKey], error) {
	return BuildMapping(ctx, log, sel, c.TableDates, c.ColDateId, model.DateKeyColumns, model.DateRow.Key)
}

func BuildCustomerMapping(ctx context.Context, log logger.Logger, sel store.Selector) (*Mapping[model.CustomerKey], error) {
	return BuildMapping(ctx, log, sel, c.TableCustomers, c.ColCustomerId, model.CustomerKeyColumns, model.CustomerRow.Key)
}

func BuildAgentMapping(ctx context.Context, log logger.Logger, sel store.Selector) (*Mapping[model.AgentKey], error) {
	return BuildMapping(ctx, log, sel, c.TableAgents, c.ColAgentId, model.AgentKeyColumns, model.AgentRow.Key)
}

// Mappings holds one Mapping per dimension.
type Mappings struct {
	Hotels    *Mapping[model.HotelKey]
	Dates     *Mapping[model.DateKey]
	Customers *Mapping[model.CustomerKey]
	Agents    *Mapping[model.AgentKey]
}

// BuildAll reads every dimension. Call it only after the dimension upserts have completed.
func BuildAll(ctx context.Context, log logger.Logger, sel store.Selector) (retval *Mappings, err error) {
	retval = &Mappings{}
	if retval.Hotels, err = BuildHotelMapping(ctx, log, sel); err != nil {
		return nil, err
	}
	if retval.Dates, err = BuildDateMapping(ctx, log, sel); err != nil {
		return nil, err
	}
	if retval.Customers, err = BuildCustomerMapping(ctx, log, sel); err != nil {
		return nil, err
	}
	if retval.Agents, err = BuildAgentMapping(ctx, log, sel); err != nil {
		return nil, err
	}
	return retval, nil
}

// Counts returns the number of mapped keys per dimension table.
func (m *Mappings) Counts() map[string]int {
	return map[string]int{
		m.Hotels.Table():    m.Hotels.Len(),
		m.Dates.Table():     m.Dates.Len(),
		m.Customers.Table(): m.Customers.Len(),
		m.Agents.Table():    m.Agents.Len(),
	}
}
