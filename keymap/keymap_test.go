package keymap_test

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-sql/civil"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/keymap"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/store"
	"github.com/relloyd/hotelpipe/stream"
)

var _ = Describe("Keymap", func() {
	var (
		ctx context.Context
		log logger.Logger
		mem *store.MemStore
	)

	upsert := func(table string, keys []string, recs ...stream.Record) {
		Expect(mem.Upsert(ctx, table, recs, keys)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		log = logger.NewLogger("hotelpipe-test", "error", true)
		mem = store.NewStarSchemaMemStore()
		upsert(c.TableHotels, model.HotelKeyColumns,
			model.HotelRow{HotelName: "City Hotel", MarketSegment: "Online TA", DistributionChannel: "TA/TO"}.Record(),
			model.HotelRow{HotelName: "Resort Hotel", MarketSegment: "Direct", DistributionChannel: "Direct"}.Record())
		upsert(c.TableDates, model.DateKeyColumns,
			model.DateRow{ArrivalDate: civil.Date{Year: 2015, Month: time.July, Day: 1}, ArrivalYear: 2015, ArrivalMonth: "July"}.Record())
		upsert(c.TableCustomers, model.CustomerKeyColumns,
			model.CustomerRow{Adults: 2, Children: 0, Babies: 0, CustomerType: "Transient", Country: "PRT"}.Record())
		upsert(c.TableAgents, model.AgentKeyColumns,
			model.AgentRow{AgentName: "9"}.Record(),
			model.AgentRow{AgentName: c.UnknownSentinel}.Record())
	})

	It("Should map every dimension after the upserts", func() {
		m, err := keymap.BuildAll(ctx, log, mem)
		Expect(err).ToNot(HaveOccurred())
		Expect(m.Counts()).To(Equal(map[string]int{
			c.TableHotels: 2, c.TableDates: 1, c.TableCustomers: 1, c.TableAgents: 2,
		}))
		id, ok := m.Hotels.Lookup(model.NewHotelKey("Resort Hotel", "Direct", "Direct"))
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(2)))
		_, ok = m.Hotels.Lookup(model.NewHotelKey("Resort Hotel", "Online TA", "TA/TO"))
		Expect(ok).To(BeFalse())
		id, ok = m.Agents.Lookup(model.NewAgentKey(model.NullInt{}))
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(2)))
	})

	It("Should agree with builder keys when the store returns JSON numbers", func() {
		mem.SelectTransform = func(column string, value interface{}) interface{} {
			switch v := value.(type) {
			case int64:
				return float64(v)
			case int:
				return float64(v)
			}
			if column == c.ColAgentName && value == "9" {
				return 9.0
			}
			return value
		}
		m, err := keymap.BuildAll(ctx, log, mem)
		Expect(err).ToNot(HaveOccurred())
		id, ok := m.Customers.Lookup(model.NewCustomerKey(2, 0, 0, "Transient", "PRT"))
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(1)))
		_, ok = m.Agents.Lookup(model.NewAgentKey(model.NewNullInt(9)))
		Expect(ok).To(BeTrue())
	})

	It("Should agree with builder keys when the store returns text and bytes", func() {
		mem.SelectTransform = func(column string, value interface{}) interface{} {
			if column == c.ColArrivalDate {
				return []byte(fmt.Sprint(value) + " 00:00:00")
			}
			return fmt.Sprint(value)
		}
		m, err := keymap.BuildAll(ctx, log, mem)
		Expect(err).ToNot(HaveOccurred())
		_, ok := m.Dates.Lookup(model.NewDateKey(civil.Date{Year: 2015, Month: time.July, Day: 1}))
		Expect(ok).To(BeTrue())
		_, ok = m.Customers.Lookup(model.NewCustomerKey(2, 0, 0, "Transient", "PRT"))
		Expect(ok).To(BeTrue())
	})

	It("Should accept dates returned as time.Time", func() {
		mem.SelectTransform = func(column string, value interface{}) interface{} {
			if column == c.ColArrivalDate {
				d, _ := civil.ParseDate(value.(string))
				return d.In(time.UTC)
			}
			return value
		}
		m, err := keymap.BuildDateMapping(ctx, log, mem)
		Expect(err).ToNot(HaveOccurred())
		_, ok := m.Lookup(model.NewDateKey(civil.Date{Year: 2015, Month: time.July, Day: 1}))
		Expect(ok).To(BeTrue())
	})

	It("Should reject non-integral numbers", func() {
		mem.SelectTransform = func(column string, value interface{}) interface{} {
			if column == c.ColAdults {
				return 2.5
			}
			return value
		}
		_, err := keymap.BuildCustomerMapping(ctx, log, mem)
		Expect(err).To(HaveOccurred())
	})

	It("Should keep the lowest id for duplicate natural keys", func() {
		mem.DefineTable(c.TableHotels, "", nil)
		dup := func(id int64) stream.Record {
			rec := model.HotelRow{HotelName: "City Hotel", MarketSegment: "Direct", DistributionChannel: "Direct"}.Record()
			rec.SetData(c.ColHotelId, id)
			return rec
		}
		Expect(mem.InsertBatch(ctx, c.TableHotels, []stream.Record{dup(7), dup(3), dup(5)})).To(Succeed())
		m, err := keymap.BuildHotelMapping(ctx, log, mem)
		Expect(err).ToNot(HaveOccurred())
		Expect(m.Len()).To(Equal(1))
		Expect(m.Duplicates()).To(Equal(2))
		id, _ := m.Lookup(model.NewHotelKey("City Hotel", "Direct", "Direct"))
		Expect(id).To(Equal(int64(3)))
	})

	It("Should return connection errors from the store", func() {
		mem.SelectHook = func(table string) error {
			return &store.ConnectionError{Op: "select", Target: table, Err: fmt.Errorf("refused")}
		}
		_, err := keymap.BuildAll(ctx, log, mem)
		Expect(store.IsConnectionError(err)).To(BeTrue())
	})
})
