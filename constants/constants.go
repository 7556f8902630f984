package constants

// General

const (
	ServiceName                 = "hotelpipe"
	EnvVarPrefix                = "HB" // prefix for environment variables in twelveFactorMode
	EmojiBang                   = "\U0001F4A5"
	TimeFormatYearSeconds       = "20060102T150405" // used for human readable file names
	TimeFormatYearSecondsRegex  = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	DateFormatIso               = "2006-01-02"
	DateFormatUs                = "1/2/2006"
	UnknownSentinel             = "Unknown"
	FactBatchSizeDefault        = 1000
	SqlTxtBatchNumRowsDefault   = 100
	MismatchSampleSizeDefault   = 3
	RestPageSizeDefault         = 1000
	ProgressLogFrequencyRows    = 1000
	RejectsFileMaxRowsDefault   = 100000
	RejectsFilePrefix           = "rejected_bookings"
	WebServerPortDefault        = 8080
	RunsListLimitDefault        = 20
	RerunPolicyReload           = "reload"
	RerunPolicyAppend           = "append"
	RunStatusCompleted          = "completed"
	RunStatusCompletedWithError = "completed_with_errors"
	RunStatusFailed             = "failed"
)

// Connection types.

const (
	ConnectionTypeMySql         = "mysql"
	ConnectionTypePostgres      = "postgres"
	ConnectionTypeSqlServer     = "sqlserver"
	ConnectionTypeOdbc          = "odbc" // this is not a real connection type, since we need a suffix to provide the driver name like sqlserver.
	ConnectionTypeOdbcSqlServer = "odbc+sqlserver"
	ConnectionTypeSnowflake     = "snowflake"
	ConnectionTypeNetezza       = "netezza"
	ConnectionTypeSqlite        = "sqlite3"
	ConnectionTypeMockSql       = "mockSql"
	ConnectionTypeRest          = "rest"
	ConnectionTypeMemory        = "memory"
	ConnectionTypeS3            = "s3"
)

// Star schema tables.

const (
	TableHotels    = "dim_hotels"
	TableDates     = "dim_dates"
	TableCustomers = "dim_customers"
	TableAgents    = "dim_agents"
	TableFacts     = "fact_bookings"
	TableRuns      = "etl_runs"
)

// Star schema columns.

const (
	ColHotelId                  = "hotel_id"
	ColHotelName                = "hotel_name"
	ColMarketSegment            = "market_segment"
	ColDistributionChannel      = "distribution_channel"
	ColDateId                   = "date_id"
	ColArrivalDate              = "arrival_date"
	ColArrivalYear              = "arrival_year"
	ColArrivalMonth             = "arrival_month"
	ColArrivalWeekNumber        = "arrival_week_number"
	ColArrivalDayOfMonth        = "arrival_day_of_month"
	ColCustomerId               = "customer_id"
	ColAdults                   = "adults"
	ColChildren                 = "children"
	ColBabies                   = "babies"
	ColCustomerType             = "customer_type"
	ColCountry                  = "country"
	ColAgentId                  = "agent_id"
	ColAgentName                = "agent_name"
	ColIsCanceled               = "is_canceled"
	ColLeadTime                 = "lead_time"
	ColStaysInWeekendNights     = "stays_in_weekend_nights"
	ColStaysInWeekNights        = "stays_in_week_nights"
	ColAdr                      = "adr"
	ColBookingChanges           = "booking_changes"
	ColDepositType              = "deposit_type"
	ColDaysInWaitingList        = "days_in_waiting_list"
	ColRequiredCarParkingSpaces = "required_car_parking_spaces"
	ColTotalOfSpecialRequests   = "total_of_special_requests"
	ColReservationStatus        = "reservation_status"
	ColReservationStatusDate    = "reservation_status_date"
	ColLoadRunId                = "load_run_id"
	ColRunId                    = "run_id"
	ColRunStatus                = "status"
	ColRunStartedAt             = "started_at"
	ColRunFinishedAt            = "finished_at"
	ColRunRowsRead              = "rows_read"
	ColRunFactsInserted         = "facts_inserted"
	ColRunFailedBatches         = "failed_batches"
	ColRunSummary               = "summary"
)
