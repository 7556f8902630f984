package actions

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/store"
	"golang.org/x/net/context"
)

type WebServerConfig struct {
	LogLevel         string           `errorTxt:"log level" mandatory:"yes"`
	Scheme           string           `errorTxt:"scheme" mandatory:"no"`
	Addr             net.IP           `errorTxt:"address" mandatory:"no"`
	Port             int              `errorTxt:"port" mandatory:"no"`
	Connections      ConnectionLoader `errorTxt:"connections" mandatory:"yes"`
	Target           ConnectionObject
	RunsLimit        int
	StackDumpOnPanic bool
}

// RunWebServer serves the read API over the target store until /stop is requested or SIGINT arrives.
func RunWebServer(web *WebServerConfig) error {
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	if err := helper.ValidateStructIsPopulated(web); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, web.LogLevel, web.StackDumpOnPanic)
	s, err := openTarget(log, web.Connections, &web.Target, store.OpenOptions{})
	if err != nil {
		return err
	}
	defer s.Close()
	srv, chanStopServer := runServer(log, web, s)
	return waitForServer(log, srv, chanStopServer)
}

// NewRouter returns the routes of the read API. A request to /stop sends on chanStop.
func NewRouter(log logger.Logger, sel store.Selector, chanStop chan string, runsLimit int) *mux.Router {
	r := mux.NewRouter()
	r.Path("/health").Methods(http.MethodGet).HandlerFunc(GetHandlerHealth(log))
	r.Path("/stop").Methods(http.MethodPost).HandlerFunc(GetHandlerStopServer(log, chanStop))
	r.Path("/reports/monthly").Methods(http.MethodGet).HandlerFunc(GetHandlerMonthlyBookings(log, sel))
	r.Path("/reports/kpis").Methods(http.MethodGet).HandlerFunc(GetHandlerKPIs(log, sel))
	r.Path("/runs").Methods(http.MethodGet).HandlerFunc(GetHandlerRuns(log, sel, runsLimit))
	return r
}

// runServer starts a web server and returns it with a channel that can be used to stop it.
func runServer(log logger.Logger, web *WebServerConfig, sel store.Selector) (*http.Server, chan string) {
	chanStopServer := make(chan string, 1)
	if web.Port == 0 {
		web.Port = constants.WebServerPortDefault
	}
	if web.RunsLimit == 0 {
		web.RunsLimit = constants.RunsListLimitDefault
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      NewRouter(log, sel, chanStopServer, web.RunsLimit),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Error(err)
				chanStopServer <- "error"
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, chanStopServer
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string) error {
	// Graceful shutdown on SIGINT; other signals are not caught.
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt)
	defer signal.Stop(chanOS)
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	log.Info("Shutting down web server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	return srv.Shutdown(ctx)
}
