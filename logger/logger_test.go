package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/hotelpipe/logger"
)

var _ = Describe("Logger", func() {
	var (
		log       *logger.LoggerImpl
		logOutput *bytes.Buffer
	)

	BeforeEach(func() {
		log = logger.NewLogger("test-service", "debug", true)
		log.SetJSONFormat()
		logOutput = bytes.NewBufferString("")
		log.SetOutput(logOutput)
	})

	decode := func() map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(logOutput.Bytes(), &actual)).To(Succeed())
		return actual
	}

	It("Should have `test-service` as service name", func() {
		log.Info("Testing")
		Expect(decode()["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		log.Info("Testing")
		Expect(decode()["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		log.Warn("Testing")
		Expect(decode()["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		log.Error("Testing")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should have `Testing` as msg", func() {
		log.Info("Testing")
		Expect(decode()["msg"]).To(Equal("Testing"))
	})

	It("Should carry fields added with WithField", func() {
		log.WithField("stage", "extract").Info("Testing")
		actual := decode()
		Expect(actual["stage"]).To(Equal("extract"))
		Expect(actual["service"]).To(Equal("test-service"))
	})

	It("Should not log below the configured level", func() {
		quiet := logger.NewLogger("test-service", "warn", false)
		quiet.SetJSONFormat()
		quiet.SetOutput(logOutput)
		quiet.Info("Testing")
		Expect(logOutput.Len()).To(Equal(0))
	})
})
