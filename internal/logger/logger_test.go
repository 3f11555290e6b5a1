package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	log, err := NewLogger()
	suite.NoError(err)
	suite.Require().NotNil(log)
	suite.NotNil(log.Logger)
}

func (suite *LoggerTestSuite) TestSyncNilInnerLogger() {
	log := &Logger{Logger: nil}

	suite.NoError(log.Sync())
}

func (suite *LoggerTestSuite) TestStructuredLogging() {
	log, err := NewLogger()
	suite.Require().NoError(err)

	// None of these should panic.
	log.Info("backtest started", zap.String("strategy", "BuyAndHold"))
	log.Debug("trade executed", zap.Float64("quantity", 950))
	log.Warn("trade rejected")
	log.Error("period failed")

	// Sync can fail on stdout depending on the platform; it must not panic.
	_ = log.Sync()
}
