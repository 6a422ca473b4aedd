package arweave

import (
	"github.com/warp-contracts/arns/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// Resty logger writing everything at trace level.
// Failed requests are reported by the callers anyway.
type Logger struct {
	log *logrus.Entry
}

func NewLogger(tag string) (self *Logger) {
	self = new(Logger)
	self.log = logger.NewSublogger(tag + "-resty")
	return
}

func (self *Logger) Errorf(format string, v ...any) {
	self.log.Tracef(format, v...)
}

func (self *Logger) Warnf(format string, v ...any) {
	self.log.Tracef(format, v...)
}

func (self *Logger) Debugf(format string, v ...any) {
	self.log.Tracef(format, v...)
}
