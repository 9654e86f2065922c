// Package logs provides the subsystem-tagged logging backend used
// throughout the node: a logrus logger keyed by a four-letter
// subsystem tag, with optional rotating file output.
package logs

import (
	"io"
	"os"

	"github.com/jrick/logrotate/rotator"
	"github.com/sirupsen/logrus"
)

// Subsystem tags, one per long-lived component.
const (
	SubsystemTangle   = "TNGL"
	SubsystemProtocol = "PROT"
	SubsystemNetAdapt = "NETA"
	SubsystemRequest  = "REQU"
	SubsystemSender   = "SEND"
	SubsystemMain     = "MAIN"
)

var (
	base        = logrus.New()
	fileRotator *rotator.Rotator
)

// InitLogRotator wires a rotating log file, together with stdout, as
// the output behind the subsystem loggers. Every subsystem logger
// shares one backend, so loggers obtained before the call also write to
// the file afterwards; lines logged before the call go to logrus's
// default output (stderr) only.
func InitLogRotator(logFile string, maxRolls int) error {
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return err
	}
	fileRotator = r
	base.SetOutput(io.MultiWriter(os.Stdout, fileRotator))
	return nil
}

// Close releases the log rotator, if one was initialized.
func Close() error {
	if fileRotator == nil {
		return nil
	}
	return fileRotator.Close()
}

// Get returns the logger for the given subsystem tag.
func Get(subsystem string) *logrus.Entry {
	return base.WithField("subsystem", subsystem)
}

// SetLevel sets the logging verbosity for every subsystem.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}
