package logs

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetTagsSubsystem(t *testing.T) {
	entry := Get(SubsystemTangle)

	got, ok := entry.Data["subsystem"]
	if !ok || got != SubsystemTangle {
		t.Fatalf("subsystem field = %v, %v, want %q", got, ok, SubsystemTangle)
	}
}

func TestSetLevel(t *testing.T) {
	SetLevel(logrus.DebugLevel)
	defer SetLevel(logrus.InfoLevel)

	if base.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", base.GetLevel())
	}
}
