package tui

import (
	"github.com/dm/pcpulse/internal/model"
)

// SnapshotMsg delivers a published sample to the TUI.
type SnapshotMsg struct {
	Snapshot model.Snapshot
}
