package interp

import (
	"basic/internal/filemanager"
	"basic/internal/ifaces"
	"basic/internal/rtypes"
)

// Host bundles every collaborator the interpreter core consumes from its
// embedding process (§6.1). cmd/basic assembles the concrete
// implementations; tests wire small fakes instead.
type Host struct {
	Input    ifaces.InputSource
	Output   ifaces.OutputSink
	Screen   ifaces.Screen
	Stdlib   ifaces.Stdlib
	Clock    ifaces.Clock
	Keyboard ifaces.Keyboard
	Types    *rtypes.Registry
	Files    *filemanager.FileManager
}
