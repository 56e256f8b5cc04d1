package main

import (
	"mirrorfeed/cmd/mirrorfeed/commands"
	"mirrorfeed/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
