// Copyright 2023 GreyXor. All rights reserved.
// Mount of this source code is governed by a MIT license that can be found
// at https://gitlab.com/greyxor/slogor/-/blob/main/LICENSE?ref_type=heads.

package ansi

import (
	"os"

	"golang.org/x/sys/windows"
)

// init enables virtual terminal processing on the standard output and error consoles, which the pretty
// handler writes to depending on the record level.
func init() {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		enableVirtualTerminal(windows.Handle(f.Fd()))
	}
}

func enableVirtualTerminal(h windows.Handle) {
	var mode uint32
	// Not a console, e.g. redirected to a file.
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return
	}
	// See https://learn.microsoft.com/en-us/windows/console/setconsolemode
	_ = windows.SetConsoleMode(h, mode|windows.ENABLE_PROCESSED_OUTPUT|
		windows.ENABLE_WRAP_AT_EOL_OUTPUT|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
