package display

import (
	"fmt"
	"os"

	"github.com/backmassage/csvmerge/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Cyan if colors are enabled.
func PrintBanner() {
	if logging.Cyan != "" {
		fmt.Fprint(os.Stdout, "\033[1;96m")
	}
	fmt.Fprint(os.Stdout, `
  ___ _____   ___ __ ___   ___ _ __ __ _  ___
 / __/ __\ \ / / '_ ` + "`" + ` _ \ / _ \ '__/ _` + "`" + ` |/ _ \
| (__\__ \\ V /| | | | | |  __/ | | (_| |  __/
 \___|___/ \_/ |_| |_| |_|\___|_|  \__, |\___|
                                   |___/
`)
	if logging.Cyan != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
