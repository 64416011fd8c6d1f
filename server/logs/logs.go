/******************************************************************************
 *
 *  Description :
 *    Package exposes info, warning and error loggers.
 *
 *****************************************************************************/
package logs

import (
	"io"
	"log"
	"os"
)

var (
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

// Init sets up the three leveled loggers. A nil writer means stdout.
func Init(out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	Info = log.New(out, "I", log.LstdFlags|log.Lshortfile)
	Warning = log.New(out, "W", log.LstdFlags|log.Lshortfile)
	Error = log.New(out, "E", log.LstdFlags|log.Lshortfile)
}
