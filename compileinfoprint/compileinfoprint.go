// compileinfoprint is imported for the side effect of printing the compileinfo
// to os.Stderr before any output is produced.
package compileinfoprint

import (
	"os"

	"github.com/carbocation/twinstudy/compileinfo"
)

func init() {
	compileinfo.Fprint(os.Stderr)
}
