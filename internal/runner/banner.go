package runner

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/wol/pkg/version"
)

const banner = `
                __
 _      ______ / /
| | /| / / __ \/ /
| |/ |/ / /_/ / /
|__/|__/\____/_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s  %s\n", banner, version.GetVersion())
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}
