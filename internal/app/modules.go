package app

import (
	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/modules/helpers/basic"
	"github.com/mwnorman/pluginspi/modules/helpers/valued"
	"github.com/mwnorman/pluginspi/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the pluginspi binary. A module only becomes discoverable once its marker
// file is on the search path.
var coreModules = []loader.Module{
	&basic.Module{},
	&valued.Module{},
	&socketio.Module{},
}
