// register.go installs SteinerRouter as the lattice package's default router
// (NewRouterFunc). Blank-import lattice/routing wherever a Scheduler is built;
// lattice's own tests do so in register_import_test.go.
package routing

import "github.com/lattice-surgery/lsqecc/lattice"

func init() {
	lattice.NewRouterFunc = func() lattice.Router {
		return NewSteinerRouter()
	}
}
