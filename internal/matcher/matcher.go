// Package matcher selects, from resolved manifests, the provided types that
// implement a requested capability contract.
package matcher

import (
	"context"
	"reflect"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/model"
)

// Match returns every provided type, in manifest order, that declares
// contract and whose instances implement it.
//
// The declaration check is an identity check against the descriptor's
// contract set. A type declaring the contract without implementing it is
// logged and skipped.
func Match(ctx context.Context, contract reflect.Type, manifests []*model.Manifest) []*loader.TypeDescriptor {
	logger := ctxlog.FromContext(ctx)

	if contract == nil || contract.Kind() != reflect.Interface {
		logger.Error("Requested contract is not an interface type", "contract", contract)
		return nil
	}

	var matches []*loader.TypeDescriptor
	for _, m := range manifests {
		for _, td := range m.Provides {
			if !td.Declares(contract) {
				ctxlog.Trace(ctx, "Provided type does not declare contract", "type", td.QualifiedName(), "contract", contract.String())
				continue
			}
			if !td.Satisfies(contract) {
				logger.Error("Provided type declares a contract it does not implement",
					"type", td.QualifiedName(), "contract", contract.String(), "manifest", m.Symbol)
				continue
			}
			matches = append(matches, td)
		}
	}

	logger.Debug("Matched provided types against contract", "contract", contract.String(), "matches", len(matches))
	return matches
}
