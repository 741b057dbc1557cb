package destination

import (
	"context"
	"path"
	"path/filepath"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
)

// FSAdapter resolves static content on disk. It does not read the file: it
// returns its location and marks the payload as static content so the
// serving router can stream it with its own file server.
type FSAdapter struct {
	root string
}

// NewFSAdapter creates an adapter serving files under root.
func NewFSAdapter(root string) *FSAdapter {
	return &FSAdapter{root: root}
}

// Invoke resolves the file named by the payload, or by name when the payload
// is empty. The name cannot escape the root.
func (a *FSAdapter) Invoke(_ context.Context, exec *domain.ExecutionContext, name string, _ *domain.RequestParams) (any, error) {
	if p := expr.ToString(exec.Payload()); p != "" {
		name = p
	}
	exec.SetMeta(domain.MetaPayloadTypeHint, domain.PayloadStaticContent)
	return filepath.Join(a.root, filepath.FromSlash(path.Clean("/"+name))), nil
}
