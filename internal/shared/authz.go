package shared

import (
	"context"
	"fmt"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
)

// DecisionRecorder counts authorization outcomes for observability.
type DecisionRecorder interface {
	RecordDecision(permission string, allowed bool, reason string)
}

// Guard is the explicit authorization check every feature service runs
// before mutating or disclosing data. Denials come back as errors
// wrapping httpx.ErrForbidden so handlers map them uniformly; engine
// precondition violations and roster failures pass through untouched.
type Guard struct {
	Engine  *policy.Engine
	Metrics DecisionRecorder
}

// Check evaluates the permission against the resource and returns nil
// only when allowed.
func (g Guard) Check(ctx context.Context, sub policy.Subject, perm policy.Permission, res *policy.Resource) error {
	decision, err := g.Engine.Evaluate(ctx, sub, perm, res)
	if err != nil {
		return err
	}
	if g.Metrics != nil {
		g.Metrics.RecordDecision(string(perm), decision.Allowed, string(decision.Reason))
	}
	if !decision.Allowed {
		return fmt.Errorf("%w: %s (%s)", httpx.ErrForbidden, perm, decision.Reason)
	}
	return nil
}
