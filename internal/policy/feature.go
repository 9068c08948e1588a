package policy

import "context"

// featurePermissions maps opaque UI feature identifiers to the
// permissions that unlock them. Separate table from the role baseline;
// used for coarse screen gating only.
var featurePermissions = map[string][]Permission{
	"students":             {PermStudentsView, PermStudentsManage},
	"grades":               {PermGradesView, PermGradesManage, PermGradesExport},
	"attendance":           {PermAttendanceView, PermAttendanceManage},
	"parent-contacts":      {PermParentsViewInfo, PermParentsContact},
	"class-administration": {PermClassManage},
	"class-reports":        {PermClassViewReports},
	"counseling":           {PermCounselingConduct, PermCounselingViewRecords},
}

// FeatureIDs returns the known feature identifiers.
func FeatureIDs() []string {
	ids := make([]string, 0, len(featurePermissions))
	for id := range featurePermissions {
		ids = append(ids, id)
	}
	return ids
}

// CanAccessFeature reports whether the subject may see the feature at
// all: true iff at least one mapped permission evaluates to allow with no
// resource context. Unknown feature ids yield false, not an error.
func (e *Engine) CanAccessFeature(ctx context.Context, sub Subject, featureID string) (bool, error) {
	perms, ok := featurePermissions[featureID]
	if !ok {
		return false, nil
	}
	for _, perm := range perms {
		decision, err := e.Evaluate(ctx, sub, perm, nil)
		if err != nil {
			return false, err
		}
		if decision.Allowed {
			return true, nil
		}
	}
	return false, nil
}
