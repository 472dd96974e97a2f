package criteria

import (
	"github.com/agencykit/runway/service/dao"
)

// Matches reports whether an entity, projected to the supplied field map,
// satisfies every criteria parameter. A parameter naming a field the entity
// does not project is ignored, mirroring permissive list semantics.
func Matches(parameters []*dao.Parameter, fields map[string]string) bool {
	for _, parameter := range parameters {
		actual, ok := fields[parameter.Name]
		if !ok {
			continue
		}
		switch expect := parameter.Value.(type) {
		case string:
			if actual != expect {
				return false
			}
		case []string:
			matched := false
			for _, candidate := range expect {
				if actual == candidate {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

// FilterByState is a convenience wrapper for DAOs whose only criteria is a
// single State parameter.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	return Matches(parameters, map[string]string{"State": state})
}
