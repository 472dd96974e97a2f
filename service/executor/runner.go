package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/toolbox"

	"github.com/agencykit/runway/model"
)

// perform executes a single step. Steps whose action label resolves to a
// registered service are dispatched to it; all other steps are recorded
// without side effects so templates can reference external agents the engine
// does not run itself.
func (s *Service) perform(ctx context.Context, step *model.Step) (map[string]interface{}, error) {
	output := map[string]interface{}{}
	if step.Action != "" {
		output["action"] = step.Action
	}
	if step.Agent != "" {
		output["agent"] = step.Agent
	}
	if step.Action == "" || s.actions == nil {
		return output, nil
	}
	serviceName, methodName := splitAction(step.Action)
	service := s.actions.Lookup(serviceName)
	if service == nil {
		return output, nil
	}
	signatures := service.Methods()
	if methodName == "" && len(signatures) > 0 {
		methodName = signatures[0].Name
	}
	signature := signatures.Lookup(methodName)
	if signature == nil {
		return nil, fmt.Errorf("action %v: unknown method %v", serviceName, methodName)
	}
	method, err := service.Method(methodName)
	if err != nil {
		return nil, err
	}

	input := reflect.New(signature.Input.Elem()).Interface()
	if len(step.Config) > 0 {
		if err = s.converter.Convert(step.Config, input); err != nil {
			return nil, fmt.Errorf("failed to convert input for %v: %w", step.Action, err)
		}
	}
	result := reflect.New(signature.Output.Elem()).Interface()
	if err = method(ctx, input, result); err != nil {
		return nil, err
	}

	// Fold the typed result through its JSON representation so output keys
	// follow the declared json tags rather than Go field names.
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to convert output for %v: %w", step.Action, err)
	}
	resultMap := map[string]interface{}{}
	if err = json.Unmarshal(data, &resultMap); err != nil {
		return nil, fmt.Errorf("failed to convert output for %v: %w", step.Action, err)
	}
	resultMap = toolbox.DeleteEmptyKeys(resultMap)
	for k, v := range resultMap {
		output[k] = v
	}
	return output, nil
}

// splitAction splits "service.method" into its parts; a bare service name
// selects the service's first method.
func splitAction(action string) (string, string) {
	if index := strings.LastIndex(action, "."); index != -1 {
		return action[:index], action[index+1:]
	}
	return action, ""
}
