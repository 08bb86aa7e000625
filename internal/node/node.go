// Package node holds the project's agent definitions: the brain and the
// specialist agents compiled into .claude/.
package node

import "github.com/Strob0t/brainnode/internal/domain/agent"

// Blueprints returns every definition in the node, brain first and agents
// in alphabetical order.
func Blueprints() []agent.Blueprint {
	return []agent.Blueprint{
		Brain,
		DatabaseMaster,
		PythonMCPMaster,
		SecurityAuditMaster,
		TestingMaster,
	}
}
