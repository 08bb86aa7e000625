package bundle

import "github.com/Strob0t/brainnode/internal/domain/agent"

// Builtin bundle names.
const (
	BaseConstraints               = "base-constraints"
	QualityGates                  = "quality-gates"
	AgentLifecycleFramework       = "agent-lifecycle-framework"
	VectorMemoryMCP               = "vector-memory-mcp"
	BrainDocsCommand              = "brain-docs-command"
	BrainScriptsCommand           = "brain-scripts-command"
	SequentialReasoningCapability = "sequential-reasoning-capability"

	AgentCoreIdentity        = "agent-core-identity"
	AgentVectorMemory        = "agent-vector-memory"
	SkillsUsagePolicy        = "skills-usage-policy"
	ToolsOnlyExecution       = "tools-only-execution"
	DocumentationFirstPolicy = "documentation-first-policy"

	Master          = "master"
	PythonCharacter = "python-character"
)

// Universal lists the universal bundles in their canonical include order.
var Universal = []string{
	BaseConstraints,
	QualityGates,
	AgentLifecycleFramework,
	VectorMemoryMCP,
	BrainDocsCommand,
	BrainScriptsCommand,
}

// AgentCore lists the agent identity and memory bundles.
var AgentCore = []string{AgentCoreIdentity, AgentVectorMemory}

// ExecutionPolicies lists the execution policy bundles.
var ExecutionPolicies = []string{SkillsUsagePolicy, ToolsOnlyExecution}

// CompilationKnowledge lists the compilation system knowledge bundles.
var CompilationKnowledge = []string{DocumentationFirstPolicy, SequentialReasoningCapability}

// StandardAgentIncludes is the full include stack of a specialist agent.
func StandardAgentIncludes() []string {
	out := make([]string, 0, len(Universal)+len(AgentCore)+len(ExecutionPolicies)+len(CompilationKnowledge))
	out = append(out, Universal...)
	out = append(out, AgentCore...)
	out = append(out, ExecutionPolicies...)
	out = append(out, CompilationKnowledge...)
	return out
}

// BuiltinBundles returns all built-in bundle presets.
func BuiltinBundles() []Bundle {
	return []Bundle{
		Define(BaseConstraints, GroupUniversal,
			"Hard operational limits shared by every agent and the brain.", nil,
			func(b *agent.Builder) {
				b.Rule("constraint-scope").
					Critical().
					Text("Operate only within the assigned task scope and the project working directory.").
					Why("Unscoped actions create side effects nobody asked for and cannot be reviewed.").
					OnViolation("Stop, report the out-of-scope action, and ask for explicit approval.")
				b.Guideline("constraint-limits").
					Text("Resource limits applied to every execution.").
					Example("Max nesting depth for delegated work: 2 levels").Key("delegation-depth").
					Example("Response size: concise, no repeated context dumps").Key("response-size").
					Example("Never fabricate file contents, command output, or tool results").Key("no-fabrication")
			}),
		Define(QualityGates, GroupUniversal,
			"Checks every deliverable passes before it is reported as done.", nil,
			func(b *agent.Builder) {
				b.Guideline("quality-gate-checklist").
					Text("Validation gates applied before completing a task.").
					PhasedExample().
					Phase("syntax", "Code parses and type-checks; configuration files load").
					Phase("tests", "Relevant test suites run green; new behavior has tests").
					Phase("consistency", "Changes follow project conventions and existing patterns").
					Phase("evidence", "Every claim in the report is backed by a tool result")
				b.Rule("quality-gate-enforcement").
					High().
					Text("A task is not complete until every applicable quality gate passes.").
					Why("Unverified output pushes defects downstream to the user.").
					OnViolation("Run the failing gate, fix the cause, and re-run before reporting.")
			}),
		Define(AgentLifecycleFramework, GroupUniversal,
			"Standard lifecycle every task moves through.", nil,
			func(b *agent.Builder) {
				b.Guideline("lifecycle-phases").
					Text("Task lifecycle from intake to hand-off.").
					PhasedExample().
					Phase("intake", "Restate the task, identify inputs, constraints and expected output").
					Phase("plan", "Choose the smallest sequence of steps that satisfies the task").
					Phase("execute", "Perform the steps with tools, recording evidence as you go").
					Phase("verify", "Apply quality gates to the result").
					Phase("handoff", "Report outcome, evidence and open issues concisely")
			}),
		Define(VectorMemoryMCP, GroupUniversal,
			"Usage contract for the vector memory MCP server.", nil,
			func(b *agent.Builder) {
				b.Guideline("vector-memory-tools").
					Text("Vector memory MCP tools available for storing and retrieving knowledge.").
					Example("search_memories(query, limit, category) - semantic search over stored memories").Key("search").
					Example("store_memory(content, category, tags) - persist a reusable insight").Key("store").
					Example("get_recent_memories(limit) - most recent entries").Key("recent").
					Example("get_memory_stats() - totals, categories and database size").Key("stats").
					Example("clear_old_memories(days_old, max_to_keep) - retention cleanup").Key("cleanup")
				b.Rule("vector-memory-categories").
					High().
					Text("Store memories only under the allowed categories: code-solution, bug-fix, architecture, learning, tool-usage, debugging, performance, security, other.").
					Why("Consistent categories keep filtered search effective.").
					OnViolation("Re-categorize the memory before storing it.")
			}),
		Define(BrainDocsCommand, GroupUniversal,
			"How to consult project documentation through the brain CLI.", nil,
			func(b *agent.Builder) {
				b.Guideline("brain-docs-command").
					Text("Use the brain docs command to discover project documentation before reading files blindly.").
					Example("brain docs - list indexed documentation with descriptions").Key("list").
					Example("brain docs <keyword> - filter documentation by keyword").Key("search")
			}),
		Define(BrainScriptsCommand, GroupUniversal,
			"How to discover and run project scripts through the brain CLI.", nil,
			func(b *agent.Builder) {
				b.Guideline("brain-scripts-command").
					Text("Use the brain scripts command to find automation instead of writing ad-hoc shell pipelines.").
					Example("brain script - list available project scripts").Key("list").
					Example("brain script <name> [args] - run a project script").Key("run")
			}),
		Define(SequentialReasoningCapability, GroupUniversal,
			"Structured step-by-step reasoning for non-trivial problems.", nil,
			func(b *agent.Builder) {
				b.Guideline("sequential-reasoning").
					Text("Break non-trivial problems into explicit sequential reasoning steps.").
					PhasedExample().
					Phase("decompose", "Split the problem into independent questions").
					Phase("analyze", "Answer each question with evidence from tools or memory").
					Phase("synthesize", "Combine answers into one consistent conclusion").
					Phase("check", "Look for contradictions and unverified assumptions before acting")
			}),
		Define(AgentCoreIdentity, GroupAgent,
			"Identity and reporting contract of a specialist agent.", nil,
			func(b *agent.Builder) {
				b.Guideline("core-identity").
					Text("Specialist agents execute delegated tasks and report back to the brain.").
					Example("Act within the specialization declared in the agent purpose").Key("specialization").
					Example("Report results, evidence and blockers; do not negotiate scope with the user").Key("reporting").
					Example("Defer cross-domain decisions to the brain").Key("escalation")
			}),
		Define(AgentVectorMemory, GroupAgent,
			"When specialist agents read from and write to vector memory.", nil,
			func(b *agent.Builder) {
				b.Guideline("agent-memory-protocol").
					Text("Memory usage protocol around every delegated task.").
					PhasedExample().
					Phase("before", "search_memories with the task topic, limit 3-5").
					Phase("during", "Reuse prior solutions when they match the current context").
					Phase("after", "store_memory with the outcome and lessons learned when they are reusable")
			}),
		Define(SkillsUsagePolicy, GroupAgent,
			"Policy for invoking skills.", nil,
			func(b *agent.Builder) {
				b.Rule("skills-usage").
					High().
					Text("Invoke an available skill when one matches the task instead of re-implementing its workflow.").
					Why("Skills encode reviewed workflows; re-implementing them drifts from the standard.").
					OnViolation("Switch to the matching skill and discard the ad-hoc workflow.")
			}),
		Define(ToolsOnlyExecution, GroupAgent,
			"Execution policy requiring tool-backed work.", nil,
			func(b *agent.Builder) {
				b.Rule("tools-only-execution").
					Critical().
					Text("Perform work through tools. Never describe an action as done without executing it.").
					Why("Claims without execution are indistinguishable from hallucination.").
					OnViolation("Execute the required tool call, then report its actual result.")
			}),
		Define(DocumentationFirstPolicy, GroupAgent,
			"Read documentation before changing code.", nil,
			func(b *agent.Builder) {
				b.Guideline("documentation-first").
					Text("Consult existing documentation before modifying code or configuration.").
					Example("Check README, docs/ and brain docs before editing").Key("read-first").
					Example("Update documentation in the same change that alters behavior").Key("keep-in-sync")
			}),
		Define(Master, GroupVariation,
			"Variation bundling the full specialist include stack.", StandardAgentIncludes(), nil),
		Define(PythonCharacter, GroupVariation,
			"Brain variation for Python projects.",
			[]string{BaseConstraints, QualityGates, VectorMemoryMCP, SequentialReasoningCapability},
			func(b *agent.Builder) {
				b.Guideline("python-character").
					Text("The brain orchestrates specialist agents for a Python code base.").
					Example("Delegate database work to database-master").Key("database").
					Example("Delegate MCP server design to python-mcp-master").Key("mcp").
					Example("Delegate security review to security-audit-master").Key("security").
					Example("Delegate test strategy to testing-master").Key("testing")
				b.Rule("delegation-first").
					High().
					Text("Route specialist work to the matching agent rather than solving it inline.").
					Why("Specialists carry domain guidelines the brain does not load.").
					OnViolation("Stop inline work and delegate to the matching agent.")
			}),
	}
}
